// Package store persists analysis reports in PostgreSQL.
//
// Each report becomes one row in pdfrev_reports, holding the full JSON
// rendering, plus one row per modified object in pdfrev_modifications.
// Tables are created by EnsureSchema.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/tsawler/pdfrev/analysis"
)

// ErrNoDatabase is returned when no connection string is configured
var ErrNoDatabase = errors.New("no database configured")

// ErrNotFound is returned by GetReport for an unknown ID
var ErrNotFound = errors.New("report not found")

// Schema creates the tables SaveReport writes to
const Schema = `
CREATE TABLE IF NOT EXISTS pdfrev_reports (
	id             uuid PRIMARY KEY,
	filename       text NOT NULL,
	sha256         text NOT NULL,
	revisions      integer NOT NULL,
	total_modified integer NOT NULL,
	confidence     NUMERIC(5,4) NOT NULL,
	patterns       text[] NOT NULL,
	report         jsonb NOT NULL,
	created_at     timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS pdfrev_modifications (
	report_id  uuid NOT NULL REFERENCES pdfrev_reports(id) ON DELETE CASCADE,
	object     integer NOT NULL,
	generation integer NOT NULL,
	method     text NOT NULL,
	kind       text NOT NULL,
	page       integer NOT NULL,
	confidence NUMERIC(5,4) NOT NULL,
	texts      text[] NOT NULL,
	PRIMARY KEY (report_id, object)
);
CREATE INDEX IF NOT EXISTS pdfrev_reports_sha256 ON pdfrev_reports (sha256);
`

// Postgres stores reports in a PostgreSQL database
type Postgres struct {
	db *sql.DB
}

// StoredReport is a saved report as read back from the database
type StoredReport struct {
	ID            uuid.UUID
	Filename      string
	SHA256        string
	Revisions     int
	TotalModified int
	Confidence    float64
	Patterns      []string
	Report        json.RawMessage
	CreatedAt     time.Time
}

// reportRow and modificationRow are the values written by SaveReport
type reportRow struct {
	id            uuid.UUID
	filename      string
	sha256        string
	revisions     int
	totalModified int
	confidence    float64
	patterns      []string
	report        []byte
}

type modificationRow struct {
	object     int
	generation int
	method     string
	kind       string
	page       int
	confidence float64
	texts      []string
}

// sanitizeConfidence clamps to [0, 1] and rounds to 4 decimal places to
// fit NUMERIC(5,4)
func sanitizeConfidence(confidence float64) float64 {
	if confidence < 0.0 {
		return 0.0
	}
	if confidence > 1.0 {
		return 1.0
	}
	return float64(int(confidence*10000+0.5)) / 10000
}

// NewPostgres connects to databaseURL and checks the connection
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, ErrNoDatabase
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

// EnsureSchema creates the tables if they do not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveReport stores rep for the file named filename whose bytes are data,
// returning the new report ID
func (p *Postgres) SaveReport(ctx context.Context, filename string, data []byte, rep *analysis.Report) (uuid.UUID, error) {
	row, mods, err := newRows(filename, data, rep)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pdfrev_reports (
			id, filename, sha256, revisions, total_modified,
			confidence, patterns, report
		) VALUES ($1, $2, $3, $4, $5, $6::NUMERIC(5,4), $7, $8)`,
		row.id, row.filename, row.sha256, row.revisions, row.totalModified,
		row.confidence, pq.Array(row.patterns), row.report,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert report (file=%s, confidence=%.4f): %w",
			filename, row.confidence, err)
	}

	for _, m := range mods {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pdfrev_modifications (
				report_id, object, generation, method, kind, page, confidence, texts
			) VALUES ($1, $2, $3, $4, $5, $6, $7::NUMERIC(5,4), $8)`,
			row.id, m.object, m.generation, m.method, m.kind, m.page, m.confidence, pq.Array(m.texts),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert modification %d: %w", m.object, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit report: %w", err)
	}
	return row.id, nil
}

// GetReport reads a saved report by ID
func (p *Postgres) GetReport(ctx context.Context, id uuid.UUID) (*StoredReport, error) {
	var (
		stored   StoredReport
		patterns pq.StringArray
		report   []byte
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, filename, sha256, revisions, total_modified,
			confidence, patterns, report, created_at
		FROM pdfrev_reports
		WHERE id = $1`, id,
	).Scan(
		&stored.ID, &stored.Filename, &stored.SHA256, &stored.Revisions, &stored.TotalModified,
		&stored.Confidence, &patterns, &report, &stored.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	stored.Patterns = []string(patterns)
	stored.Report = json.RawMessage(report)
	return &stored, nil
}

// FindBySHA256 returns the IDs of reports saved for a file with the
// given digest, newest first
func (p *Postgres) FindBySHA256(ctx context.Context, digest string) ([]uuid.UUID, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id FROM pdfrev_reports WHERE sha256 = $1 ORDER BY created_at DESC`, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Digest returns the hex SHA-256 of data, the key reports are indexed by
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// newRows converts a report into the values SaveReport inserts
func newRows(filename string, data []byte, rep *analysis.Report) (reportRow, []modificationRow, error) {
	if rep == nil {
		return reportRow{}, nil, fmt.Errorf("report is required")
	}

	encoded, err := json.Marshal(rep)
	if err != nil {
		return reportRow{}, nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	patterns := make([]string, len(rep.Patterns))
	for i, p := range rep.Patterns {
		patterns[i] = p.Type
	}

	row := reportRow{
		id:            uuid.New(),
		filename:      filename,
		sha256:        Digest(data),
		revisions:     len(rep.Revisions),
		totalModified: rep.TotalModified,
		confidence:    sanitizeConfidence(rep.Confidence),
		patterns:      patterns,
		report:        encoded,
	}

	mods := make([]modificationRow, len(rep.Modifications))
	for i, m := range rep.Modifications {
		texts := make([]string, len(m.Texts))
		for j, t := range m.Texts {
			texts[j] = t.Text
		}
		mods[i] = modificationRow{
			object:     m.Object,
			generation: m.Generation,
			method:     m.Method.String(),
			kind:       m.Kind.String(),
			page:       m.Page,
			confidence: sanitizeConfidence(m.Confidence),
			texts:      texts,
		}
	}
	return row, mods, nil
}
