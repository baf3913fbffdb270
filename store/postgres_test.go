package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/tsawler/pdfrev/analysis"
	"github.com/tsawler/pdfrev/revision"
)

func TestSanitizeConfidence(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.9632000000000001, 0.9632},
		{1, 1},
		{1.3, 1},
	}
	for _, tt := range tests {
		if got := sanitizeConfidence(tt.in); got != tt.want {
			t.Errorf("sanitizeConfidence(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewPostgresWithoutURL(t *testing.T) {
	_, err := NewPostgres(context.Background(), "")
	if !errors.Is(err, ErrNoDatabase) {
		t.Errorf("NewPostgres(\"\") error = %v, want ErrNoDatabase", err)
	}
}

func TestDigest(t *testing.T) {
	// SHA-256 of the empty input
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Digest(nil); got != want {
		t.Errorf("Digest(nil) = %s", got)
	}
}

func testReport() *analysis.Report {
	return &analysis.Report{
		HasModifications: true,
		TotalModified:    1,
		Confidence:       0.63333333,
		Revisions:        []revision.Revision{{Index: 0}, {Index: 1}},
		Modifications: []analysis.ObjectModification{{
			Object:     10,
			Generation: 2,
			Method:     analysis.GenerationNonzero,
			Kind:       analysis.KindStream,
			Page:       1,
			Texts: []analysis.TextModification{
				{Text: "Nova", Kind: analysis.Addition},
				{Text: "clausula", Kind: analysis.Overlay, Overlaid: analysis.OverlaidPlaceholder},
			},
			Confidence: 0.63333333,
		}},
		Patterns: []analysis.ModificationPattern{{Type: analysis.PatternOverlayBurst, Severity: analysis.High}},
	}
}

func TestNewRows(t *testing.T) {
	row, mods, err := newRows("contract.pdf", []byte("%PDF-1.7"), testReport())
	if err != nil {
		t.Fatalf("newRows failed: %v", err)
	}

	if row.id == uuid.Nil || row.id.Version() != 4 {
		t.Errorf("id = %v, want a random UUID", row.id)
	}
	if row.filename != "contract.pdf" || row.sha256 != Digest([]byte("%PDF-1.7")) {
		t.Errorf("row = %+v", row)
	}
	if row.revisions != 2 || row.totalModified != 1 || row.confidence != 0.6333 {
		t.Errorf("row counts = %d %d %v", row.revisions, row.totalModified, row.confidence)
	}
	if !reflect.DeepEqual(row.patterns, []string{"overlay_burst"}) {
		t.Errorf("patterns = %v", row.patterns)
	}

	var decoded map[string]any
	if err := json.Unmarshal(row.report, &decoded); err != nil || decoded["has_modifications"] != true {
		t.Errorf("report JSON = %s (%v)", row.report, err)
	}

	want := []modificationRow{{
		object:     10,
		generation: 2,
		method:     "generation_nonzero",
		kind:       "stream",
		page:       1,
		confidence: 0.6333,
		texts:      []string{"Nova", "clausula"},
	}}
	if !reflect.DeepEqual(mods, want) {
		t.Errorf("mods = %+v, want %+v", mods, want)
	}

	if _, _, err := newRows("x.pdf", nil, nil); err == nil {
		t.Error("expected error for nil report")
	}
}

// TestSaveReport runs against a real database when PDFREV_TEST_DATABASE_URL is set
func TestSaveReport(t *testing.T) {
	url := os.Getenv("PDFREV_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PDFREV_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := NewPostgres(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgres failed: %v", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	data := []byte("%PDF-1.7 test " + uuid.NewString())
	id, err := db.SaveReport(ctx, "contract.pdf", data, testReport())
	if err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	stored, err := db.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if stored.Filename != "contract.pdf" || stored.Confidence != 0.6333 || stored.TotalModified != 1 {
		t.Errorf("stored = %+v", stored)
	}

	ids, err := db.FindBySHA256(ctx, Digest(data))
	if err != nil || len(ids) != 1 || ids[0] != id {
		t.Errorf("FindBySHA256() = %v, %v", ids, err)
	}

	if _, err := db.GetReport(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetReport(unknown) error = %v", err)
	}
}
