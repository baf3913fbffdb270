// Command pdfrev reports content added to PDF files by incremental
// updates.
//
// Usage:
//
//	pdfrev [flags] file.pdf [file.pdf ...]
//
// Settings come from PDFREV_* environment variables (and an optional
// .env file); flags override them. With -exit-code the status is 2 when
// any file has modifications.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tsawler/pdfrev"
	"github.com/tsawler/pdfrev/config"
	"github.com/tsawler/pdfrev/reader"
	"github.com/tsawler/pdfrev/report"
	"github.com/tsawler/pdfrev/store"
)

// Exit statuses
const (
	exitOK       = 0
	exitError    = 1
	exitModified = 2
	exitUsage    = 64
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// options are the resolved settings for one invocation
type options struct {
	cfg      *config.Config
	output   string
	exitCode bool
	files    []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("pdfrev", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pdfrev [flags] file.pdf [file.pdf ...]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	opts := &options{cfg: cfg}
	logLevel := cfg.LogLevel.String()
	fs.StringVar(&cfg.Format, "format", cfg.Format, "report format: "+strings.Join(report.Formats, ", "))
	fs.StringVar(&logLevel, "log-level", logLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.BoolVar(&cfg.OCR, "ocr", cfg.OCR, "recognize text on image-only pages (needs -tags ocr)")
	fs.StringVar(&cfg.OCRLang, "ocr-lang", cfg.OCRLang, "OCR languages, joined with +")
	fs.Int64Var(&cfg.MaxFileSize, "max-size", cfg.MaxFileSize, "largest file accepted, in bytes")
	fs.StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "PostgreSQL URL for saving reports")
	fs.StringVar(&opts.output, "o", "", "write reports to this file instead of stdout")
	fs.BoolVar(&opts.exitCode, "exit-code", false, "exit with status 2 when modifications are found")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid -log-level: %w", err)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fs.Usage()
		return nil, errors.New("no input files")
	}
	return opts, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "pdfrev: %v\n", err)
		return exitUsage
	}
	cfg := opts.cfg
	logger := newLogger(cfg, stderr)

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			logger.Error("cannot create output file", "path", opts.output, "error", err)
			return exitError
		}
		defer f.Close()
		out = f
	}

	var db *store.Postgres
	if cfg.DatabaseURL != "" {
		db, err = store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database unavailable", "error", err)
			return exitError
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			logger.Error("database schema", "error", err)
			return exitError
		}
	}

	status := exitOK
	for _, path := range opts.files {
		modified, err := analyzeFile(ctx, cfg, path, out, db, logger)
		if err != nil {
			logger.Error("analysis failed", "file", path, "error", err)
			status = exitError
			continue
		}
		if modified && opts.exitCode && status == exitOK {
			status = exitModified
		}
	}
	return status
}

// analyzeFile analyzes one file, writes its report and saves it when a
// database is configured. It reports whether the file was modified.
func analyzeFile(ctx context.Context, cfg *config.Config, path string, out io.Writer, db *store.Postgres, logger *slog.Logger) (bool, error) {
	data, err := reader.ReadFile(path, cfg.MaxFileSize)
	if err != nil {
		return false, err
	}

	analyzer := pdfrev.FromBytes(data).WithName(path).WithLogger(logger).MaxFileSize(cfg.MaxFileSize)
	if cfg.OCR {
		analyzer = analyzer.WithOCR(strings.Split(cfg.OCRLang, "+")...)
	}
	rep, warnings, err := analyzer.Analyze()
	if err != nil {
		return false, err
	}
	for _, w := range warnings {
		logger.Warn("analysis warning", "file", path, "kind", w.Kind, "message", w.Message)
	}

	if err := report.Write(out, cfg.Format, rep); err != nil {
		return false, err
	}

	if db != nil {
		id, err := db.SaveReport(ctx, path, data, rep)
		if err != nil {
			return false, err
		}
		logger.Info("report saved", "file", path, "id", id)
	}
	return rep.HasModifications, nil
}
