package pdfrev

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/tsawler/pdfrev/analysis"
	"github.com/tsawler/pdfrev/ocr"
	"github.com/tsawler/pdfrev/reader"
	"github.com/tsawler/pdfrev/revision"
)

// Analyzer provides a fluent interface for analyzing a PDF. Each
// configuration method returns a new Analyzer, so a configured value can
// be shared and extended safely.
type Analyzer struct {
	// Source: a file name, a buffer, or an open reader
	filename string
	name     string // for log output
	data     []byte
	reader   *reader.Reader

	// Configuration
	options analyzeOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Analyzer with a deep copy of options
func (a *Analyzer) clone() *Analyzer {
	return &Analyzer{
		filename: a.filename,
		name:     a.name,
		data:     a.data,
		reader:   a.reader,
		options:  a.options.clone(),
		err:      a.err,
	}
}

// ============================================================================
// Configuration Methods (return new Analyzer instance)
// ============================================================================

// WithOCR recognizes the images of pages that draw no text, so overlays
// on scanned pages can be detected. Languages use Tesseract codes and
// default to "eng". Without the "ocr" build tag, Analyze reports a
// WarningOCRUnavailable instead.
//
// Example:
//
//	rep, _, err := pdfrev.Open("scan.pdf").WithOCR("eng", "por").Analyze()
func (a *Analyzer) WithOCR(languages ...string) *Analyzer {
	newA := a.clone()
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	newA.options.ocrLanguages = append([]string(nil), languages...)
	return newA
}

// WithLogger sends analysis progress to logger. The default discards it.
func (a *Analyzer) WithLogger(logger *slog.Logger) *Analyzer {
	newA := a.clone()
	newA.options.logger = logger
	return newA
}

// WithName labels log output with name. Open uses the file name.
func (a *Analyzer) WithName(name string) *Analyzer {
	newA := a.clone()
	newA.name = name
	return newA
}

// MaxFileSize rejects inputs larger than n bytes with reader.ErrTooLarge.
// Zero removes the limit.
func (a *Analyzer) MaxFileSize(n int64) *Analyzer {
	newA := a.clone()
	if n < 0 {
		newA.err = fmt.Errorf("invalid max file size: %d", n)
		return newA
	}
	newA.options.maxFileSize = n
	return newA
}

// ============================================================================
// Terminal Operations
// ============================================================================

// openReader returns the reader for the configured source and whether
// this Analyzer created it
func (a *Analyzer) openReader() (*reader.Reader, bool, error) {
	if a.reader != nil {
		return a.reader, false, nil
	}

	limit := a.options.maxFileSize
	if a.data != nil {
		if limit > 0 && int64(len(a.data)) > limit {
			return nil, false, fmt.Errorf("%w: %d bytes, limit %d", reader.ErrTooLarge, len(a.data), limit)
		}
		r, err := reader.NewReader(a.data)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open PDF: %w", err)
		}
		return r, true, nil
	}

	if a.filename == "" {
		return nil, false, fmt.Errorf("no filename specified")
	}
	r, err := reader.Open(a.filename, limit)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open PDF: %w", err)
	}
	return r, true, nil
}

// Analyze runs the analysis and returns the report.
//
// The error is non-nil only when the input cannot be read as a PDF at
// all. Problems with individual objects end up in the report and in the
// returned warnings.
//
// Example:
//
//	rep, warnings, err := pdfrev.Open("document.pdf").Analyze()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfrev.FormatWarnings(warnings))
//	}
func (a *Analyzer) Analyze() (*analysis.Report, []Warning, error) {
	if a.err != nil {
		return nil, nil, a.err
	}

	r, owned, err := a.openReader()
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if r.XRefTable().Repaired {
		warnings = append(warnings, Warning{
			Kind:    WarningRepairedXRef,
			Message: "cross-reference chain unreadable; objects located by scanning the file",
		})
	}

	if owned && len(a.options.ocrLanguages) > 0 {
		client, err := ocr.New(a.options.ocrLanguages...)
		if err != nil {
			warnings = append(warnings, Warning{Kind: WarningOCRUnavailable, Message: err.Error()})
		} else {
			defer client.Close()
			r.SetRecognizer(client)
		}
	}

	logger := a.options.logger
	if logger != nil && a.name != "" {
		logger = logger.With("file", a.name)
	}

	rep := analysis.Analyze(analysis.NewContext(r.Data(), r, r, logger))
	warnings = append(warnings, reportWarnings(rep, r.Data())...)
	return rep, warnings, nil
}

// Revisions returns the revision layout without analyzing objects. Only
// the file header is checked.
func (a *Analyzer) Revisions() (revision.Layout, error) {
	if a.err != nil {
		return revision.Layout{}, a.err
	}
	r, _, err := a.openReader()
	if err != nil {
		return revision.Layout{}, err
	}
	return *revision.Scan(r.Data()), nil
}

// reportWarnings turns the report's diagnostics into warnings
func reportWarnings(rep *analysis.Report, data []byte) []Warning {
	var warnings []Warning
	for _, s := range rep.Skipped {
		warnings = append(warnings, Warning{Kind: WarningSkippedObject, Message: s.String()})
	}
	if rep.MalformedXRefLines > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarningMalformedXRef,
			Message: fmt.Sprintf("%d malformed lines in the last cross-reference section were ignored", rep.MalformedXRefLines),
		})
	}
	if rep.PageMapError != "" {
		warnings = append(warnings, Warning{Kind: WarningPageMap, Message: rep.PageMapError})
	}
	if n := len(rep.Revisions); n > 0 {
		end := rep.Revisions[n-1].End
		if end < int64(len(data)) && len(bytes.TrimSpace(data[end:])) > 0 {
			warnings = append(warnings, Warning{
				Kind:    WarningTrailingData,
				Message: fmt.Sprintf("%d bytes after the last %%%%EOF marker belong to no revision", int64(len(data))-end),
			})
		}
	}
	return warnings
}
