// Package pdfrev finds content added to a PDF by incremental updates.
//
// A PDF editor that saves without rewriting the file appends the changed
// objects, a new cross-reference section and a new %%EOF marker. pdfrev
// reads those appended sections, works out which objects they replaced,
// and reports the text each one paints, whether that text covers text
// already on the page, and how confident the finding is.
//
// Basic usage:
//
//	rep, warnings, err := pdfrev.Open("contract.pdf").Analyze()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfrev.FormatWarnings(warnings))
//	}
//	if rep.HasModifications {
//	    fmt.Println(rep.TotalModified, "objects were changed after the first save")
//	}
//
// With options:
//
//	rep, _, err := pdfrev.Open("scan.pdf").
//	    WithOCR("eng").
//	    WithLogger(slog.Default()).
//	    MaxFileSize(64 << 20).
//	    Analyze()
//
// The lower-level revision, analysis and reader packages are also
// available.
package pdfrev

import (
	"github.com/tsawler/pdfrev/analysis"
	"github.com/tsawler/pdfrev/reader"
)

// Open returns an Analyzer for the file at filename. Nothing is read
// until Analyze is called.
//
// Example:
//
//	rep, warnings, err := pdfrev.Open("document.pdf").Analyze()
func Open(filename string) *Analyzer {
	return &Analyzer{
		filename: filename,
		name:     filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Analyzer for a document already in memory. The
// buffer must not change while the Analyzer is in use.
//
// Example:
//
//	rep, _, err := pdfrev.FromBytes(data).Analyze()
func FromBytes(data []byte) *Analyzer {
	return &Analyzer{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader returns an Analyzer over an already-opened reader.Reader.
// Recognizer and size options are not applied to it.
func FromReader(r *reader.Reader) *Analyzer {
	return &Analyzer{
		reader:  r,
		data:    r.Data(),
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustReport wraps Analyze, discarding warnings and panicking on error.
//
// Example:
//
//	rep := pdfrev.MustReport(pdfrev.Open("document.pdf").Analyze())
func MustReport(rep *analysis.Report, _ []Warning, err error) *analysis.Report {
	if err != nil {
		panic(err)
	}
	return rep
}
