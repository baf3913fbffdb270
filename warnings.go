package pdfrev

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal issue
type WarningKind string

const (
	// WarningSkippedObject: a modified object could not be analyzed
	WarningSkippedObject WarningKind = "skipped_object"
	// WarningMalformedXRef: lines of the last cross-reference section were ignored
	WarningMalformedXRef WarningKind = "malformed_xref"
	// WarningPageMap: the page tree could not be read, so no page numbers
	WarningPageMap WarningKind = "page_map"
	// WarningRepairedXRef: the cross-reference chain was rebuilt by scanning
	WarningRepairedXRef WarningKind = "repaired_xref"
	// WarningOCRUnavailable: OCR was requested but cannot run
	WarningOCRUnavailable WarningKind = "ocr_unavailable"
	// WarningTrailingData: bytes follow the last %%EOF marker
	WarningTrailingData WarningKind = "trailing_data"
)

// Warning is a non-fatal issue found while analyzing. The report is
// complete, but the warning may explain gaps in it.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// FormatWarnings joins warnings into one line, separated by "; "
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
