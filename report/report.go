package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/pdfrev/analysis"
)

// ErrUnknownFormat is returned by Write for an unsupported format name
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the names accepted by Write
var Formats = []string{"text", "json", "html"}

// Write renders rep in the named format
func Write(w io.Writer, format string, rep *analysis.Report) error {
	switch strings.ToLower(format) {
	case "text", "":
		return Text(w, rep)
	case "json":
		return JSON(w, rep)
	case "html":
		return HTML(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSON writes rep as indented JSON followed by a newline
func JSON(w io.Writer, rep *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Text writes a human-readable summary
func Text(w io.Writer, rep *analysis.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Revisions:        %d\n", len(rep.Revisions))
	fmt.Fprintf(bw, "Modified objects: %d\n", rep.TotalModified)
	fmt.Fprintf(bw, "Confidence:       %.2f\n", rep.Confidence)
	if !rep.HasModifications {
		bw.WriteString("\nNo incremental modifications found.\n")
	}

	for _, mod := range rep.Modifications {
		fmt.Fprintf(bw, "\n%s\n", objectHeading(mod))
		for _, t := range mod.Texts {
			fmt.Fprintf(bw, "  %s\n", textLine(t))
		}
		if mod.FontChanges > 0 || mod.FlowGaps > 0 {
			fmt.Fprintf(bw, "  font changes: %d, flow gaps: %d\n", mod.FontChanges, mod.FlowGaps)
		}
	}

	if len(rep.Patterns) > 0 {
		bw.WriteString("\nPatterns:\n")
		for _, p := range rep.Patterns {
			fmt.Fprintf(bw, "  [%s] %s: %s\n", p.Severity, p.Type, p.Description)
		}
	}

	if len(rep.Skipped) > 0 || rep.MalformedXRefLines > 0 || rep.PageMapError != "" {
		bw.WriteString("\nDiagnostics:\n")
		for _, s := range rep.Skipped {
			fmt.Fprintf(bw, "  %s\n", s)
		}
		if rep.MalformedXRefLines > 0 {
			fmt.Fprintf(bw, "  %d malformed xref lines ignored\n", rep.MalformedXRefLines)
		}
		if rep.PageMapError != "" {
			fmt.Fprintf(bw, "  page map unavailable: %s\n", rep.PageMapError)
		}
	}

	return bw.Flush()
}

func objectHeading(mod analysis.ObjectModification) string {
	page := "no page"
	if mod.Page > 0 {
		page = fmt.Sprintf("page %d", mod.Page)
	}
	return fmt.Sprintf("Object %d gen %d (%s, %s), %s, confidence %.2f",
		mod.Object, mod.Generation, mod.Kind, mod.Method, page, mod.Confidence)
}

func textLine(t analysis.TextModification) string {
	line := fmt.Sprintf("%s at (%.1f, %.1f): %q", t.Kind, t.X, t.Y, t.Text)
	if t.Font != "" {
		line += fmt.Sprintf(" [%s %.1f]", t.Font, t.FontSize)
	}
	if t.Kind == analysis.Overlay {
		line += " over " + t.Overlaid
	}
	return line
}
