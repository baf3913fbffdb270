// Package report renders an analysis.Report for people and programs.
//
// Three formats are supported:
//
//   - Text: a plain summary for terminals
//   - JSON: the report structure, indented, with enums as strings
//   - HTML: a standalone page built with golang.org/x/net/html
//
// Write picks a renderer by name:
//
//	if err := report.Write(os.Stdout, "json", rep); err != nil {
//	    // handle error
//	}
//
// Output is deterministic for a given report.
package report
