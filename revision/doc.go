// Package revision finds the incremental-update structure of a PDF file
// by scanning its raw bytes.
//
// Every save of an incrementally updated PDF appends its objects, a
// cross-reference section, a trailer and an end-of-file marker. [Scan]
// splits the buffer at each %%EOF marker and records where the xref,
// trailer and startxref keywords of each revision sit:
//
//	layout := revision.Scan(data)
//	if !layout.Incremental() {
//	    return // saved once
//	}
//	last := layout.Current()
//
// [ParseSection] reads one classic cross-reference section and reports
// which objects it lists as in use. It never fails: lines it cannot read
// are counted in [Section.Malformed] and skipped.
package revision
