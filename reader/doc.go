// Package reader opens a PDF held entirely in memory and gives random
// access to its objects, pages and page text.
//
// # Opening PDF Files
//
//	r, err := reader.Open("document.pdf", 512<<20)
//	if errors.Is(err, reader.ErrNotPDF) {
//	    ...
//	}
//
// Or use [NewReader] with a byte slice. The whole file is read once and
// never reopened.
//
// # Object Resolution
//
// Objects are located through the master cross-reference table, which
// merges every section of the /Prev chain with newer sections winning.
// Objects inside object streams are extracted from their container. If an
// offset in the table does not hold the expected object, the object is
// found by scanning the file for its header instead.
//
//   - GetObject(objNum) - load object by number
//   - ResolveReference(ref) - resolve an IndirectRef
//   - Resolve(obj) - resolve if indirect, otherwise return as-is
//
// # Analysis
//
// A Reader satisfies analysis.Document and analysis.TextOracle: it lists
// object generations, maps pages to the objects they are made of, and
// produces page text with any one object left out. With a recognizer set
// through SetRecognizer, pages without text are read by OCR from their
// images.
//
// # Object Caching
//
// Loaded objects are cached for the life of the Reader.
package reader
