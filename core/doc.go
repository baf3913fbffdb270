// Package core holds the PDF object model and the parsers that produce
// it from an in-memory file.
//
// # Objects
//
// [Object] is implemented by [Null], [Bool], [Int], [Real], [String],
// [Name], [Array], [Dict], [Stream] and [IndirectRef], and by nothing
// else. Strings keep their raw bytes; the contentstream package decodes
// text.
//
// # Parsing
//
// [Lexer] splits bytes into tokens and [Parser] builds objects from them,
// including "N G obj" definitions with stream bodies. A stream whose
// /Length is wrong is recovered by searching for endstream.
//
// # Cross-reference data
//
// [XRefParser] reads classic tables and cross-reference streams and
// follows /Prev and /XRefStm. [LoadXRef] merges the chain into one
// master table, newest entry winning, and falls back to [RepairXRef],
// which rebuilds a table by scanning for object headers. Objects stored
// in object streams are read through [ObjectStream].
//
// [Stream.Decode] applies the stream's filter chain using
// internal/filters.
package core
