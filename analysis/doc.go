// Package analysis decides what the most recent save of an incrementally
// updated PDF changed.
//
// The pipeline runs once per document:
//
//  1. [revision.Scan] splits the buffer at its %%EOF markers. A file saved
//     once yields an empty report.
//  2. The last revision's cross-reference section is parsed for the
//     objects it lists as in use.
//  3. [Locate] unions those with every object whose generation is above
//     zero in the master cross-reference table.
//  4. Each candidate is classified, its text painted and placed on a
//     page, and checked for overlays, mid-line font changes and vertical
//     flow gaps.
//  5. Document-level patterns and confidence scores are derived.
//
// The document model is reached only through the [Document] and
// [TextOracle] interfaces. A candidate that cannot be read becomes a
// [Skip] in the report instead of failing the analysis.
//
//	ctx := analysis.NewContext(data, doc, doc, logger)
//	report := analysis.Analyze(ctx)
//
// The overlay check asks whether an event's text already appears on the
// page without the object under analysis. Repeated text is reported as an
// overlay and a slightly altered overlay is missed; the overlaid text is
// always the placeholder [OverlaidPlaceholder].
package analysis
