package analysis

import (
	"github.com/tsawler/pdfrev/revision"
)

// Analyze runs the whole pipeline. It does not fail: unreadable objects
// are listed in Report.Skipped and a broken page tree leaves every
// modification on page 0 with the reason in Report.PageMapError.
func Analyze(ctx *Context) *Report {
	log := ctx.logger
	layout := revision.Scan(ctx.data)

	log.Info("scanned revisions", "revisions", len(layout.Revisions), "bytes", layout.Size)
	if !layout.Incremental() {
		return emptyReport(layout.Revisions)
	}

	report := emptyReport(layout.Revisions)

	lastInUse, malformed := lastRevisionObjects(ctx.data, layout)
	report.MalformedXRefLines = malformed
	if malformed > 0 {
		log.Debug("malformed xref lines", "count", malformed)
	}

	candidates := Locate(ctx.doc.Generations(), lastInUse)
	log.Info("located candidates", "count", len(candidates))

	pages, err := ctx.doc.PageRefs()
	if err != nil {
		log.Warn("page map unavailable", "error", err)
		report.PageMapError = err.Error()
		pages = nil
	}

	for _, cand := range candidates {
		out := analyzeObject(ctx, cand, pages)
		if out.Skip != nil {
			log.Debug("skipping object", "obj", cand.Number, "reason", out.Skip.Reason, "error", out.Skip.Detail)
			report.Skipped = append(report.Skipped, *out.Skip)
			continue
		}
		report.Modifications = append(report.Modifications, *out.Mod)
	}

	report.TotalModified = len(report.Modifications)
	report.HasModifications = report.TotalModified > 0
	if report.HasModifications {
		report.Patterns = DetectPatterns(report.Modifications)
	}
	report.Confidence = meanConfidence(report.Modifications)

	log.Info("analysis finished",
		"modified", report.TotalModified,
		"skipped", len(report.Skipped),
		"patterns", len(report.Patterns),
		"confidence", report.Confidence)
	return report
}
