package analysis

import (
	"fmt"
	"sort"
)

// Pattern type labels
const (
	PatternClusteredEdits     = "clustered_edits"
	PatternSystemicFontChange = "systemic_font_change"
	PatternOverlayBurst       = "overlay_burst"
)

const (
	clusterThreshold   = 3 // a page needs more modifications than this
	fontChurnThreshold = 2 // more modifications with font changes than this
)

// DetectPatterns derives document-level patterns. All rules are
// evaluated; the result is ordered by rule, then by page.
func DetectPatterns(mods []ObjectModification) []ModificationPattern {
	patterns := []ModificationPattern{}

	perPage := make(map[int]int)
	for _, m := range mods {
		if m.Page > 0 {
			perPage[m.Page]++
		}
	}
	var pages []int
	for page, n := range perPage {
		if n > clusterThreshold {
			pages = append(pages, page)
		}
	}
	sort.Ints(pages)
	for _, page := range pages {
		patterns = append(patterns, ModificationPattern{
			Type:        PatternClusteredEdits,
			Description: fmt.Sprintf("page %d has %d modified objects", page, perPage[page]),
			Severity:    High,
		})
	}

	fontChurn, overlays := 0, 0
	for i := range mods {
		if mods[i].FontChanges > 0 {
			fontChurn++
		}
		if mods[i].HasOverlay() {
			overlays++
		}
	}
	if fontChurn > fontChurnThreshold {
		patterns = append(patterns, ModificationPattern{
			Type:        PatternSystemicFontChange,
			Description: fmt.Sprintf("%d modified objects switch fonts mid-line", fontChurn),
			Severity:    Medium,
		})
	}
	if overlays > 0 {
		patterns = append(patterns, ModificationPattern{
			Type:        PatternOverlayBurst,
			Description: fmt.Sprintf("text already on the page was painted again by %d modified %s", overlays, plural(overlays, "object")),
			Severity:    High,
		})
	}

	return patterns
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
