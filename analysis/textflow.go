package analysis

import (
	"math"
	"sort"

	"github.com/tsawler/pdfrev/contentstream"
)

const (
	sameLineTolerance = 2.0 // max |dy| for a font change to count as mid-line
	lineBucket        = 10.0
	gapFactor         = 1.5 // expected line gap is font size times this
	gapThreshold      = 1.5 // a gap beyond this many expected gaps is flagged
)

// countFontChanges counts consecutive events on the same line whose font
// names differ
func countFontChanges(events []contentstream.Event) int {
	n := 0
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if prev.Font != cur.Font && math.Abs(prev.Y-cur.Y) < sameLineTolerance {
			n++
		}
	}
	return n
}

// line is a group of events sharing a rounded y
type line struct {
	y        float64
	fontSize float64 // of the first event painted on the line
}

// countFlowGaps groups events into lines by y rounded to the nearest 10
// and counts adjacent lines, top to bottom, that sit further apart than
// the upper line's font size suggests. An upper line with no font size
// (text shown before any Tf) is not measured: the literal rule would give
// an expected gap of 0 and flag every line break after it.
func countFlowGaps(events []contentstream.Event) int {
	byY := make(map[float64]*line)
	var lines []*line
	for _, ev := range events {
		key := math.Round(ev.Y/lineBucket) * lineBucket
		if _, ok := byY[key]; ok {
			continue
		}
		l := &line{y: key, fontSize: ev.FontSize}
		byY[key] = l
		lines = append(lines, l)
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].y > lines[j].y
	})

	n := 0
	for i := 1; i < len(lines); i++ {
		upper, lower := lines[i-1], lines[i]
		if upper.fontSize <= 0 {
			continue
		}
		expected := upper.fontSize * gapFactor
		if upper.y-lower.y > expected*gapThreshold {
			n++
		}
	}
	return n
}
