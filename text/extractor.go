package text

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdfrev/contentstream"
)

// Fragment is a painted string with its position
type Fragment struct {
	Text     string
	X, Y     float64
	FontName string
	FontSize float64
}

// Width estimates the painted width of the fragment
func (f Fragment) Width() float64 {
	return float64(len([]rune(f.Text))) * f.FontSize * glyphWidth
}

const (
	glyphWidth = 0.5  // average glyph advance, as a fraction of the font size
	spaceWidth = 0.25 // space advance, as a fraction of the font size
)

// Extractor accumulates fragments from one or more content streams
type Extractor struct {
	fragments []Fragment
}

// NewExtractor creates a new text extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromBytes paints a decoded content stream and appends its
// fragments. Hex strings are kept in their <HEX> form.
func (e *Extractor) ExtractFromBytes(data []byte) error {
	events, err := contentstream.Paint(data)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	for _, ev := range events {
		e.fragments = append(e.fragments, Fragment{
			Text:     ev.Text,
			X:        ev.X,
			Y:        ev.Y,
			FontName: ev.Font,
			FontSize: ev.FontSize,
		})
	}
	return nil
}

// GetFragments returns all fragments in paint order
func (e *Extractor) GetFragments() []Fragment {
	return e.fragments
}

// GetText returns the fragments as lines, top of the page first
func (e *Extractor) GetText() string {
	lines := groupFragmentsByLine(e.fragments)

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, frag := range line {
			if j > 0 && needsSpace(line[j-1], frag) {
				sb.WriteByte(' ')
			}
			sb.WriteString(frag.Text)
		}
	}
	return sb.String()
}

// lineTolerance is how far apart two baselines may be and still share a line
func lineTolerance(f Fragment) float64 {
	if f.FontSize > 0 {
		return f.FontSize * 0.5
	}
	return 1
}

// groupFragmentsByLine clusters fragments by y, ordering lines top to
// bottom and fragments left to right. The sort is stable so fragments
// painted at the same spot keep paint order.
func groupFragmentsByLine(fragments []Fragment) [][]Fragment {
	if len(fragments) == 0 {
		return nil
	}

	sorted := append([]Fragment(nil), fragments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]Fragment
	current := []Fragment{sorted[0]}
	for _, frag := range sorted[1:] {
		if math.Abs(current[0].Y-frag.Y) <= lineTolerance(current[0]) {
			current = append(current, frag)
			continue
		}
		lines = append(lines, current)
		current = []Fragment{frag}
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
	}
	return lines
}

// needsSpace reports whether a word boundary separates two fragments on
// the same line. Explicit spaces at either edge suppress the extra one.
func needsSpace(prev, next Fragment) bool {
	if strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	gap := next.X - (prev.X + prev.Width())
	return gap >= prev.FontSize*spaceWidth*0.5
}
