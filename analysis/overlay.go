package analysis

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfrev/contentstream"
)

// classifyEvents turns paint events into text modifications. An event is
// an Overlay when its text already appears in the page's text drawn by
// the other objects; otherwise it is an Addition. Events on no page, and
// blank events, are always Additions. The page text is fetched at most
// once. Both sides are compared in NFKC form so ligatures and composed
// accents match their decomposed spellings.
func classifyEvents(oracle TextOracle, page, object int, events []contentstream.Event) ([]TextModification, error) {
	texts := make([]TextModification, 0, len(events))

	var (
		pageText string
		fetched  bool
	)
	for _, ev := range events {
		t := TextModification{
			Text:     ev.Text,
			X:        ev.X,
			Y:        ev.Y,
			Font:     ev.Font,
			FontSize: ev.FontSize,
			Kind:     Addition,
			Hex:      ev.Hex,
		}

		needle := norm.NFKC.String(strings.TrimSpace(ev.Text))
		if page > 0 && needle != "" && oracle != nil {
			if !fetched {
				s, err := oracle.PageText(page, object)
				if err != nil {
					return nil, fmt.Errorf("page %d text: %w", page, err)
				}
				pageText, fetched = norm.NFKC.String(s), true
			}
			if strings.Contains(pageText, needle) {
				t.Kind = Overlay
				t.Overlaid = OverlaidPlaceholder
			}
		}

		texts = append(texts, t)
	}
	return texts, nil
}
