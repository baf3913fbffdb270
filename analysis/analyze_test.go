package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsawler/pdfrev/core"
	"github.com/tsawler/pdfrev/internal/pdftest"
)

// updatedDocument is a one-page document whose second save appends
// content stream 10
func updatedDocument() []byte {
	b := pdftest.SimpleDocument("BT /F1 12 Tf 72 720 Td (Original terms) Tj ET")
	b.Stream(10, 0, "", []byte("1 0 0 1 100 700 Tm (Nova clausula) Tj")).Save("/Root 1 0 R")
	return b.Bytes()
}

func TestAnalyzeSingleRevision(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"no marker", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")},
		{"one marker", pdftest.SimpleDocument("BT ET").Bytes()},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the generation signal alone must not produce findings
			doc := &fakeDoc{
				objects: map[int]core.Object{4: contentStream("BT ET")},
				gens:    map[int]int{4: 3},
			}
			report := Analyze(NewContext(tt.data, doc, &fakeOracle{}, nil))
			if report.HasModifications {
				t.Error("HasModifications = true")
			}
			if len(report.Modifications) != 0 || len(report.Patterns) != 0 {
				t.Errorf("report = %+v", report)
			}
			if report.Modifications == nil || report.Patterns == nil {
				t.Error("lists should be empty, not nil")
			}
			if report.Confidence != 0 || report.TotalModified != 0 {
				t.Errorf("Confidence = %v, TotalModified = %d", report.Confidence, report.TotalModified)
			}
		})
	}
}

func TestAnalyzeAddedContent(t *testing.T) {
	data := updatedDocument()
	doc := &fakeDoc{
		objects: map[int]core.Object{10: contentStream("1 0 0 1 100 700 Tm (Nova clausula) Tj")},
		pages:   []PageRefs{{Number: 1, Object: 3, Contents: []int{4, 10}}},
	}
	oracle := &fakeOracle{text: map[int]string{1: "Original terms"}}

	report := Analyze(NewContext(data, doc, oracle, nil))

	if !report.HasModifications || report.TotalModified != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Revisions) != 2 {
		t.Errorf("got %d revisions, want 2", len(report.Revisions))
	}
	mod := report.Modifications[0]
	if mod.Object != 10 || mod.Method != LastRevisionTable || mod.Page != 1 || !mod.ContainsText {
		t.Errorf("mod = %+v", mod)
	}
	if len(mod.Texts) != 1 || mod.Texts[0].Kind != Addition || mod.Texts[0].Text != "Nova clausula" {
		t.Errorf("texts = %+v", mod.Texts)
	}
	if len(report.Patterns) != 0 {
		t.Errorf("patterns = %+v", report.Patterns)
	}
	if !approx(report.Confidence, 0.5) {
		t.Errorf("Confidence = %v", report.Confidence)
	}
}

func TestAnalyzeGenerationAndSkips(t *testing.T) {
	b := pdftest.SimpleDocument("BT ET")
	b.Object(6, 0, "<< >>").Object(7, 0, "<< >>").Save("/Root 1 0 R")
	data := b.Bytes()

	doc := &fakeDoc{
		objects: map[int]core.Object{
			2: core.Dict{"Type": core.Name("Pages")},
			6: contentStream("BT ] ET"),
		},
		gens:  map[int]int{2: 3, 6: 0, 7: 0},
		pages: []PageRefs{{Number: 1, Object: 3, Contents: []int{4}}},
	}
	report := Analyze(NewContext(data, doc, &fakeOracle{}, nil))

	if report.TotalModified != 2 || report.Modifications[0].Object != 2 || report.Modifications[1].Object != 6 {
		t.Fatalf("modifications = %+v", report.Modifications)
	}
	if report.Modifications[0].Method != GenerationNonzero || !approx(report.Modifications[0].Confidence, 0.7) {
		t.Errorf("mod = %+v", report.Modifications[0])
	}
	// unreadable content is still a modification, just without text
	if damaged := report.Modifications[1]; damaged.Kind != KindStream || damaged.ContainsText {
		t.Errorf("mod = %+v", damaged)
	}

	want := []Skip{{Object: 7, Reason: SkipNotFound}}
	if len(report.Skipped) != len(want) {
		t.Fatalf("skipped = %+v", report.Skipped)
	}
	for i, w := range want {
		if report.Skipped[i].Object != w.Object || report.Skipped[i].Reason != w.Reason {
			t.Errorf("skipped[%d] = %+v, want %+v", i, report.Skipped[i], w)
		}
	}
}

func TestAnalyzePageMapError(t *testing.T) {
	doc := &fakeDoc{
		objects: map[int]core.Object{10: contentStream("BT (Invoice) Tj ET")},
		pageErr: errors.New("broken page tree"),
	}
	oracle := &fakeOracle{text: map[int]string{1: "Invoice"}}
	report := Analyze(NewContext(updatedDocument(), doc, oracle, nil))

	if report.PageMapError != "broken page tree" {
		t.Errorf("PageMapError = %q", report.PageMapError)
	}
	if report.TotalModified != 1 || report.Modifications[0].Page != 0 {
		t.Fatalf("modifications = %+v", report.Modifications)
	}
	if report.Modifications[0].Texts[0].Kind != Addition {
		t.Error("text on no page must be an addition")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	data := updatedDocument()
	run := func() []byte {
		doc := &fakeDoc{
			objects: map[int]core.Object{
				3:  core.Dict{"Type": core.Name("Page")},
				10: contentStream("BT /F1 12 Tf 72 700 Td (A) Tj /F2 12 Tf (B) Tj 0 -80 Td (C) Tj ET"),
			},
			gens:  map[int]int{3: 1, 10: 0},
			pages: []PageRefs{{Number: 1, Object: 3, Contents: []int{4, 10}}},
		}
		oracle := &fakeOracle{text: map[int]string{1: "A"}}
		out, err := json.Marshal(Analyze(NewContext(data, doc, oracle, nil)))
		if err != nil {
			t.Fatalf("json.Marshal() error: %v", err)
		}
		return out
	}

	first, second := run(), run()
	if !bytes.Equal(first, second) {
		t.Errorf("runs differ:\n%s\n%s", first, second)
	}
	for _, want := range []string{`"method":"generation_nonzero"`, `"kind":"overlay"`, `"severity":"high"`} {
		if !strings.Contains(string(first), want) {
			t.Errorf("JSON missing %s: %s", want, first)
		}
	}
}

func TestAnalyzeLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	doc := &fakeDoc{pages: nil}

	Analyze(NewContext(updatedDocument(), doc, &fakeOracle{}, logger))

	out := buf.String()
	for _, want := range []string{"analysis finished", "skipping object", "obj=10", "reason=not_found"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
