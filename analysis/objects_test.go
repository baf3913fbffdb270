package analysis

import (
	"errors"
	"testing"

	"github.com/tsawler/pdfrev/core"
)

func TestClassify(t *testing.T) {
	rect := core.Array{core.Int(0), core.Int(0), core.Int(10), core.Int(10)}
	tests := []struct {
		name string
		obj  core.Object
		want ObjectKind
	}{
		{"stream", contentStream("BT ET"), KindStream},
		{"plain dictionary", core.Dict{"Type": core.Name("Page")}, KindDictionary},
		{"annotation by type", core.Dict{"Type": core.Name("Annot")}, KindAnnotation},
		{"annotation by subtype", core.Dict{"Subtype": core.Name("FreeText"), "Rect": rect}, KindAnnotation},
		{"subtype without rect", core.Dict{"Subtype": core.Name("Link")}, KindDictionary},
		{"font is not an annotation", core.Dict{"Subtype": core.Name("Type1"), "Rect": rect}, KindDictionary},
		{"integer", core.Int(3), KindUnknown},
		{"array", core.Array{}, KindUnknown},
		{"null", core.Null{}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.obj); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaintsText(t *testing.T) {
	tests := []struct {
		name string
		dict core.Dict
		want bool
	}{
		{"page content", core.Dict{}, true},
		{"form xobject", core.Dict{"Type": core.Name("XObject"), "Subtype": core.Name("Form")}, true},
		{"image", core.Dict{"Type": core.Name("XObject"), "Subtype": core.Name("Image")}, false},
		{"object stream", core.Dict{"Type": core.Name("ObjStm")}, false},
		{"xref stream", core.Dict{"Type": core.Name("XRef")}, false},
		{"metadata", core.Dict{"Type": core.Name("Metadata"), "Subtype": core.Name("XML")}, false},
		{"font file", core.Dict{"Length1": core.Int(100)}, false},
		{"compact font file", core.Dict{"Subtype": core.Name("Type1C")}, false},
		{"opentype font file", core.Dict{"Subtype": core.Name("OpenType")}, false},
		{"icc profile", core.Dict{"N": core.Int(3), "Alternate": core.Name("DeviceRGB")}, false},
		{"cmap", core.Dict{"Type": core.Name("CMap"), "CMapName": core.Name("Custom")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paintsText(&core.Stream{Dict: tt.dict}); got != tt.want {
				t.Errorf("paintsText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnnotationText(t *testing.T) {
	dict := core.Dict{
		"Type":     core.Name("Annot"),
		"Contents": core.String("Approved"),
		"Rect":     core.Array{core.Int(100), core.Real(200.5), core.Int(50), core.Int(20)},
	}
	got, ok := annotationText(dict)
	if !ok {
		t.Fatal("expected annotation text")
	}
	if got.Text != "Approved" || got.Kind != Annotation || got.X != 50 || got.Y != 20 {
		t.Errorf("annotationText() = %+v", got)
	}

	if _, ok := annotationText(core.Dict{"Contents": core.String("  ")}); ok {
		t.Error("blank contents should produce no text")
	}
	if _, ok := annotationText(core.Dict{}); ok {
		t.Error("missing contents should produce no text")
	}
}

// TestNovaClausula is the single-event case: a text matrix followed by
// one string
func TestNovaClausula(t *testing.T) {
	doc := &fakeDoc{
		objects: map[int]core.Object{10: contentStream("1 0 0 1 100 700 Tm (Nova clausula) Tj")},
		pages:   []PageRefs{{Number: 1, Object: 3, Contents: []int{4, 10}}},
	}
	oracle := &fakeOracle{text: map[int]string{1: "Original terms"}}
	ctx := NewContext(nil, doc, oracle, nil)

	out := analyzeObject(ctx, CandidateObject{Number: 10, Method: LastRevisionTable}, doc.pages)
	if out.Skip != nil {
		t.Fatalf("unexpected skip: %v", out.Skip)
	}
	mod := out.Mod
	if mod.Kind != KindStream || mod.Page != 1 || !mod.ContainsText {
		t.Errorf("mod = %+v", mod)
	}
	if len(mod.Texts) != 1 {
		t.Fatalf("got %d texts, want 1", len(mod.Texts))
	}
	text := mod.Texts[0]
	if text.Text != "Nova clausula" || text.X != 100 || text.Y != 700 || text.Kind != Addition {
		t.Errorf("text = %+v", text)
	}
	if !approx(mod.Confidence, 0.5) {
		t.Errorf("Confidence = %v, want 0.5", mod.Confidence)
	}
	if len(oracle.calls) != 1 || oracle.calls[0] != (oracleCall{page: 1, exclude: 10}) {
		t.Errorf("oracle calls = %v", oracle.calls)
	}
}

func TestAnalyzeObjectOutcomes(t *testing.T) {
	pages := []PageRefs{{Number: 1, Object: 3, Contents: []int{4, 10}, Annots: []int{12}}}
	objects := map[int]core.Object{
		3:  core.Dict{"Type": core.Name("Page")},
		4:  contentStream("BT /F1 12 Tf 72 700 Td (Total: 100) Tj ET"),
		5:  &core.Stream{Dict: core.Dict{"Filter": core.Name("JBIG2Decode")}, Data: []byte{1, 2}},
		6:  contentStream("BT ] ET"),
		7:  core.Int(42),
		8:  &core.Stream{Dict: core.Dict{"Subtype": core.Name("Type1C")}, Data: []byte{0x01, 0x00, 0x04, 0x02, ')', 0x8b}},
		9:  &core.Stream{Dict: core.Dict{"N": core.Int(3)}, Data: []byte("\x00\x00\x0cHLino\x02\x10 (mntrRGB")},
		11: &core.Stream{Dict: core.Dict{}, Data: []byte{0x01, 0x00, 0x04, 0x02, ')', 0x8b}},
		13: contentStream("BT /F1 12 Tf 72 700 Td (Kept) Tj ET ]"),
		10: contentStream("BT /F1 12 Tf 72 700 Td (Total: 900) Tj /F2 12 Tf (USD) Tj 0 -60 Td (Signed) Tj ET"),
		12: core.Dict{"Type": core.Name("Annot"), "Subtype": core.Name("Text"), "Contents": core.String("Looks good"),
			"Rect": core.Array{core.Int(10), core.Int(20), core.Int(30), core.Int(40)}},
	}

	tests := []struct {
		name       string
		object     int
		gen        int
		oracleErr  error
		skip       SkipReason
		kind       ObjectKind
		page       int
		texts      int
		fontChange int
		flowGaps   int
		confidence float64
	}{
		{name: "missing", object: 99, skip: SkipNotFound},
		{name: "undecodable", object: 5, skip: SkipDecode},
		{name: "unbalanced content", object: 6, kind: KindStream, confidence: 0.5},
		{name: "compact font program", object: 8, kind: KindStream, confidence: 0.5},
		{name: "color profile", object: 9, kind: KindStream, confidence: 0.5},
		{name: "unlabelled binary stream", object: 11, kind: KindStream, confidence: 0.5},
		{name: "text before damage", object: 13, kind: KindStream, texts: 1, confidence: 0.5},
		{name: "oracle failure", object: 4, oracleErr: errOracle, skip: SkipPageText},
		{name: "page dictionary", object: 3, gen: 1, kind: KindDictionary, page: 1, confidence: 0.7},
		{name: "unknown", object: 7, kind: KindUnknown, confidence: 0.5},
		{name: "annotation", object: 12, kind: KindAnnotation, page: 1, texts: 1, confidence: 0.5},
		// the two strings on y=700 switch font; the third line is 60 below
		{name: "content with signals", object: 10, kind: KindStream, page: 1, texts: 3, fontChange: 1, flowGaps: 1, confidence: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &fakeDoc{objects: objects, pages: pages}
			oracle := &fakeOracle{text: map[int]string{1: "Invoice"}, err: tt.oracleErr}
			ctx := NewContext(nil, doc, oracle, nil)

			out := analyzeObject(ctx, CandidateObject{Number: tt.object, Generation: tt.gen}, pages)
			if tt.skip != "" {
				if out.Skip == nil || out.Mod != nil {
					t.Fatalf("expected skip %q, got %+v", tt.skip, out)
				}
				if out.Skip.Reason != tt.skip || out.Skip.Object != tt.object {
					t.Errorf("skip = %+v, want reason %q", out.Skip, tt.skip)
				}
				if out.Skip.Detail == "" {
					t.Error("skip detail is empty")
				}
				return
			}

			if out.Mod == nil || out.Skip != nil {
				t.Fatalf("expected modification, got %+v", out)
			}
			mod := out.Mod
			if mod.Kind != tt.kind || mod.Page != tt.page || len(mod.Texts) != tt.texts {
				t.Errorf("mod = %+v", mod)
			}
			if mod.ContainsText != (tt.texts > 0) {
				t.Errorf("ContainsText = %v", mod.ContainsText)
			}
			if mod.FontChanges != tt.fontChange || mod.FlowGaps != tt.flowGaps {
				t.Errorf("FontChanges = %d, FlowGaps = %d", mod.FontChanges, mod.FlowGaps)
			}
			if !approx(mod.Confidence, tt.confidence) {
				t.Errorf("Confidence = %v, want %v", mod.Confidence, tt.confidence)
			}
			if mod.Texts == nil {
				t.Error("Texts should be empty, not nil")
			}
		})
	}
}

func TestAnalyzeObjectOverlayConfidence(t *testing.T) {
	doc := &fakeDoc{
		objects: map[int]core.Object{10: contentStream("BT /F1 12 Tf 72 700 Td (Invoice) Tj ET")},
		pages:   []PageRefs{{Number: 1, Object: 3, Contents: []int{4, 10}}},
	}
	oracle := &fakeOracle{text: map[int]string{1: "Invoice No. 7"}}
	out := analyzeObject(NewContext(nil, doc, oracle, nil), CandidateObject{Number: 10, Generation: 1}, doc.pages)
	if out.Mod == nil {
		t.Fatalf("unexpected skip: %v", out.Skip)
	}
	if !out.Mod.HasOverlay() || out.Mod.Texts[0].Overlaid != OverlaidPlaceholder {
		t.Errorf("texts = %+v", out.Mod.Texts)
	}
	if !approx(out.Mod.Confidence, 1.0) {
		t.Errorf("Confidence = %v, want 1.0", out.Mod.Confidence)
	}
}

func TestSkipString(t *testing.T) {
	s := skip(4, SkipDecode, errors.New("bad data")).Skip
	if got := s.String(); got != "object 4 skipped (decode): bad data" {
		t.Errorf("String() = %q", got)
	}
	if s := skip(4, SkipNotFound, nil).Skip; s.Detail != "" {
		t.Errorf("Detail = %q", s.Detail)
	}
}
