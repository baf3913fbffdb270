package analysis

import (
	"strings"

	"github.com/tsawler/pdfrev/contentstream"
	"github.com/tsawler/pdfrev/core"
)

// annotSubtypes are the /Subtype values that mark a dictionary as an
// annotation when /Type is absent
var annotSubtypes = map[core.Name]bool{
	"Text": true, "Link": true, "FreeText": true, "Line": true, "Square": true,
	"Circle": true, "Polygon": true, "PolyLine": true, "Highlight": true,
	"Underline": true, "Squiggly": true, "StrikeOut": true, "Stamp": true,
	"Caret": true, "Ink": true, "Popup": true, "FileAttachment": true,
	"Sound": true, "Movie": true, "Widget": true, "Screen": true,
	"PrinterMark": true, "TrapNet": true, "Watermark": true, "Redact": true,
}

// classify is the one place an object's structural kind is decided
func classify(obj core.Object) ObjectKind {
	switch v := obj.(type) {
	case *core.Stream:
		return KindStream
	case core.Dict:
		if t, _ := v.GetName("Type"); t == "Annot" {
			return KindAnnotation
		}
		if st, ok := v.GetName("Subtype"); ok && annotSubtypes[st] && v.Has("Rect") {
			return KindAnnotation
		}
		return KindDictionary
	default:
		return KindUnknown
	}
}

// binarySubtypes are stream /Subtype values that never hold operators
var binarySubtypes = map[core.Name]bool{
	"Image": true, "XML": true, "Type1C": true, "CIDFontType0C": true,
	"OpenType": true,
}

// paintsText reports whether a stream holds page-description operators.
// Images, fonts, color profiles, CMaps, metadata and structural streams
// are not tokenized.
func paintsText(s *core.Stream) bool {
	switch t, _ := s.Dict.GetName("Type"); t {
	case "XRef", "ObjStm", "Metadata", "EmbeddedFile", "CMap":
		return false
	}
	if st, _ := s.Dict.GetName("Subtype"); binarySubtypes[st] {
		return false
	}
	// Length1-3 mark embedded font programs; N marks an ICC profile
	for _, k := range []string{"Length1", "Length2", "Length3", "N"} {
		if s.Dict.Has(k) {
			return false
		}
	}
	return true
}

// analyzeObject builds the modification for one candidate, or the reason
// it has none. Nothing is recorded for a candidate until every step has
// succeeded.
func analyzeObject(ctx *Context, cand CandidateObject, pages []PageRefs) Outcome {
	obj, err := ctx.doc.Object(cand.Number)
	if err != nil {
		return skip(cand.Number, SkipNotFound, err)
	}

	mod := ObjectModification{
		Object:     cand.Number,
		Generation: cand.Generation,
		Method:     cand.Method,
		Kind:       classify(obj),
		Page:       LocatePage(pages, cand.Number),
		Texts:      []TextModification{},
	}

	var events []contentstream.Event
	switch mod.Kind {
	case KindStream:
		stream := obj.(*core.Stream)
		if !paintsText(stream) {
			break
		}
		data, err := stream.Decode()
		if err != nil {
			return skip(cand.Number, SkipDecode, err)
		}
		events, err = contentstream.Paint(data)
		if err != nil {
			// Not page content after all, or damaged content. The object
			// still counts, with whatever text preceded the error.
			ctx.Logger().Debug("content stream unreadable", "obj", cand.Number, "error", err, "events", len(events))
		}
		texts, err := classifyEvents(ctx.oracle, mod.Page, cand.Number, events)
		if err != nil {
			return skip(cand.Number, SkipPageText, err)
		}
		mod.Texts = texts

	case KindAnnotation:
		if t, ok := annotationText(obj.(core.Dict)); ok {
			mod.Texts = append(mod.Texts, t)
		}

	case KindDictionary, KindUnknown:
	}

	mod.ContainsText = len(mod.Texts) > 0
	mod.FontChanges = countFontChanges(events)
	mod.FlowGaps = countFlowGaps(events)
	mod.Confidence = Score(mod.Generation, mod.HasOverlay(), mod.FontChanges, mod.FlowGaps > 0)
	return ok(mod)
}

// annotationText turns an annotation's /Contents into a text modification
// placed at the lower-left corner of /Rect
func annotationText(dict core.Dict) (TextModification, bool) {
	s, ok := dict.GetString("Contents")
	if !ok || strings.TrimSpace(string(s)) == "" {
		return TextModification{}, false
	}

	t := TextModification{
		Text: contentstream.DecodeText([]byte(s)),
		Kind: Annotation,
	}
	if rect, ok := dict.GetArray("Rect"); ok && len(rect) == 4 {
		x1, _ := rect.GetNumber(0)
		y1, _ := rect.GetNumber(1)
		x2, _ := rect.GetNumber(2)
		y2, _ := rect.GetNumber(3)
		t.X, t.Y = min(x1, x2), min(y1, y2)
	}
	return t, true
}
