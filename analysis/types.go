package analysis

import (
	"fmt"

	"github.com/tsawler/pdfrev/revision"
)

// Method records which signal selected a candidate object
type Method int

const (
	GenerationNonzero Method = iota // master table generation above zero
	LastRevisionTable               // listed in use by the last xref section
)

var methodNames = []string{"generation_nonzero", "last_revision_table"}

func (m Method) String() string {
	if int(m) < len(methodNames) && m >= 0 {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ObjectKind is the structural class of a modified object
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindStream
	KindDictionary
	KindAnnotation
)

var kindNames = []string{"unknown", "stream", "dictionary", "annotation"}

func (k ObjectKind) String() string {
	if int(k) < len(kindNames) && k >= 0 {
		return kindNames[k]
	}
	return fmt.Sprintf("ObjectKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k ObjectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TextKind classifies a piece of modified text
type TextKind int

const (
	Addition TextKind = iota
	Overlay
	Deletion
	Replacement
	Annotation
)

var textKindNames = []string{"addition", "overlay", "deletion", "replacement", "annotation"}

func (k TextKind) String() string {
	if int(k) < len(textKindNames) && k >= 0 {
		return textKindNames[k]
	}
	return fmt.Sprintf("TextKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k TextKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Severity ranks a pattern
type Severity int

const (
	Low Severity = iota
	Medium
	High
)

var severityNames = []string{"low", "medium", "high"}

func (s Severity) String() string {
	if int(s) < len(severityNames) && s >= 0 {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// OverlaidPlaceholder stands in for text hidden under an overlay. The
// original text at that position cannot be recovered.
const OverlaidPlaceholder = "[original text not recoverable]"

// CandidateObject is an object number selected for analysis
type CandidateObject struct {
	Number     int
	Generation int
	Method     Method
}

// TextModification is one string painted by a modified object
type TextModification struct {
	Text     string   `json:"text"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Font     string   `json:"font,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	Kind     TextKind `json:"kind"`
	Overlaid string   `json:"overlaid,omitempty"` // set for Overlay only
	Hex      bool     `json:"hex,omitempty"`
}

// ObjectModification is the finding for one candidate object
type ObjectModification struct {
	Object       int                `json:"object"`
	Generation   int                `json:"generation"`
	Method       Method             `json:"method"`
	Kind         ObjectKind         `json:"kind"`
	Page         int                `json:"page"` // 0 when no page references the object
	ContainsText bool               `json:"contains_text"`
	Texts        []TextModification `json:"texts"`
	FontChanges  int                `json:"font_changes"`
	FlowGaps     int                `json:"flow_gaps"`
	Confidence   float64            `json:"confidence"`
}

// HasOverlay reports whether any text was classified as an overlay
func (m *ObjectModification) HasOverlay() bool {
	for _, t := range m.Texts {
		if t.Kind == Overlay {
			return true
		}
	}
	return false
}

// ModificationPattern is a document-level observation
type ModificationPattern struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Report is the result of analyzing one document
type Report struct {
	HasModifications   bool                  `json:"has_modifications"`
	TotalModified      int                   `json:"total_modified"`
	Modifications      []ObjectModification  `json:"modifications"`
	Patterns           []ModificationPattern `json:"patterns"`
	Confidence         float64               `json:"confidence"`
	Revisions          []revision.Revision   `json:"revisions"`
	Skipped            []Skip                `json:"skipped,omitempty"`
	MalformedXRefLines int                   `json:"malformed_xref_lines,omitempty"`
	PageMapError       string                `json:"page_map_error,omitempty"`
}

// emptyReport is the report of a document without a later save
func emptyReport(revs []revision.Revision) *Report {
	if revs == nil {
		revs = []revision.Revision{}
	}
	return &Report{
		Modifications: []ObjectModification{},
		Patterns:      []ModificationPattern{},
		Revisions:     revs,
	}
}
