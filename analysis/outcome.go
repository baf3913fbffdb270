package analysis

import "fmt"

// SkipReason says why a candidate produced no modification
type SkipReason string

const (
	SkipNotFound SkipReason = "not_found" // object could not be loaded
	SkipDecode   SkipReason = "decode"    // stream filters failed
	SkipPageText SkipReason = "page_text" // overlay lookup failed
)

// Skip records a candidate that was left out of the report
type Skip struct {
	Object int        `json:"object"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

func (s Skip) String() string {
	return fmt.Sprintf("object %d skipped (%s): %s", s.Object, s.Reason, s.Detail)
}

// Outcome is the result of analyzing one candidate: exactly one of Mod
// and Skip is set
type Outcome struct {
	Mod  *ObjectModification
	Skip *Skip
}

func ok(m ObjectModification) Outcome {
	return Outcome{Mod: &m}
}

func skip(object int, reason SkipReason, err error) Outcome {
	s := Skip{Object: object, Reason: reason}
	if err != nil {
		s.Detail = err.Error()
	}
	return Outcome{Skip: &s}
}
