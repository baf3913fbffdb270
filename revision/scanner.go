package revision

import (
	"bytes"
	"strconv"
)

var (
	eofMarker   = []byte("%%EOF")
	xrefKw      = []byte("xref")
	trailerKw   = []byte("trailer")
	startxrefKw = []byte("startxref")
)

// Revision is the byte range written by one save
type Revision struct {
	Index          int     `json:"index"`
	Start          int64   `json:"start"`
	End            int64   `json:"end"`    // one past the marker
	Marker         int64   `json:"marker"` // offset of %%EOF
	XRefOffsets    []int64 `json:"xref_offsets,omitempty"`
	TrailerOffsets []int64 `json:"trailer_offsets,omitempty"`
	StartXRef      int64   `json:"startxref"` // value after startxref, -1 if absent
}

// Contains reports whether offset lies inside the revision
func (r Revision) Contains(offset int64) bool {
	return offset >= r.Start && offset < r.End
}

// Layout is the result of scanning a buffer
type Layout struct {
	Revisions []Revision
	Size      int64
}

// Incremental reports whether the file was saved more than once
func (l *Layout) Incremental() bool {
	return len(l.Revisions) >= 2
}

// Current returns the last revision. ok is false when no marker was found.
func (l *Layout) Current() (Revision, bool) {
	if len(l.Revisions) == 0 {
		return Revision{}, false
	}
	return l.Revisions[len(l.Revisions)-1], true
}

// Scan splits data at every %%EOF marker. Bytes after the last marker
// belong to no revision.
func Scan(data []byte) *Layout {
	layout := &Layout{Size: int64(len(data))}

	var start int64
	for _, marker := range findAll(data, eofMarker, 0) {
		end := marker + int64(len(eofMarker))
		layout.Revisions = append(layout.Revisions, Revision{
			Index:     len(layout.Revisions),
			Start:     start,
			End:       end,
			Marker:    marker,
			StartXRef: -1,
		})
		start = end
	}
	if len(layout.Revisions) == 0 {
		return layout
	}

	for _, off := range keywordOffsets(data, xrefKw) {
		if rev := layout.revisionAt(off); rev != nil {
			rev.XRefOffsets = append(rev.XRefOffsets, off)
		}
	}
	for _, off := range keywordOffsets(data, trailerKw) {
		if rev := layout.revisionAt(off); rev != nil {
			rev.TrailerOffsets = append(rev.TrailerOffsets, off)
		}
	}
	for _, off := range keywordOffsets(data, startxrefKw) {
		if rev := layout.revisionAt(off); rev != nil {
			if v, ok := readInt(data, off+int64(len(startxrefKw))); ok {
				rev.StartXRef = v
			}
		}
	}

	return layout
}

func (l *Layout) revisionAt(offset int64) *Revision {
	for i := range l.Revisions {
		if l.Revisions[i].Contains(offset) {
			return &l.Revisions[i]
		}
	}
	return nil
}

// SectionBytes returns the bytes of the cross-reference section starting
// at xrefOffset, up to the revision's next trailer keyword or its end
func (r Revision) SectionBytes(data []byte, xrefOffset int64) []byte {
	end := r.End
	for _, t := range r.TrailerOffsets {
		if t > xrefOffset {
			end = t
			break
		}
	}
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	if xrefOffset < 0 || xrefOffset >= end {
		return nil
	}
	return data[xrefOffset:end]
}

// findAll returns the offsets of every occurrence of sep at or after from
func findAll(data, sep []byte, from int) []int64 {
	var out []int64
	for from <= len(data) {
		i := bytes.Index(data[from:], sep)
		if i < 0 {
			break
		}
		out = append(out, int64(from+i))
		from += i + len(sep)
	}
	return out
}

// keywordOffsets finds kw where it stands as a whole token, so the "xref"
// at the end of "startxref" does not count
func keywordOffsets(data, kw []byte) []int64 {
	var out []int64
	for _, off := range findAll(data, kw, 0) {
		i := int(off)
		if i > 0 && isRegular(data[i-1]) {
			continue
		}
		if j := i + len(kw); j < len(data) && isRegular(data[j]) {
			continue
		}
		out = append(out, off)
	}
	return out
}

// readInt reads the decimal integer following whitespace at pos
func readInt(data []byte, pos int64) (int64, bool) {
	i := int(pos)
	for i < len(data) && isWhitespace(data[i]) {
		i++
	}
	j := i
	for j < len(data) && data[j] >= '0' && data[j] <= '9' {
		j++
	}
	if j == i {
		return 0, false
	}
	v, err := strconv.ParseInt(string(data[i:j]), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}
