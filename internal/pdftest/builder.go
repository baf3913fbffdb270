// Package pdftest assembles small PDF files for tests. Offsets in the
// generated cross-reference sections are exact, and every Save appends an
// incremental update the way a real editor would.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Builder accumulates objects and revisions into one byte buffer
type Builder struct {
	buf      bytes.Buffer
	offsets  map[int]int64
	gens     map[int]int
	pending  []int
	lastXRef int64
	saves    int
	maxObj   int
}

// New starts a document with a PDF 1.7 header
func New() *Builder {
	b := &Builder{
		offsets:  make(map[int]int64),
		gens:     make(map[int]int),
		lastXRef: -1,
	}
	b.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	return b
}

// Object writes "num gen obj body endobj"
func (b *Builder) Object(num, gen int, body string) *Builder {
	b.record(num, gen)
	fmt.Fprintf(&b.buf, "%d %d obj\n%s\nendobj\n", num, gen, body)
	return b
}

// Stream writes a stream object. dict holds the entries without the
// surrounding << >> and without /Length, which is computed.
func (b *Builder) Stream(num, gen int, dict string, data []byte) *Builder {
	b.record(num, gen)
	fmt.Fprintf(&b.buf, "%d %d obj\n<< %s /Length %d >>\nstream\n", num, gen, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
	return b
}

// Raw appends bytes verbatim
func (b *Builder) Raw(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

func (b *Builder) record(num, gen int) {
	b.offsets[num] = int64(b.buf.Len())
	b.gens[num] = gen
	b.pending = append(b.pending, num)
	if num > b.maxObj {
		b.maxObj = num
	}
}

// Save closes the current revision: an xref section listing the objects
// written since the previous Save, a trailer with /Size and /Prev plus the
// given extra entries, startxref and %%EOF.
func (b *Builder) Save(trailerEntries string) *Builder {
	xrefOffset := int64(b.buf.Len())
	b.buf.WriteString("xref\n")

	nums := append([]int(nil), b.pending...)
	sort.Ints(nums)
	nums = dedupe(nums)

	if b.saves == 0 {
		b.buf.WriteString("0 1\n0000000000 65535 f \n")
	}
	for i := 0; i < len(nums); {
		j := i
		for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
			j++
		}
		fmt.Fprintf(&b.buf, "%d %d\n", nums[i], j-i+1)
		for k := i; k <= j; k++ {
			fmt.Fprintf(&b.buf, "%010d %05d n \n", b.offsets[nums[k]], b.gens[nums[k]])
		}
		i = j + 1
	}

	entries := []string{fmt.Sprintf("/Size %d", b.maxObj+1)}
	if b.lastXRef >= 0 {
		entries = append(entries, fmt.Sprintf("/Prev %d", b.lastXRef))
	}
	if trailerEntries != "" {
		entries = append(entries, trailerEntries)
	}
	fmt.Fprintf(&b.buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", strings.Join(entries, " "), xrefOffset)

	b.lastXRef = xrefOffset
	b.pending = nil
	b.saves++
	return b
}

// Offset returns where the latest definition of num starts
func (b *Builder) Offset(num int) int64 {
	return b.offsets[num]
}

// Bytes returns the document
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, n := range sorted {
		if i == 0 || n != sorted[i-1] {
			out = append(out, n)
		}
	}
	return out
}

// SimpleDocument returns a builder holding a one-page document saved once:
// catalog 1, pages 2, page 3, content 4 (drawing text), font 5.
func SimpleDocument(content string) *Builder {
	return New().
		Object(1, 0, "<< /Type /Catalog /Pages 2 0 R >>").
		Object(2, 0, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>").
		Object(3, 0, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>").
		Stream(4, 0, "", []byte(content)).
		Object(5, 0, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>").
		Save("/Root 1 0 R")
}
