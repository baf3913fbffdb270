package core

import (
	"fmt"
)

// ObjectStream represents a PDF Object Stream (Type /ObjStm), introduced in
// PDF 1.5. Compressed cross-reference entries point into one of these.
type ObjectStream struct {
	n       int
	first   int
	decoded []byte
	offsets []objectStreamOffset
}

// objectStreamOffset pairs an object number with its offset relative to /First
type objectStreamOffset struct {
	ObjNum int
	Offset int
}

// NewObjectStream decodes an object stream and parses its header.
// The stream must have /Type /ObjStm with /N and /First.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type: %q", t)
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N: %v", stream.Dict.Get("N"))
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First: %v", stream.Dict.Get("First"))
	}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode object stream: %w", err)
	}
	if int(first) > len(decoded) {
		return nil, fmt.Errorf("/First offset (%d) exceeds decoded data length (%d)", first, len(decoded))
	}

	os := &ObjectStream{n: int(n), first: int(first), decoded: decoded}
	if err := os.parseHeader(); err != nil {
		return nil, fmt.Errorf("failed to parse object stream header: %w", err)
	}
	return os, nil
}

// N returns the number of objects stored in the stream
func (os *ObjectStream) N() int {
	return os.n
}

// parseHeader reads the N "objNum offset" pairs that precede /First
func (os *ObjectStream) parseHeader() error {
	parser := NewParser(os.decoded[:os.first])
	os.offsets = make([]objectStreamOffset, 0, os.n)

	for i := 0; i < os.n; i++ {
		num, err := parser.expectInt("object number")
		if err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		off, err := parser.expectInt("offset")
		if err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		os.offsets = append(os.offsets, objectStreamOffset{ObjNum: num, Offset: off})
	}
	return nil
}

// GetObjectByIndex extracts the object at a header index, returning the
// object and its object number
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if index < 0 || index >= len(os.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}

	start := os.first + os.offsets[index].Offset
	end := len(os.decoded)
	if index+1 < len(os.offsets) {
		end = os.first + os.offsets[index+1].Offset
	}
	if start >= len(os.decoded) || end > len(os.decoded) || start > end {
		return nil, 0, fmt.Errorf("object at index %d has invalid range [%d, %d)", index, start, end)
	}

	obj, err := NewParser(os.decoded[start:end]).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}
	return obj, os.offsets[index].ObjNum, nil
}

// GetObjectByNumber finds an object by number. The index hint from the
// cross-reference entry is tried first.
func (os *ObjectStream) GetObjectByNumber(objNum, hint int) (Object, error) {
	if hint >= 0 && hint < len(os.offsets) && os.offsets[hint].ObjNum == objNum {
		obj, _, err := os.GetObjectByIndex(hint)
		return obj, err
	}
	for i, entry := range os.offsets {
		if entry.ObjNum == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers returns the object numbers stored in this stream
func (os *ObjectStream) ObjectNumbers() []int {
	nums := make([]int, len(os.offsets))
	for i, entry := range os.offsets {
		nums[i] = entry.ObjNum
	}
	return nums
}
