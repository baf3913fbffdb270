package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is a parsed PDF value. The implementations in this package are
// the only ones; type switches over them are exhaustive.
type Object interface {
	String() string
	pdfObject()
}

// Null is the null object
type Null struct{}

// Bool is a boolean
type Bool bool

// Int is an integer
type Int int64

// Real is a real number
type Real float64

// String holds the raw bytes of a literal or hex string. Text decoding
// is left to the caller.
type String string

// Name is a name without its leading slash
type Name string

// Array is an array of objects
type Array []Object

// Dict is a dictionary keyed by name without the slash
type Dict map[string]Object

// Stream is a dictionary followed by undecoded data
type Stream struct {
	Dict Dict
	Data []byte
}

// IndirectRef is "num gen R"
type IndirectRef struct {
	Number     int
	Generation int
}

// IndirectObject is a parsed "num gen obj ... endobj"
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
	Offset int64 // where the "num gen obj" header starts
}

func (Null) pdfObject()        {}
func (Bool) pdfObject()        {}
func (Int) pdfObject()         {}
func (Real) pdfObject()        {}
func (String) pdfObject()      {}
func (Name) pdfObject()        {}
func (Array) pdfObject()       {}
func (Dict) pdfObject()        {}
func (*Stream) pdfObject()     {}
func (IndirectRef) pdfObject() {}

func (Null) String() string   { return "null" }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (i Int) String() string  { return strconv.FormatInt(int64(i), 10) }
func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (s String) String() string {
	return string(s)
}
func (n Name) String() string { return "/" + string(n) }

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = obj.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// String writes keys in sorted order
func (d Dict) String() string {
	var sb strings.Builder
	sb.WriteString("<<")
	for i, key := range d.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "/%s %s", key, d[key])
	}
	sb.WriteString(">>")
	return sb.String()
}

func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict, len(s.Data))
}

func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// Number converts an Int or Real to float64
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// Get returns the element at index, or nil when out of range
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetNumber returns a numeric element as float64
func (a Array) GetNumber(index int) (float64, bool) {
	return Number(a.Get(index))
}

// Get returns the value for key, or nil
func (d Dict) Get(key string) Object {
	return d[key]
}

// Has reports whether key is present, even with a null value
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Keys returns the keys in sorted order
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// The typed getters report false when the key is missing or holds a
// different type. They never follow indirect references.

func (d Dict) GetName(key string) (Name, bool) {
	v, ok := d[key].(Name)
	return v, ok
}

func (d Dict) GetInt(key string) (Int, bool) {
	v, ok := d[key].(Int)
	return v, ok
}

func (d Dict) GetNumber(key string) (float64, bool) {
	return Number(d[key])
}

func (d Dict) GetString(key string) (String, bool) {
	v, ok := d[key].(String)
	return v, ok
}

func (d Dict) GetArray(key string) (Array, bool) {
	v, ok := d[key].(Array)
	return v, ok
}

func (d Dict) GetDict(key string) (Dict, bool) {
	v, ok := d[key].(Dict)
	return v, ok
}

func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	v, ok := d[key].(IndirectRef)
	return v, ok
}
