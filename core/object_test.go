package core

import (
	"testing"
)

// TestObjectStrings tests the String form of each object type
func TestObjectStrings(t *testing.T) {
	tests := []struct {
		obj  Object
		want string
	}{
		{Null{}, "null"},
		{Bool(true), "true"},
		{Int(-4), "-4"},
		{Real(1.5), "1.5"},
		{Name("Font"), "/Font"},
		{Array{Int(1), Name("A")}, "[1 /A]"},
		{Dict{"B": Int(2), "A": Int(1)}, "<</A 1 /B 2>>"},
		{IndirectRef{Number: 12, Generation: 3}, "12 3 R"},
	}

	for _, tt := range tests {
		if got := tt.obj.String(); got != tt.want {
			t.Errorf("%T.String() = %q, want %q", tt.obj, got, tt.want)
		}
	}
}

// TestDictAccessors tests typed dictionary getters
func TestDictAccessors(t *testing.T) {
	d := Dict{
		"Type":   Name("Page"),
		"Count":  Int(3),
		"Kids":   Array{IndirectRef{Number: 4}},
		"Res":    Dict{},
		"Title":  String("x"),
		"Parent": IndirectRef{Number: 2},
	}

	if n, ok := d.GetName("Type"); !ok || n != "Page" {
		t.Errorf("GetName = %q, %v", n, ok)
	}
	if n, ok := d.GetInt("Count"); !ok || n != 3 {
		t.Errorf("GetInt = %d, %v", n, ok)
	}
	if _, ok := d.GetInt("Type"); ok {
		t.Error("GetInt on a name should fail")
	}
	if a, ok := d.GetArray("Kids"); !ok || len(a) != 1 {
		t.Errorf("GetArray = %v, %v", a, ok)
	}
	if _, ok := d.GetDict("Res"); !ok {
		t.Error("GetDict failed")
	}
	if s, ok := d.GetString("Title"); !ok || s != "x" {
		t.Errorf("GetString = %q, %v", s, ok)
	}
	if r, ok := d.GetIndirectRef("Parent"); !ok || r.Number != 2 {
		t.Errorf("GetIndirectRef = %v, %v", r, ok)
	}
	if d.Has("Missing") {
		t.Error("Has reported a missing key")
	}
}

// TestNumber tests numeric conversion
func TestNumber(t *testing.T) {
	if v, ok := Number(Int(7)); !ok || v != 7 {
		t.Errorf("Number(Int) = %v, %v", v, ok)
	}
	if v, ok := Number(Real(2.5)); !ok || v != 2.5 {
		t.Errorf("Number(Real) = %v, %v", v, ok)
	}
	if _, ok := Number(Name("x")); ok {
		t.Error("Number(Name) should fail")
	}
	if v, ok := (Array{Int(1), Real(0.5)}).GetNumber(1); !ok || v != 0.5 {
		t.Errorf("GetNumber = %v, %v", v, ok)
	}
	if _, ok := (Array{}).GetNumber(3); ok {
		t.Error("GetNumber out of range should fail")
	}
}

func TestDictGetNumber(t *testing.T) {
	d := Dict{"W": Real(0.5), "N": Int(2), "S": Name("x")}
	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"W", 0.5, true},
		{"N", 2, true},
		{"S", 0, false},
		{"Missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := d.GetNumber(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GetNumber(%q) = %v, %v", tt.key, got, ok)
		}
	}
}
