package core

import (
	"testing"
)

func newTestObjectStream(t *testing.T) *ObjectStream {
	t.Helper()
	header := "10 0 11 11 "
	body := "<< /A 1 >> [1 2 3]"
	stream := &Stream{
		Dict: Dict{
			"Type":  Name("ObjStm"),
			"N":     Int(2),
			"First": Int(len(header)),
		},
		Data: []byte(header + body),
	}
	os, err := NewObjectStream(stream)
	if err != nil {
		t.Fatalf("NewObjectStream: %v", err)
	}
	return os
}

// TestObjectStreamLookup tests index and number lookup
func TestObjectStreamLookup(t *testing.T) {
	os := newTestObjectStream(t)

	if os.N() != 2 {
		t.Errorf("N = %d, want 2", os.N())
	}
	if nums := os.ObjectNumbers(); len(nums) != 2 || nums[0] != 10 || nums[1] != 11 {
		t.Errorf("ObjectNumbers = %v", nums)
	}

	obj, num, err := os.GetObjectByIndex(0)
	if err != nil {
		t.Fatalf("GetObjectByIndex: %v", err)
	}
	if num != 10 {
		t.Errorf("num = %d, want 10", num)
	}
	if _, ok := obj.(Dict); !ok {
		t.Errorf("expected Dict, got %T", obj)
	}

	// Wrong hint falls back to a scan
	obj, err = os.GetObjectByNumber(11, 0)
	if err != nil {
		t.Fatalf("GetObjectByNumber: %v", err)
	}
	if arr, ok := obj.(Array); !ok || len(arr) != 3 {
		t.Errorf("expected 3-element Array, got %v", obj)
	}

	if _, err := os.GetObjectByNumber(99, 0); err == nil {
		t.Error("expected error for missing object")
	}
	if _, _, err := os.GetObjectByIndex(5); err == nil {
		t.Error("expected error for out of range index")
	}
}

// TestNewObjectStreamInvalid tests dictionary validation
func TestNewObjectStreamInvalid(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
	}{
		{"missing Type", Dict{"N": Int(1), "First": Int(0)}},
		{"wrong Type", Dict{"Type": Name("XRef"), "N": Int(1), "First": Int(0)}},
		{"missing N", Dict{"Type": Name("ObjStm"), "First": Int(0)}},
		{"negative First", Dict{"Type": Name("ObjStm"), "N": Int(1), "First": Int(-1)}},
		{"First past data", Dict{"Type": Name("ObjStm"), "N": Int(1), "First": Int(100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewObjectStream(&Stream{Dict: tt.dict, Data: []byte("1 0 ")}); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := NewObjectStream(nil); err == nil {
		t.Error("expected error for nil stream")
	}
}
