package core

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
)

// zlibCompress compresses data for testing
func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// TestStreamDecodeNoFilter tests stream with no filter
func TestStreamDecodeNoFilter(t *testing.T) {
	data := []byte("Raw stream data")
	decoded, err := (&Stream{Dict: Dict{}, Data: data}).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("decoded data should equal original when no filter")
	}
}

// TestStreamDecodeFlate tests a single FlateDecode filter
func TestStreamDecodeFlate(t *testing.T) {
	original := []byte("BT /F1 12 Tf (Hello) Tj ET")
	stream := &Stream{
		Dict: Dict{"Filter": Name("FlateDecode")},
		Data: zlibCompress(original),
	}

	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}
}

// TestStreamDecodeChain tests a filter array with parallel DecodeParms
func TestStreamDecodeChain(t *testing.T) {
	original := []byte{1, 2, 3, 4, 5, 6}
	// Two PNG rows of 3 columns, both with filter type 0
	rows := []byte{0, 1, 2, 3, 0, 4, 5, 6}
	compressed := zlibCompress(rows)

	var hex bytes.Buffer
	for _, b := range compressed {
		hex.WriteString(string("0123456789abcdef"[b>>4]) + string("0123456789abcdef"[b&0xF]))
	}
	hex.WriteByte('>')

	stream := &Stream{
		Dict: Dict{
			"Filter":      Array{Name("ASCIIHexDecode"), Name("FlateDecode")},
			"DecodeParms": Array{Null{}, Dict{"Predictor": Int(12), "Columns": Int(3)}},
		},
		Data: hex.Bytes(),
	}

	decoded, err := stream.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %v, want %v", decoded, original)
	}
}

// TestStreamDecodeErrors tests invalid filter entries
func TestStreamDecodeErrors(t *testing.T) {
	tests := []Dict{
		{"Filter": Int(3)},
		{"Filter": Array{Int(1)}},
		{"Filter": Name("JBIG2Decode")},
	}
	for _, dict := range tests {
		if _, err := (&Stream{Dict: dict, Data: []byte("x")}).Decode(); err == nil {
			t.Errorf("expected error for %v", dict)
		}
	}
}
