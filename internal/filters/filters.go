package filters

import (
	"errors"
	"fmt"
)

// Params represents decode parameters from a stream's /DecodeParms entry,
// already converted to Go primitives (int, float64, bool, string).
type Params map[string]interface{}

// ErrUnsupportedFilter is returned for filters this package cannot decode.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// Decode applies a single named filter. Both the full name and the inline
// image abbreviation are accepted.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return FlateDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return ASCII85Decode(data)
	case "CCITTFaxDecode", "CCF":
		return CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode":
		// Image codecs: the encoded bytes are what an OCR engine wants.
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
	}
}

// Chain applies filters in order. params may be shorter than names; missing
// entries mean no parameters.
func Chain(data []byte, names []string, params []Params) ([]byte, error) {
	out := data
	for i, name := range names {
		var p Params
		if i < len(params) {
			p = params[i]
		}
		var err error
		out, err = Decode(name, out, p)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	return out, nil
}

// getIntParam extracts an integer parameter, returning def when the key is
// missing or not numeric.
func getIntParam(params Params, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// getBoolParam extracts a boolean parameter, returning def when the key is
// missing or not a bool.
func getBoolParam(params Params, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
