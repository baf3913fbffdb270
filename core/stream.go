package core

import (
	"fmt"

	"github.com/tsawler/pdfrev/internal/filters"
)

// Decode decodes the stream data according to the /Filter entry, which may
// be a single name or an array applied in order. /DecodeParms may be a
// single dictionary or an array parallel to the filters.
func (s *Stream) Decode() ([]byte, error) {
	names, err := s.Filters()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return s.Data, nil
	}

	var params []filters.Params
	switch v := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		params = []filters.Params{dictToParams(v)}
	case Array:
		params = make([]filters.Params, len(v))
		for i, elem := range v {
			if d, ok := elem.(Dict); ok {
				params[i] = dictToParams(d)
			}
		}
	}

	out, err := filters.Chain(s.Data, names, params)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return out, nil
}

// Filters returns the filter names in application order
func (s *Stream) Filters() ([]string, error) {
	switch v := s.Dict.Get("Filter").(type) {
	case nil, Null:
		return nil, nil
	case Name:
		return []string{string(v)}, nil
	case Array:
		names := make([]string, 0, len(v))
		for i, elem := range v {
			name, ok := elem.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, elem)
			}
			names = append(names, string(name))
		}
		return names, nil
	default:
		return nil, fmt.Errorf("invalid /Filter type: %T", v)
	}
}

// dictToParams converts a core.Dict to filters.Params, translating PDF
// object types to Go primitives
func dictToParams(dict Dict) filters.Params {
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
