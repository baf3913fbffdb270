// Package filters decodes PDF stream payloads.
//
// Content streams and annotation appearance streams are almost always
// compressed. The analysis only needs their decoded bytes, so this package
// covers the filters that carry operator streams plus the image filters that
// show up on scanned pages:
//
//   - FlateDecode (zlib, with PNG predictors)
//   - ASCIIHexDecode
//   - ASCII85Decode
//   - CCITTFaxDecode (bi-level scans)
//   - DCTDecode and JPXDecode are passed through untouched
//
// Use [Decode] for a single filter and [Chain] for a /Filter array:
//
//	data, err := filters.Chain(raw, []string{"ASCII85Decode", "FlateDecode"}, []filters.Params{nil, nil})
package filters
