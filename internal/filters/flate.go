package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// FlateDecode inflates zlib data and undoes a PNG predictor when
// /Predictor is 10 or above. Truncated streams are common in edited files;
// whatever was inflated before the error is returned if it is non-empty.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib header: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		if buf.Len() == 0 {
			return nil, fmt.Errorf("inflate: %w", err)
		}
	}

	predictor := getIntParam(params, "Predictor", 1)
	switch {
	case predictor == 1:
		return buf.Bytes(), nil
	case predictor >= 10 && predictor <= 15:
		return pngUnpredict(buf.Bytes(), params)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", predictor)
	}
}

// pngUnpredict reverses PNG row filters. Every row carries its own filter
// type byte, so /Predictor only signals that rows are PNG-filtered.
func pngUnpredict(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)

	bpp := (colors*bpc + 7) / 8
	rowLen := (columns*colors*bpc + 7) / 8
	if rowLen <= 0 || len(data)%(rowLen+1) != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowLen+1)
	}

	rows := len(data) / (rowLen + 1)
	out := make([]byte, rows*rowLen)
	prev := make([]byte, rowLen)

	for r := 0; r < rows; r++ {
		in := data[r*(rowLen+1):]
		ft := in[0]
		in = in[1 : rowLen+1]
		cur := out[r*rowLen : (r+1)*rowLen]

		for i := 0; i < rowLen; i++ {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			switch ft {
			case 0:
				cur[i] = in[i]
			case 1:
				cur[i] = in[i] + left
			case 2:
				cur[i] = in[i] + up
			case 3:
				cur[i] = in[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = in[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter type %d", r, ft)
			}
		}
		prev = cur
	}

	return out, nil
}

// paeth picks whichever neighbour is closest to left+up-upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := absInt(p-int(a)), absInt(p-int(b)), absInt(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
