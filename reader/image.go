package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/tsawler/pdfrev/core"
	"github.com/tsawler/pdfrev/pages"
)

// PageImage is an image XObject of a page, decoded for recognition
type PageImage struct {
	Name             string // XObject resource name (e.g., "Im1")
	Ref              core.IndirectRef
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, etc.
	BitsPerComponent int
	Data             []byte // decoded samples, or JPEG bytes for DCTDecode
	Filter           string // first filter
}

// ExtractPageImages decodes the page's image XObjects. Images that cannot
// be decoded are left out.
func (r *Reader) ExtractPageImages(page *pages.Page) ([]PageImage, error) {
	imgs, err := page.Images()
	if err != nil {
		return nil, err
	}

	var out []PageImage
	for _, img := range imgs {
		pi, err := r.extractImage(img)
		if err != nil {
			continue
		}
		out = append(out, *pi)
	}
	return out, nil
}

func (r *Reader) extractImage(img pages.Image) (*PageImage, error) {
	dict := img.Stream.Dict

	width, ok1 := dict.GetInt("Width")
	height, ok2 := dict.GetInt("Height")
	if !ok1 || !ok2 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %s has no usable Width/Height", img.Name)
	}

	filters, _ := img.Stream.Filters()
	filter := ""
	if len(filters) > 0 {
		filter = filters[0]
	}

	bpc := 8
	if v, ok := dict.GetInt("BitsPerComponent"); ok {
		bpc = int(v)
	}
	if len(filters) > 0 && filters[len(filters)-1] == "CCITTFaxDecode" {
		bpc = 1
	}

	data, err := img.Stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", img.Name, err)
	}

	return &PageImage{
		Name:             img.Name,
		Ref:              img.Ref,
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       r.colorSpaceName(dict.Get("ColorSpace")),
		BitsPerComponent: bpc,
		Data:             data,
		Filter:           filter,
	}, nil
}

// colorSpaceName reduces a color space to the name of its base family
func (r *Reader) colorSpaceName(obj core.Object) string {
	resolved, err := r.Resolve(obj)
	if err != nil || resolved == nil {
		return "DeviceGray"
	}

	switch v := resolved.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		if len(v) == 0 {
			break
		}
		name, _ := v[0].(core.Name)
		if name == "Indexed" && len(v) > 1 {
			return r.colorSpaceName(v[1])
		}
		return string(name)
	}
	return "DeviceGray"
}

// Encode returns bytes an OCR engine accepts: JPEG data as stored, PNG
// for everything else
func (img *PageImage) Encode() ([]byte, error) {
	if img.Filter == "DCTDecode" || img.Filter == "DCT" {
		return img.Data, nil
	}
	return img.ToPNG()
}

// ToPNG converts the decoded samples to PNG
func (img *PageImage) ToPNG() ([]byte, error) {
	var (
		goImg image.Image
		err   error
	)
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		goImg, err = img.toRGB()
	case "DeviceCMYK":
		goImg, err = img.toCMYK()
	default:
		goImg, err = img.toGray()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// toGray expands 1, 2, 4 or 8 bit gray samples. Rows are byte aligned.
func (img *PageImage) toGray() (*image.Gray, error) {
	bpc := img.BitsPerComponent
	switch bpc {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", bpc)
	}

	rowBytes := (img.Width*bpc + 7) / 8
	if len(img.Data) < rowBytes*img.Height {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(img.Data), rowBytes*img.Height)
	}

	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	maxVal := (1 << bpc) - 1
	for y := 0; y < img.Height; y++ {
		row := img.Data[y*rowBytes:]
		for x := 0; x < img.Width; x++ {
			bit := x * bpc
			v := int(row[bit/8]>>(8-bpc-bit%8)) & maxVal
			out.Pix[y*out.Stride+x] = uint8(v * 255 / maxVal)
		}
	}
	return out, nil
}

func (img *PageImage) toRGB() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.BitsPerComponent)
	}
	if len(img.Data) < img.Width*img.Height*3 {
		return nil, fmt.Errorf("insufficient data for RGB image: got %d, expected %d", len(img.Data), img.Width*img.Height*3)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		copy(out.Pix[i*4:i*4+3], img.Data[i*3:i*3+3])
		out.Pix[i*4+3] = 255
	}
	return out, nil
}

func (img *PageImage) toCMYK() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", img.BitsPerComponent)
	}
	if len(img.Data) < img.Width*img.Height*4 {
		return nil, fmt.Errorf("insufficient data for CMYK image: got %d, expected %d", len(img.Data), img.Width*img.Height*4)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i := 0; i < img.Width*img.Height; i++ {
		s := img.Data[i*4 : i*4+4]
		r, g, b := color.CMYKToRGB(s[0], s[1], s[2], s[3])
		out.Pix[i*4], out.Pix[i*4+1], out.Pix[i*4+2], out.Pix[i*4+3] = r, g, b, 255
	}
	return out, nil
}
