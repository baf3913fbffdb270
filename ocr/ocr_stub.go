//go:build !ocr

// Package ocr recognizes text in page images so that scanned pages can
// take part in overlay detection.
//
// This is the build without the "ocr" tag: New always fails with
// ErrOCRNotEnabled. Rebuild with
//
//	go build -tags ocr
//
// to link Tesseract.
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR support was not compiled in
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Enabled reports whether this build can recognize text
const Enabled = false

// Client is a placeholder that never recognizes anything
type Client struct{}

// New returns ErrOCRNotEnabled
func New(languages ...string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
