//go:build ocr

// Package ocr recognizes text in page images so that scanned pages can
// take part in overlay detection.
//
// It wraps the Tesseract engine through gosseract and is compiled only
// with the "ocr" build tag. Tesseract and its language data must be
// installed:
//
//	apt-get install tesseract-ocr tesseract-ocr-eng
package ocr

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// ErrOCRNotEnabled is returned by the build without the "ocr" tag
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Enabled reports whether this build can recognize text
const Enabled = true

// Client wraps a Tesseract instance. It is safe for concurrent use; calls
// are serialized because a Tesseract handle holds one image at a time.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a client for the given languages, joined with "+" as
// Tesseract expects ("eng+deu"). No languages means English.
func New(languages ...string) (*Client, error) {
	client := gosseract.NewClient()
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	if err := client.SetLanguage(strings.Join(languages, "+")); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set page segmentation: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases the Tesseract handle. It is safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage returns the trimmed text found in an encoded image
// (PNG, JPEG or TIFF)
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
