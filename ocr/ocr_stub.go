//go:build !ocr

// Package ocr recognizes text in page images from scanned PDFs.
//
// This is the stub compiled when the "ocr" build tag is not set; New
// returns ErrNotEnabled. Rebuild with -tags ocr (Tesseract must be
// installed) to enable recognition.
package ocr

import "errors"

// ErrNotEnabled is returned when OCR support was not compiled in.
var ErrNotEnabled = errors.New("ocr: support not enabled; rebuild with -tags ocr")

// Client is the stub OCR client. All operations fail with ErrNotEnabled.
type Client struct{}

// New returns ErrNotEnabled.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op. Safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}

// SetLanguage returns ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}
