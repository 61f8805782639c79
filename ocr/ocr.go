//go:build ocr

// Package ocr recognizes text in page images from scanned PDFs. It wraps
// the Tesseract engine via gosseract and requires Tesseract to be
// installed on the system:
//
//	brew install tesseract        # macOS
//	apt-get install tesseract-ocr # Ubuntu/Debian
//
// Without the "ocr" build tag a stub is compiled instead and New returns
// ErrNotEnabled.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session. It satisfies pdfdoc.OCRClient.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. Close it to release the Tesseract session.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources. Safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage runs OCR over one image (JPEG, PNG, TIFF) and returns
// the recognized text, trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("ocr: setting image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognition: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage selects the recognition language(s), "+"-separated for
// multiple (e.g. "eng+fra"). The default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
