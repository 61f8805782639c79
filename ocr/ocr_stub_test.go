//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewDisabled(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrNotEnabled) {
		t.Errorf("New: err = %v, want ErrNotEnabled", err)
	}
	if client != nil {
		t.Error("New should return a nil client when OCR is disabled")
	}
}

func TestStubOperations(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}

	c := &Client{}
	if _, err := c.RecognizeImage([]byte{0x89}); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("RecognizeImage: err = %v, want ErrNotEnabled", err)
	}
	if err := c.SetLanguage("eng"); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("SetLanguage: err = %v, want ErrNotEnabled", err)
	}
}
