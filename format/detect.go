// Package format provides document format detection for the engine.
package format

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// EPUB indicates an EPUB document.
	EPUB
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case EPUB:
		return "EPUB"
	default:
		return "Unknown"
	}
}

// MIMEType returns the canonical MIME type for the format.
func (f Format) MIMEType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case EPUB:
		return "application/epub+zip"
	default:
		return ""
	}
}

// Detect determines file format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".epub":
		return EPUB
	default:
		return Unknown
	}
}

// DetectFromMIME maps a MIME type reported by a document picker to a format.
func DetectFromMIME(mimeType string) Format {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "application/pdf":
		return PDF
	case "application/epub+zip":
		return EPUB
	default:
		return Unknown
	}
}

// DetectFromBytes checks magic bytes to determine format. EPUB detection
// requires the buffer to open as a ZIP archive; an archive without EPUB
// markers (mimetype entry or META-INF/container.xml) stays Unknown.
func DetectFromBytes(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// ZIP magic: PK\x03\x04
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		if isEPUBArchive(data) {
			return EPUB
		}
		return Unknown
	}

	return Unknown
}

func isEPUBArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}

	for _, f := range zr.File {
		if f.Name == "mimetype" {
			rc, err := f.Open()
			if err != nil {
				continue
			}
			buf := make([]byte, 64)
			n, _ := rc.Read(buf)
			rc.Close()
			if strings.Contains(string(buf[:n]), "application/epub+zip") {
				return true
			}
		}
		if f.Name == "META-INF/container.xml" {
			return true
		}
	}
	return false
}
