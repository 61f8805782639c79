// Package readlite turns uploaded PDF and EPUB documents into clean,
// normalized reading text.
//
// Basic usage:
//
//	result, err := readlite.FromBytes(data).Extract()
//	if err != nil {
//	    // handle error
//	}
//	if result.ExtractionFailed {
//	    // show result.Message and fall back to page mode
//	}
//
// With options:
//
//	result, err := readlite.FromBytes(data).
//	    Filename("report.pdf").
//	    MIMEType("application/pdf").
//	    Logger(log).
//	    Extract()
//
// Extraction quality problems (a scanned PDF, an image-only EPUB) are
// reported inside the result, not as errors; the error return is reserved
// for input that is not a supported document at all.
package readlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/readlite/readlite/epubdoc"
	"github.com/readlite/readlite/format"
	"github.com/readlite/readlite/model"
	"github.com/readlite/readlite/pdfdoc"
)

// ErrUnsupportedFormat is returned when the input is neither a PDF nor an
// EPUB, whether declared via MIMEType or sniffed from the bytes.
var ErrUnsupportedFormat = errors.New("readlite: unsupported document format")

// OCRClient recognizes text in a page image. The ocr package provides an
// implementation when built with -tags ocr.
type OCRClient interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Extractor recovers text from one document format. The built-in
// implementations are byte-level scanners; a structured parser can be
// substituted without affecting anything downstream of the result.
type Extractor interface {
	Extract(data []byte) (*model.ExtractionResult, error)
}

type pdfExtractor struct {
	ocr OCRClient
}

func (p pdfExtractor) Extract(data []byte) (*model.ExtractionResult, error) {
	ex := pdfdoc.Extractor{OCR: p.ocr}
	return ex.Extract(data), nil
}

type epubExtractor struct{}

func (epubExtractor) Extract(data []byte) (*model.ExtractionResult, error) {
	return epubdoc.Extract(data)
}

// Document provides a fluent interface for configuring and running an
// extraction. Each configuration method returns a new Document instance,
// making chains safe to fork and reuse.
type Document struct {
	data    []byte
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// FromBytes creates a Document from in-memory file data, the common path
// for uploads.
//
// Example:
//
//	result, err := readlite.FromBytes(data).Extract()
func FromBytes(data []byte) *Document {
	return &Document{
		data:    data,
		options: defaultOptions(),
	}
}

// FromFile creates a Document by reading the file at path. The file name
// is kept as a format hint.
func FromFile(path string) *Document {
	d := &Document{options: defaultOptions()}
	d.options.filename = filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		d.err = fmt.Errorf("readlite: reading %s: %w", path, err)
		return d
	}
	d.data = data
	return d
}

// clone creates a copy of the Document with a copy of its options.
func (d *Document) clone() *Document {
	return &Document{
		data:    d.data,
		options: d.options.clone(),
		err:     d.err,
	}
}

// Filename records the original upload name, used to resolve the format
// when the content bytes are ambiguous.
func (d *Document) Filename(name string) *Document {
	nd := d.clone()
	nd.options.filename = name
	return nd
}

// MIMEType records the declared content type. An unsupported declared
// type fails Extract before any bytes are parsed.
func (d *Document) MIMEType(mime string) *Document {
	nd := d.clone()
	nd.options.mimeType = mime
	return nd
}

// Logger attaches a logger for extraction diagnostics. The default
// discards everything.
func (d *Document) Logger(log *zap.Logger) *Document {
	nd := d.clone()
	if log == nil {
		log = zap.NewNop()
	}
	nd.options.logger = log
	return nd
}

// OCR attaches an OCR client used as a last resort on PDFs whose text
// layers yield nothing.
func (d *Document) OCR(client OCRClient) *Document {
	nd := d.clone()
	nd.options.ocr = client
	return nd
}

// Extract runs the extraction and returns the result.
//
// The error return covers unusable input only: an unsupported or
// undetectable format, or bytes that are not a valid document container.
// Quality failures (too little text recovered) come back as a result with
// ExtractionFailed set.
func (d *Document) Extract() (*model.ExtractionResult, error) {
	if d.err != nil {
		return nil, d.err
	}

	f, err := d.resolveFormat()
	if err != nil {
		return nil, err
	}

	log := d.options.logger
	log.Info("extracting document",
		zap.String("format", f.String()),
		zap.String("filename", d.options.filename),
		zap.Int("bytes", len(d.data)))

	var ex Extractor
	switch f {
	case format.PDF:
		ex = pdfExtractor{ocr: d.options.ocr}
	case format.EPUB:
		ex = epubExtractor{}
	default:
		return nil, ErrUnsupportedFormat
	}

	result, err := ex.Extract(d.data)
	if err != nil {
		return nil, err
	}

	if result.ExtractionFailed {
		log.Warn("extraction failed",
			zap.String("format", f.String()),
			zap.String("message", result.Message))
	} else {
		log.Info("extraction complete",
			zap.String("method", result.Metadata.ExtractionMethod),
			zap.Int("words", result.Metadata.WordCount))
	}
	return result, nil
}

// resolveFormat determines the document format. A declared MIME type is
// authoritative and rejected early when unsupported; otherwise the bytes
// are sniffed, with the filename extension as the final fallback.
func (d *Document) resolveFormat() (format.Format, error) {
	if d.options.mimeType != "" {
		f := format.DetectFromMIME(d.options.mimeType)
		if f == format.Unknown {
			return f, fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.options.mimeType)
		}
		return f, nil
	}

	if f := format.DetectFromBytes(d.data); f != format.Unknown {
		return f, nil
	}
	if f := format.Detect(d.options.filename); f != format.Unknown {
		return f, nil
	}
	return format.Unknown, ErrUnsupportedFormat
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
