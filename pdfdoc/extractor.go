// Package pdfdoc recovers readable text from raw PDF bytes.
//
// The extractor does not implement the PDF specification. It scans the byte
// buffer for content-stream and text-object regions, pulls the operands of
// the text-showing operators out of them, and falls back to scraping any
// literal strings in the file when the structured passes find too little.
// Compressed and encrypted streams are skipped, not inflated; documents that
// keep all text in such streams come back with ExtractionFailed set and the
// caller presents the original pages instead.
package pdfdoc

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/readlite/readlite/internal/decode"
	"github.com/readlite/readlite/model"
	"github.com/readlite/readlite/textnorm"
)

const (
	// minStructuredChars is the yield below which the next extraction
	// strategy is attempted.
	minStructuredChars = 100

	// minWords is the minimum word count for a usable extraction.
	minWords = 50

	// maxBinaryRatio rejects stream regions that are mostly non-printable
	// bytes (compressed or binary data we do not decode).
	maxBinaryRatio = 0.3

	// minLetterRatio filters scraped fragments in the basic pass.
	minLetterRatio = 0.4
)

const failedMessage = "Could not extract enough readable text from this PDF. " +
	"The original pages are shown instead."

var (
	streamRegion = regexp.MustCompile(`(?s)stream\r?\n?(.*?)endstream`)
	textObject   = regexp.MustCompile(`(?s)BT(.*?)ET`)
	showTj       = regexp.MustCompile(`\(((?:\\.|[^()\\])*)\)\s*Tj`)
	showTJ       = regexp.MustCompile(`(?s)\[(.*?)\]\s*TJ`)
	literal      = regexp.MustCompile(`\(((?:\\.|[^()\\])*)\)`)
	bracketGroup = regexp.MustCompile(`\[([^\[\]]{3,})\]`)
)

// Extractor extracts text from PDF documents. The zero value is ready to
// use; OCR may be attached for image-only documents.
type Extractor struct {
	// OCR, when non-nil, is consulted as a last resort on embedded JPEG
	// images before the extraction is declared failed.
	OCR OCRClient
}

// OCRClient recognizes text in raw image bytes.
type OCRClient interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Extract recovers text from raw PDF file content. Insufficient text is not
// an error: the result comes back with ExtractionFailed set and a message.
func (e *Extractor) Extract(data []byte) *model.ExtractionResult {
	if len(data) == 0 {
		return &model.ExtractionResult{
			ExtractionFailed: true,
			Message:          failedMessage,
			Error:            "empty input buffer",
		}
	}

	// The buffer is treated as raw bytes, not validated UTF-8; string
	// conversion preserves every byte so offsets line up.
	src := string(data)

	text := extractStructured(src)
	method := "pdf-structured"

	if len(text) < minStructuredChars {
		if basic := extractBasic(src); len(basic) > len(text) {
			text = basic
			method = "pdf-basic"
		}
	}

	text = textnorm.Normalize(text)

	if textnorm.CountWords(text) < minWords && e.OCR != nil {
		if ocrText := e.extractOCR(src); ocrText != "" {
			text = textnorm.Normalize(ocrText)
			method = "pdf-ocr"
		}
	}

	words := textnorm.CountWords(text)
	if words < minWords {
		return &model.ExtractionResult{
			ExtractionFailed: true,
			Message:          failedMessage,
		}
	}

	return &model.ExtractionResult{
		Text: text,
		Metadata: model.Metadata{
			WordCount:        words,
			CharacterCount:   len(text),
			ExtractionMethod: method,
		},
	}
}

// Extract is a convenience wrapper around a zero-value Extractor.
func Extract(data []byte) *model.ExtractionResult {
	var e Extractor
	return e.Extract(data)
}

// extractStructured runs the content-stream and text-object scans. The two
// strategies overlap on well-formed files; both are attempted and their
// fragments concatenated, since malformed files often satisfy only one.
func extractStructured(src string) string {
	var fragments []string

	for _, m := range streamRegion.FindAllStringSubmatch(src, -1) {
		region := m[1]
		if binaryRatio(region) > maxBinaryRatio {
			continue
		}
		fragments = append(fragments, showOperands(region)...)
	}

	for _, m := range textObject.FindAllStringSubmatch(src, -1) {
		fragments = append(fragments, showOperands(m[1])...)
	}

	return strings.Join(fragments, " ")
}

// showOperands extracts the decoded operands of Tj and TJ operators from a
// candidate region.
func showOperands(region string) []string {
	var out []string

	for _, m := range showTj.FindAllStringSubmatch(region, -1) {
		if s := decode.PDFLiteral(m[1]); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}

	for _, m := range showTJ.FindAllStringSubmatch(region, -1) {
		// TJ arrays interleave literal strings with kerning numbers.
		var parts []string
		for _, lm := range literal.FindAllStringSubmatch(m[1], -1) {
			parts = append(parts, decode.PDFLiteral(lm[1]))
		}
		if s := strings.Join(parts, ""); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}

	return out
}

// extractBasic scrapes any parenthesized or bracketed literal strings from
// the whole buffer and keeps those that look like words.
func extractBasic(src string) string {
	var fragments []string

	for _, m := range literal.FindAllStringSubmatch(src, -1) {
		if len(m[1]) < 3 {
			continue
		}
		if s := decode.PDFLiteral(m[1]); looksLikeText(s) {
			fragments = append(fragments, s)
		}
	}

	for _, m := range bracketGroup.FindAllStringSubmatch(src, -1) {
		for _, lm := range literal.FindAllStringSubmatch(m[1], -1) {
			if len(lm[1]) < 3 {
				continue
			}
			if s := decode.PDFLiteral(lm[1]); looksLikeText(s) {
				fragments = append(fragments, s)
			}
		}
	}

	return strings.Join(fragments, " ")
}

// extractOCR feeds embedded JPEG streams to the OCR client. DCTDecode
// streams carry their JPEG data verbatim, so no image decoding is needed.
func (e *Extractor) extractOCR(src string) string {
	var parts []string
	for _, m := range streamRegion.FindAllStringSubmatch(src, -1) {
		region := m[1]
		// JPEG SOI marker.
		if len(region) < 4 || region[0] != 0xFF || region[1] != 0xD8 {
			continue
		}
		text, err := e.OCR.RecognizeImage([]byte(region))
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// looksLikeText reports whether a decoded fragment is plausibly words
// rather than operator soup: at least three letters and a letter ratio of
// 0.4 over its non-space length.
func looksLikeText(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return false
	}
	letters, total := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 || total == 0 {
		return false
	}
	return float64(letters)/float64(total) >= minLetterRatio
}

// binaryRatio is the fraction of bytes outside printable ASCII and common
// whitespace.
func binaryRatio(s string) float64 {
	if len(s) == 0 {
		return 1
	}
	binary := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < 32 || b > 126) && b != '\n' && b != '\r' && b != '\t' {
			binary++
		}
	}
	return float64(binary) / float64(len(s))
}
