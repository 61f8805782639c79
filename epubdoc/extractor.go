package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"net/url"
	"strings"

	"github.com/readlite/readlite/model"
	"github.com/readlite/readlite/textnorm"
)

const (
	// minItemChars is the sanity threshold below which a spine item's
	// extracted text is not worth including.
	minItemChars = 50

	// minWords is the minimum word count across the whole book for a
	// usable extraction.
	minWords = 100
)

const failedMessage = "Could not extract enough readable text from this EPUB. " +
	"The original pages are shown instead."

// Extract unpacks an EPUB archive and extracts ordered text, a cover image
// and per-chapter fallback pages.
//
// A buffer that does not open as a ZIP archive is a hard error
// (ErrInvalidArchive). Structural problems inside a valid archive - missing
// container.xml, missing package document, an empty spine - degrade to a
// result with ExtractionFailed set, keeping whatever cover and fallback
// pages were recovered.
func Extract(data []byte) (*model.ExtractionResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrInvalidArchive
	}

	if err := checkForDRM(zr); err != nil {
		return structuralFailure(err), nil
	}

	opfPath, err := parseContainer(zr)
	if err != nil {
		return structuralFailure(err), nil
	}

	pkg, err := parsePackage(zr, opfPath)
	if err != nil {
		return structuralFailure(err), nil
	}

	cover := extractCover(zr, pkg)

	var (
		pages    []model.OriginalPage
		chapters []string
	)

	for _, idref := range pkg.Spine {
		item, ok := pkg.Manifest[idref]
		if !ok || !textualMediaTypes[item.MediaType] {
			continue
		}

		raw, err := readFile(zr, pkg.resolveHref(unescapeHref(item.Href)))
		if err != nil {
			continue
		}
		markup := decodeContent(raw)

		pages = append(pages, model.OriginalPage{
			ID:      len(pages),
			Content: markup,
			Type:    model.PageTypeHTML,
		})

		if text := markupToText(markup); len(text) > minItemChars {
			chapters = append(chapters, text)
		}
	}

	text := textnorm.Normalize(strings.Join(chapters, "\n\n"))
	words := textnorm.CountWords(text)

	if words < minWords {
		return &model.ExtractionResult{
			ExtractionFailed: true,
			Message:          failedMessage,
			CoverImage:       cover,
			OriginalPages:    pages,
		}, nil
	}

	return &model.ExtractionResult{
		Text:          text,
		CoverImage:    cover,
		OriginalPages: pages,
		Metadata: model.Metadata{
			WordCount:        words,
			CharacterCount:   len(text),
			ExtractionMethod: "epub",
			Chapters:         len(chapters),
			Title:            pkg.Title,
			Creator:          pkg.Creator,
		},
	}, nil
}

// structuralFailure wraps a structural parse error in a failed result so
// callers can still fall back to whatever viewing mode is possible.
func structuralFailure(err error) *model.ExtractionResult {
	msg := failedMessage
	if errors.Is(err, ErrDRMProtected) {
		msg = "This EPUB is DRM-protected and cannot be opened."
	}
	return &model.ExtractionResult{
		ExtractionFailed: true,
		Message:          msg,
		Error:            err.Error(),
	}
}

// unescapeHref decodes percent-escapes in manifest hrefs.
func unescapeHref(href string) string {
	if decoded, err := url.PathUnescape(href); err == nil {
		return decoded
	}
	return href
}
