// Package epubdoc extracts readable text, a cover image and fallback pages
// from EPUB documents.
//
// The package document is parsed with pattern matching over attributes
// rather than a full XML parser. EPUB package documents are schema
// constrained, so the shortcuts hold in practice, and the extraction entry
// point is an interface elsewhere so a structured parser can be substituted
// without touching pagination.
package epubdoc

import "errors"

// Extraction errors. Only ErrInvalidArchive is surfaced as a Go error;
// structural problems inside a valid archive degrade to a failed result.
var (
	ErrInvalidArchive = errors.New("epub: invalid or corrupted archive")
	ErrNoContainer    = errors.New("epub: missing META-INF/container.xml")
	ErrNoRootfile     = errors.New("epub: no rootfile path in container.xml")
	ErrNoPackage      = errors.New("epub: missing package document")
	ErrEmptySpine     = errors.New("epub: no content in spine")
	ErrDRMProtected   = errors.New("epub: DRM-protected content cannot be processed")
	ErrMissingFile    = errors.New("epub: file not found in archive")
)

// ManifestItem represents one file declared in the package manifest.
type ManifestItem struct {
	Href       string
	MediaType  string
	Properties string
}

// Package is the parsed package document: the manifest keyed by item id and
// the spine in reading order. Both are derived, read-only and scoped to a
// single extraction call.
type Package struct {
	Manifest map[string]ManifestItem
	Spine    []string // manifest ids in reading order
	Title    string
	Creator  string

	// BasePath is the directory containing the package document; all
	// manifest hrefs resolve relative to it.
	BasePath string
}

// textualMediaTypes are the spine media types whose content enters the text
// layer.
var textualMediaTypes = map[string]bool{
	"application/xhtml+xml":    true,
	"text/html":                true,
	"text/xml":                 true,
	"application/x-dtbook+xml": true,
}
