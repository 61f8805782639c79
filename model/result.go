package model

// PageType identifies the raw content kept for a fallback page.
type PageType string

const (
	// PageTypeHTML marks raw XHTML markup from an EPUB spine item.
	PageTypeHTML PageType = "html"
	// PageTypePDF marks raw content from a PDF page region.
	PageTypePDF PageType = "pdf"
)

// OriginalPage preserves the raw per-page content of a document so the UI can
// fall back to page-by-page viewing when text extraction is insufficient.
// Pages are kept in document order and never reordered.
type OriginalPage struct {
	ID      int      `json:"id"`
	Content string   `json:"content"`
	Type    PageType `json:"type"`
}

// Metadata carries summary statistics about an extraction.
type Metadata struct {
	WordCount        int    `json:"wordCount"`
	CharacterCount   int    `json:"characterCount"`
	ExtractionMethod string `json:"extractionMethod"`
	// Chapters is the number of spine items that contributed text.
	// Zero for PDF extractions.
	Chapters int `json:"chapters,omitempty"`
	// Title and Creator come from the EPUB package metadata when present.
	Title   string `json:"title,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// ExtractionResult is the complete outcome of extracting one document.
// It is created once per upload and immutable thereafter; the storage layer
// persists it as the book's content blob.
//
// Invariants: ExtractionFailed implies Text == "", and a non-failed result
// always meets the extractor's minimum word count.
type ExtractionResult struct {
	// Text is the normalized extracted text, empty when extraction failed.
	Text string `json:"text,omitempty"`

	// ExtractionFailed reports that not enough usable text was found.
	// The caller should fall back to page-view mode using OriginalPages.
	ExtractionFailed bool `json:"extractionFailed"`

	// Message is a human-readable explanation when extraction failed.
	Message string `json:"message,omitempty"`

	// Error carries detail for structural failures (malformed archive,
	// missing manifest). Empty for plain insufficiency.
	Error string `json:"error,omitempty"`

	// CoverImage is a base64 data URI, or empty when no cover was found.
	CoverImage string `json:"coverImage,omitempty"`

	// OriginalPages holds raw per-page content for fallback viewing.
	OriginalPages []OriginalPage `json:"originalPages,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// HasText reports whether the result carries usable extracted text.
func (r *ExtractionResult) HasText() bool {
	return !r.ExtractionFailed && r.Text != ""
}
