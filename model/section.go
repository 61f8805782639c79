package model

// Section is one screen-sized slice of the normalized text.
//
// Sections form a dense, 0-based, strictly increasing sequence in original
// text order. StartChar/EndChar are approximate running offsets into the
// normalized source (a constant separator allowance is added between emitted
// chunks, so they are not byte-exact).
type Section struct {
	ID              int     `json:"id"`
	Content         string  `json:"content"`
	EstimatedHeight float64 `json:"estimatedHeight"`
	StartChar       int     `json:"startCharIndex"`
	EndChar         int     `json:"endCharIndex"`
	CharacterCount  int     `json:"characterCount"`
}

// ProcessedSection is a Section prepared for rendering. It is derived and
// recomputed whenever font size or bionic mode changes, never mutated in
// place; cache keys must include both parameters.
type ProcessedSection struct {
	Section

	// Processed is the render markup, with bionic emphasis applied when
	// IsBionic is set.
	Processed string `json:"processed"`

	// RegularFormatted is the plain paragraph-wrapped markup without
	// emphasis.
	RegularFormatted string `json:"regularFormatted"`

	IsBionic bool `json:"isBionic"`
}

// Capacity describes how much text fits on one screen. It is a pure function
// of viewport dimensions and font size with no persisted identity, and must
// be recomputed whenever either changes.
type Capacity struct {
	// MaxLines is the number of text lines per screen, at least 3.
	MaxLines int `json:"maxLines"`

	// CharsPerLine is the estimated characters per wrapped line, at least 30.
	CharsPerLine int `json:"charsPerLine"`

	// MaxChars is the character budget per screen, at least 150. Includes a
	// fill-inefficiency discount for word wrap.
	MaxChars float64 `json:"maxChars"`

	// LineHeightPx is the line box height in pixels.
	LineHeightPx float64 `json:"lineHeightPx"`

	// AvailableHeight is the vertical space left for text after fixed
	// chrome, in pixels.
	AvailableHeight float64 `json:"availableHeight"`
}
