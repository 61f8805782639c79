// Package layout estimates how much text fits on one screen.
//
// The estimator has no access to a real text shaper. It works from fixed
// layout assumptions (reserved chrome, padding, a capped content width) and
// an average glyph-width ratio stepped by font-size bracket. The result is
// deliberately approximate; the section splitter compensates by targeting a
// fraction of the estimated capacity rather than filling it exactly.
package layout

import (
	"math"

	"github.com/readlite/readlite/model"
)

// Fixed assumptions about the reading screen, in pixels.
const (
	// chromeHeight is the vertical space reserved for the header and
	// footer controls, split top and bottom.
	chromeHeight = 240.0

	// horizontalPadding is the combined left and right content padding.
	horizontalPadding = 48.0

	// maxContentWidth caps the text column on wide viewports.
	maxContentWidth = 600.0

	// lineHeightFactor converts font size to line box height.
	lineHeightFactor = 1.9

	// fillFactor discounts the character budget for the line-fill
	// inefficiency of word wrap.
	fillFactor = 0.75
)

// charWidthRatio returns the average glyph width relative to font size for
// the given size bracket. Proportional fonts render relatively narrower at
// small sizes and wider at large ones.
func charWidthRatio(fontSize float64) float64 {
	switch {
	case fontSize <= 16:
		return 0.48
	case fontSize <= 20:
		return 0.50
	case fontSize <= 24:
		return 0.53
	default:
		return 0.56
	}
}

// Estimate computes the screen capacity for the given viewport and font
// size. It is a pure function; callers must re-estimate whenever the font
// size or viewport changes rather than reusing a stale Capacity.
func Estimate(viewportWidth, viewportHeight, fontSize float64) model.Capacity {
	availableHeight := viewportHeight - chromeHeight
	if availableHeight < 0 {
		availableHeight = 0
	}

	contentWidth := viewportWidth
	if contentWidth > maxContentWidth {
		contentWidth = maxContentWidth
	}
	availableWidth := contentWidth - horizontalPadding
	if availableWidth < 0 {
		availableWidth = 0
	}

	lineHeight := fontSize * lineHeightFactor

	maxLines := 3
	if lineHeight > 0 {
		if n := int(math.Floor(availableHeight/lineHeight)) - 1; n > maxLines {
			maxLines = n
		}
	}

	charsPerLine := 30
	if cw := fontSize * charWidthRatio(fontSize); cw > 0 {
		if n := int(math.Floor(availableWidth / cw)); n > charsPerLine {
			charsPerLine = n
		}
	}

	maxChars := float64(maxLines) * float64(charsPerLine) * fillFactor
	if maxChars < 150 {
		maxChars = 150
	}

	return model.Capacity{
		MaxLines:        maxLines,
		CharsPerLine:    charsPerLine,
		MaxChars:        maxChars,
		LineHeightPx:    lineHeight,
		AvailableHeight: availableHeight,
	}
}
