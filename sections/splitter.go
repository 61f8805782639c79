// Package sections partitions normalized text into screen-sized sections for
// a swipe-based reading interface.
//
// Splitting is deterministic and total: the same text and capacity always
// produce the same sections, the output is never empty for non-empty input,
// sections appear in original text order with dense 0-based IDs, and no
// characters are lost. Paragraphs are packed against the estimated screen
// height; a paragraph too tall for one screen is split on its own through a
// sentence, clause and finally word fallback, never inside a word.
package sections

import (
	"regexp"
	"strings"

	"github.com/readlite/readlite/model"
)

// heightTarget is the fraction of the available height a section may fill.
// The remainder absorbs estimation error from the heuristic line wrap.
const heightTarget = 0.9

// oversizeBudgetFactor shrinks the character budget when an oversized
// paragraph is split on its own, leaving headroom for ragged sentence packs.
const oversizeBudgetFactor = 0.8

// separatorAllowance is the running-offset advance charged between emitted
// chunks, standing in for the paragraph separator.
const separatorAllowance = 2

// paragraphMarginFactor is the inter-paragraph margin as a fraction of line
// height, used when estimating accumulated section height.
const paragraphMarginFactor = 0.5

var blankLines = regexp.MustCompile(`\n[ \t]*\n[\s]*`)

// Split partitions text into ordered, capacity-bounded sections.
func Split(text string, capacity model.Capacity) []model.Section {
	if text == "" {
		return nil
	}

	paragraphs := splitParagraphs(strings.TrimSpace(text))

	b := &builder{}
	maxHeight := heightTarget * capacity.AvailableHeight
	oversizeBudget := int(capacity.MaxChars * oversizeBudgetFactor)
	if oversizeBudget < 1 {
		oversizeBudget = 1
	}

	for _, para := range paragraphs {
		paraHeight := estimateParagraphHeight(para, capacity)

		if paraHeight > maxHeight {
			// Too tall for any screen: flush what we have, then emit
			// the paragraph's own chunks. Oversized paragraphs are
			// never merged with their neighbors.
			b.flush()
			for _, chunk := range splitLongParagraph(para, oversizeBudget) {
				b.emit(chunk, estimateParagraphHeight(chunk, capacity))
			}
			continue
		}

		margin := 0.0
		if b.buf.Len() > 0 {
			margin = paragraphMarginFactor * capacity.LineHeightPx
		}
		if b.buf.Len() > 0 && b.height+margin+paraHeight > maxHeight {
			b.flush()
			margin = 0
		}

		if b.buf.Len() > 0 {
			b.buf.WriteString("\n\n")
		}
		b.buf.WriteString(para)
		b.height += margin + paraHeight
	}
	b.flush()

	// Unparseable input still yields exactly one section covering it all.
	if len(b.out) == 0 {
		return []model.Section{{
			ID:              0,
			Content:         text,
			EstimatedHeight: estimateParagraphHeight(text, capacity),
			StartChar:       0,
			EndChar:         len(text),
			CharacterCount:  len(text),
		}}
	}

	return b.out
}

// builder accumulates paragraphs for the current section and emits completed
// sections with running character offsets.
type builder struct {
	buf    strings.Builder
	height float64
	offset int
	out    []model.Section
}

func (b *builder) flush() {
	if b.buf.Len() == 0 {
		return
	}
	b.emit(b.buf.String(), b.height)
	b.buf.Reset()
	b.height = 0
}

func (b *builder) emit(content string, height float64) {
	start := b.offset
	end := start + len(content)
	b.out = append(b.out, model.Section{
		ID:              len(b.out),
		Content:         content,
		EstimatedHeight: height,
		StartChar:       start,
		EndChar:         end,
		CharacterCount:  len(content),
	})
	b.offset = end + separatorAllowance
}

// splitParagraphs splits on blank-line boundaries, dropping empties.
func splitParagraphs(text string) []string {
	parts := blankLines.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// estimateParagraphHeight simulates word wrap at the capacity's line width
// and converts the wrapped line count to pixels.
func estimateParagraphHeight(para string, capacity model.Capacity) float64 {
	return float64(wrappedLines(para, capacity.CharsPerLine)) * capacity.LineHeightPx
}

// wrappedLines counts the lines a greedy word wrap would produce at the
// given width. Hard newlines inside the paragraph start new lines; a word
// wider than the line occupies as many full lines as it needs.
func wrappedLines(text string, width int) int {
	if width < 1 {
		width = 1
	}
	total := 0
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			total++
			continue
		}
		lines := 1
		current := 0
		for _, w := range words {
			need := len(w)
			if current > 0 {
				need++ // joining space
			}
			if current+need <= width {
				current += need
				continue
			}
			if len(w) > width {
				// Overwide word: it wraps across full lines by itself.
				span := (len(w) + width - 1) / width
				if current == 0 {
					// The word starts on the already-counted line.
					span--
				}
				lines += span
				current = len(w) % width
				if current == 0 {
					current = width
				}
				continue
			}
			lines++
			current = len(w)
		}
		total += lines
	}
	return total
}
