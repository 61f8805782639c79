// Package textnorm provides the shared cleanup pass applied to extracted
// text before pagination.
//
// PDF text operators emit text line by line, so reconstructed text tends to
// carry broken sentence boundaries and merged words. The normalizer repairs
// the common cases with pattern heuristics. The repairs are approximate by
// design: the lowercase-followed-by-uppercase rule, which reinstates a space
// lost at a line wrap, will occasionally misfire inside camel-case tokens.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	inlineWS       = regexp.MustCompile(`[ \t\v\f\x{00A0}]+`)
	excessBlank    = regexp.MustCompile(`\n{3,}`)
	sentenceBreak  = regexp.MustCompile(`([.!?]["')\]]?)\n+([A-Z])`)
	missingSpace   = regexp.MustCompile(`([.!?])([A-Z])`)
	mergedBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Normalize canonicalizes whitespace and repairs sentence boundaries in
// extracted text. Line endings become \n, runs of inline whitespace collapse
// to single spaces (newlines are preserved), every line is trimmed, and runs
// of blank lines collapse to a single blank line.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// Canonical line endings.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Collapse inline whitespace, keeping newlines intact.
	text = inlineWS.ReplaceAllString(text, " ")

	// Trim each line.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = excessBlank.ReplaceAllString(text, "\n\n")

	// Sentence end split across text operators: force a paragraph break.
	text = sentenceBreak.ReplaceAllString(text, "$1\n\n$2")

	// Sentence end glued to the next sentence's capital.
	text = missingSpace.ReplaceAllString(text, "$1 $2")

	// Word boundary lost during stream reconstruction. Known to misfire on
	// intentional camel case; accepted tradeoff.
	text = mergedBoundary.ReplaceAllString(text, "$1 $2")

	return strings.TrimSpace(text)
}

// CountWords counts whitespace-delimited words in text.
func CountWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			words++
		}
	}
	return words
}
