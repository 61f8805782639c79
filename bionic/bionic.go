// Package bionic applies word-emphasis markup to text for bionic reading,
// where the leading characters of each word are bolded to guide the eye.
package bionic

import (
	"math"
	"strings"
	"unicode"
)

// Emphasis markers wrapped around the leading part of each word.
const (
	openTag  = "<b>"
	closeTag = "</b>"
)

// prefixLen returns how many leading characters of a word of length n are
// emphasized. Short words get a fixed prefix; longer words scale sublinearly
// so the emphasized portion stays near the front.
func prefixLen(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= 3:
		return 1
	case n <= 5:
		return 2
	case n <= 8:
		return int(math.Ceil(float64(n) * 0.4))
	default:
		return int(math.Ceil(float64(n) * 0.35))
	}
}

// Emphasize wraps the leading characters of every word-like token in
// emphasis markup. A token is a maximal run of letters; digits, punctuation
// and whitespace pass through untouched, and no letters are added, removed
// or re-cased.
func Emphasize(text string) string {
	var out strings.Builder
	out.Grow(len(text) + len(text)/4)

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		if !unicode.IsLetter(runes[i]) {
			out.WriteRune(runes[i])
			i++
			continue
		}

		j := i
		for j < len(runes) && unicode.IsLetter(runes[j]) {
			j++
		}
		word := runes[i:j]
		n := prefixLen(len(word))

		out.WriteString(openTag)
		out.WriteString(string(word[:n]))
		out.WriteString(closeTag)
		out.WriteString(string(word[n:]))
		i = j
	}

	return out.String()
}
