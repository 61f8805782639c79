package sections

import (
	"strings"
	"unicode"
)

// splitLongParagraph breaks a paragraph that cannot fit on one screen into
// chunks of at most budget characters. It tries progressively finer
// boundaries: sentences, then clauses for any sentence still over budget,
// then single words. A word longer than the budget is emitted on its own
// rather than split internally.
func splitLongParagraph(para string, budget int) []string {
	if len(para) <= budget {
		return []string{para}
	}

	var chunks []string
	for _, pack := range packUnits(splitSentences(para), budget) {
		if len(pack) <= budget {
			chunks = append(chunks, pack)
			continue
		}
		for _, clausePack := range packUnits(splitClauses(pack), budget) {
			if len(clausePack) <= budget {
				chunks = append(chunks, clausePack)
				continue
			}
			chunks = append(chunks, packUnits(strings.Fields(clausePack), budget)...)
		}
	}
	return chunks
}

// packUnits greedily joins units with single spaces into chunks of at most
// budget characters. A unit that alone exceeds the budget becomes its own
// chunk, to be broken down at a finer granularity by the caller.
func packUnits(units []string, budget int) []string {
	var chunks []string
	var current strings.Builder

	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		extra := len(u)
		if current.Len() > 0 {
			extra++
		}
		if current.Len() > 0 && current.Len()+extra > budget {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(u)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitSentences splits text at sentence boundaries: one or more of .!?
// followed by an optional closing quote, then whitespace and an uppercase
// letter, or the end of the text. Anything not matching stays in one piece,
// so abbreviations followed by lowercase do not split.
func splitSentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	i := 0

	for i < len(runes) {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			i++
			continue
		}

		// Consume the punctuation run and any closing quote.
		j := i + 1
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
			j++
		}
		for j < len(runes) && isClosingQuote(runes[j]) {
			j++
		}

		// Skip whitespace to the first character of what follows.
		k := j
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}

		if k >= len(runes) || unicode.IsUpper(runes[k]) {
			if s := strings.TrimSpace(string(runes[start:j])); s != "" {
				out = append(out, s)
			}
			start = k
			i = k
			continue
		}
		i = j
	}

	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']':
		return true
	}
	return false
}

// splitClauses splits a sentence after clause delimiters. Commas, semicolons
// and colons always end a clause; dashes do too, except a plain hyphen
// tight between letters, which is part of a hyphenated word.
func splitClauses(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	for i, r := range runes {
		cut := false
		switch r {
		case ',', ';', ':', '—', '–':
			cut = true
		case '-':
			cut = i+1 >= len(runes) || unicode.IsSpace(runes[i+1])
		}
		if cut {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}
