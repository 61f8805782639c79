// Package decode provides low-level string decoding shared by the document
// extractors: PDF literal-string unescaping and HTML/XML entity decoding.
package decode

import (
	"strconv"
	"strings"
)

// PDFLiteral decodes the body of a PDF literal string (the text between the
// parentheses of a (...) operand). It handles the standard backslash escapes,
// balanced-parenthesis escapes and 1-3 digit octal escapes. Octal values
// outside printable ASCII (32-126) decode to a space rather than a raw
// control byte, since downstream consumers only deal in readable text.
func PDFLiteral(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break
		}
		i++
		switch next := s[i]; next {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'b', 'f':
			buf.WriteByte(' ')
		case '(', ')', '\\':
			buf.WriteByte(next)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Octal escape \ddd, up to three digits.
			val := int(next - '0')
			for n := 0; n < 2 && i+1 < len(s) && isOctalDigit(s[i+1]); n++ {
				i++
				val = val*8 + int(s[i]-'0')
			}
			if val >= 32 && val <= 126 {
				buf.WriteByte(byte(val))
			} else {
				buf.WriteByte(' ')
			}
		default:
			// Unknown escape - keep the character.
			buf.WriteByte(next)
		}
	}

	return buf.String()
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isEntityName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return name != ""
}

var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
	"nbsp": " ",
}

// HTMLEntities decodes the small set of named entities that occur in
// schema-constrained EPUB content, plus decimal numeric entities. Unknown
// named entities collapse to a single space so they never leak markup
// artifacts into the text layer.
func HTMLEntities(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s))
	buf.WriteString(s[:amp])

	for i := amp; i < len(s); i++ {
		c := s[i]
		if c != '&' {
			buf.WriteByte(c)
			continue
		}
		semi := strings.IndexByte(s[i:], ';')
		// Entities are short; anything longer is a bare ampersand.
		if semi < 2 || semi > 10 {
			buf.WriteByte(c)
			continue
		}
		name := s[i+1 : i+semi]
		if strings.HasPrefix(name, "#") {
			if code, err := strconv.Atoi(name[1:]); err == nil && code > 0 {
				buf.WriteRune(rune(code))
				i += semi
				continue
			}
			buf.WriteByte(c)
			continue
		}
		if !isEntityName(name) {
			buf.WriteByte(c)
			continue
		}
		if rep, ok := namedEntities[name]; ok {
			buf.WriteString(rep)
		} else {
			buf.WriteByte(' ')
		}
		i += semi
	}

	return buf.String()
}
