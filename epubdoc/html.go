package epubdoc

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/readlite/readlite/internal/decode"
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlock  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	commentTag  = regexp.MustCompile(`(?s)<!--.*?-->`)

	headingBlock = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	paraBlock    = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	divBlock     = regexp.MustCompile(`(?is)<div[^>]*class\s*=\s*"[^"]*(?:paragraph|para|body|text|content)[^"]*"[^>]*>(.*?)</div>`)

	innerTag = regexp.MustCompile(`<[^>]+>`)
)

// decodeContent converts a content file's bytes to a UTF-8 string, honoring
// UTF-16 byte order marks that some EPUB producers emit.
func decodeContent(data []byte) string {
	if len(data) >= 2 {
		isBE := data[0] == 0xFE && data[1] == 0xFF
		isLE := data[0] == 0xFF && data[1] == 0xFE
		if isBE || isLE {
			dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
			if out, _, err := transform.Bytes(dec, data); err == nil {
				return string(out)
			}
		}
	}
	// Strip a UTF-8 BOM if present.
	return string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

// block is one structural unit collected from markup, ordered by its byte
// offset in the source so document order survives.
type block struct {
	offset  int
	end     int
	heading int // 0 for body text, 1-6 for headings
	text    string
}

// markupToText strips an XHTML spine item down to its readable text.
// Headings keep a tag marker so the structural hierarchy survives into the
// text layer; paragraph-like blocks contribute plain text. When no
// structured content is found the whole body is flattened instead.
func markupToText(markup string) string {
	markup = scriptBlock.ReplaceAllString(markup, "")
	markup = styleBlock.ReplaceAllString(markup, "")
	markup = commentTag.ReplaceAllString(markup, "")

	var blocks []block

	for _, m := range headingBlock.FindAllStringSubmatchIndex(markup, -1) {
		level := int(markup[m[2]] - '0')
		text := flattenInline(markup[m[4]:m[5]])
		if text != "" {
			blocks = append(blocks, block{offset: m[0], end: m[1], heading: level, text: text})
		}
	}
	for _, m := range paraBlock.FindAllStringSubmatchIndex(markup, -1) {
		if text := flattenInline(markup[m[2]:m[3]]); text != "" {
			blocks = append(blocks, block{offset: m[0], end: m[1], text: text})
		}
	}
	for _, m := range divBlock.FindAllStringSubmatchIndex(markup, -1) {
		if covered(blocks, m[0], m[1]) {
			continue
		}
		if text := flattenInline(markup[m[2]:m[3]]); text != "" {
			blocks = append(blocks, block{offset: m[0], end: m[1], text: text})
		}
	}

	if len(blocks) == 0 {
		return flattenBody(markup)
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].offset < blocks[j].offset })

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.heading > 0 {
			parts = append(parts, fmt.Sprintf("<h%d>%s</h%d>", b.heading, b.text, b.heading))
		} else {
			parts = append(parts, b.text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// covered reports whether a candidate match overlaps an already-collected
// block, so a div wrapping paragraphs is not collected twice.
func covered(blocks []block, start, end int) bool {
	for _, b := range blocks {
		if start < b.end && end > b.offset {
			return true
		}
	}
	return false
}

// flattenInline strips nested tags and entities from inline markup.
func flattenInline(s string) string {
	s = innerTag.ReplaceAllString(s, " ")
	s = decode.HTMLEntities(s)
	return strings.Join(strings.Fields(s), " ")
}

// flattenBody extracts all text nodes from the document body. It parses the
// markup properly so broken or unusual structure still yields text.
func flattenBody(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return flattenInline(markup)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
