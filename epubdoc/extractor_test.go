package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

type zipEntry struct {
	name string
	data []byte
}

// buildEPUB assembles an in-memory EPUB from the given entries in order.
func buildEPUB(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	mw, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatal(err)
	}
	mw.Write([]byte("application/epub+zip"))

	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(e.data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

func opfXML(manifest, spine string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Test Author</dc:creator>
  </metadata>
  <manifest>` + manifest + `</manifest>
  <spine>` + spine + `</spine>
</package>`)
}

// chapterXHTML produces a chapter with roughly n*7 words.
func chapterXHTML(title string, n int) []byte {
	var sb strings.Builder
	sb.WriteString("<html><head><title>x</title></head><body><h2>" + title + "</h2>")
	for i := 0; i < n; i++ {
		sb.WriteString("<p>The lighthouse keeper counted the ships going past.</p>")
	}
	sb.WriteString("</body></html>")
	return []byte(sb.String())
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractSuccess(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opfXML(
			`<item id="c1" href="chap1.xhtml" media-type="application/xhtml+xml"/>
			 <item id="c2" href="chap2.xhtml" media-type="application/xhtml+xml"/>
			 <item id="css" href="style.css" media-type="text/css"/>`,
			`<itemref idref="c1"/><itemref idref="c2"/>`)},
		{"OEBPS/chap1.xhtml", chapterXHTML("Chapter One", 10)},
		{"OEBPS/chap2.xhtml", chapterXHTML("Chapter Two", 10)},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if res.ExtractionFailed {
		t.Fatalf("extraction failed: %s (%s)", res.Message, res.Error)
	}
	if !strings.Contains(res.Text, "<h2>Chapter One</h2>") {
		t.Errorf("heading marker missing from text: %q", res.Text[:min(120, len(res.Text))])
	}
	if !strings.Contains(res.Text, "lighthouse keeper") {
		t.Error("paragraph text missing")
	}
	if one, two := strings.Index(res.Text, "Chapter One"), strings.Index(res.Text, "Chapter Two"); one > two {
		t.Error("spine order not preserved")
	}
	if res.Metadata.Chapters != 2 {
		t.Errorf("Chapters = %d, want 2", res.Metadata.Chapters)
	}
	if res.Metadata.Title != "Test Book" || res.Metadata.Creator != "Test Author" {
		t.Errorf("package metadata not captured: %+v", res.Metadata)
	}
	if len(res.OriginalPages) != 2 {
		t.Fatalf("OriginalPages = %d, want 2", len(res.OriginalPages))
	}
	for i, p := range res.OriginalPages {
		if p.ID != i {
			t.Errorf("page %d has ID %d", i, p.ID)
		}
		if p.Type != "html" {
			t.Errorf("page %d type = %q", i, p.Type)
		}
	}
}

func TestExtractBelowWordThreshold(t *testing.T) {
	// Valid structure and valid text, but under 100 words total: the
	// extraction is reported failed while fallback pages are kept.
	data := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opfXML(
			`<item id="c1" href="chap1.xhtml" media-type="application/xhtml+xml"/>`,
			`<itemref idref="c1"/>`)},
		{"OEBPS/chap1.xhtml", []byte("<html><body><p>Hello world, this is a test.</p></body></html>")},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ExtractionFailed {
		t.Fatal("expected ExtractionFailed below the word threshold")
	}
	if res.Text != "" {
		t.Errorf("failed result must not carry text, got %q", res.Text)
	}
	if len(res.OriginalPages) != 1 {
		t.Fatalf("fallback pages missing: %d", len(res.OriginalPages))
	}
	if !strings.Contains(res.OriginalPages[0].Content, "Hello world, this is a test.") {
		t.Error("original markup not preserved")
	}
}

func TestExtractNotZip(t *testing.T) {
	_, err := Extract([]byte("definitely not a zip archive"))
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("err = %v, want ErrInvalidArchive", err)
	}
}

func TestExtractMissingContainer(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"OEBPS/content.opf", opfXML(`<item id="c1" href="c.xhtml" media-type="application/xhtml+xml"/>`, `<itemref idref="c1"/>`)},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ExtractionFailed || res.Error == "" {
		t.Errorf("expected structural failure result, got %+v", res)
	}
}

func TestExtractEmptySpine(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opfXML(`<item id="c1" href="c.xhtml" media-type="application/xhtml+xml"/>`, ``)},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ExtractionFailed {
		t.Fatal("expected failure for empty spine")
	}
	if !strings.Contains(res.Error, "spine") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestExtractDRM(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"META-INF/rights.xml", []byte("<rights/>")},
		{"META-INF/container.xml", []byte(containerXML)},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ExtractionFailed || !strings.Contains(res.Message, "DRM") {
		t.Errorf("expected DRM failure, got %+v", res)
	}
}

func TestExtractCoverFromManifestProperty(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opfXML(
			`<item id="img" href="art/front.png" media-type="image/png" properties="cover-image"/>
			 <item id="c1" href="chap1.xhtml" media-type="application/xhtml+xml"/>`,
			`<itemref idref="c1"/>`)},
		{"OEBPS/art/front.png", tinyPNG(t)},
		{"OEBPS/chap1.xhtml", chapterXHTML("One", 20)},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.CoverImage, "data:image/png;base64,") {
		t.Errorf("CoverImage = %.40q, want png data URI", res.CoverImage)
	}
}

func TestExtractCoverFromConventionalPath(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opfXML(
			`<item id="c1" href="chap1.xhtml" media-type="application/xhtml+xml"/>`,
			`<itemref idref="c1"/>`)},
		{"OEBPS/cover.jpg", tinyPNG(t)}, // sniffing trusts content over extension
		{"OEBPS/chap1.xhtml", chapterXHTML("One", 20)},
	})

	res, err := Extract(data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.CoverImage, "data:image/png;base64,") {
		t.Errorf("CoverImage = %.40q, want sniffed png data URI", res.CoverImage)
	}
}

func TestParsePackageAttributes(t *testing.T) {
	data := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", []byte(containerXML)},
		{"OEBPS/content.opf", opfXML(
			`<item href="a.xhtml" id="a" media-type="application/xhtml+xml"/>
			 <item media-type="text/css" id="s" href="s.css"/>`,
			`<itemref idref="a" linear="yes"/>`)},
	})
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	pkg, err := parsePackage(zr, "OEBPS/content.opf")
	if err != nil {
		t.Fatal(err)
	}
	if pkg.BasePath != "OEBPS" {
		t.Errorf("BasePath = %q", pkg.BasePath)
	}
	// Attribute order within the tag must not matter.
	if item := pkg.Manifest["a"]; item.Href != "a.xhtml" || item.MediaType != "application/xhtml+xml" {
		t.Errorf("manifest item a = %+v", item)
	}
	if item := pkg.Manifest["s"]; item.Href != "s.css" || item.MediaType != "text/css" {
		t.Errorf("manifest item s = %+v", item)
	}
	if len(pkg.Spine) != 1 || pkg.Spine[0] != "a" {
		t.Errorf("spine = %v", pkg.Spine)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
