package epubdoc

import (
	"archive/zip"
	"io"
	"path"
	"regexp"
	"strings"
)

var (
	rootfilePath = regexp.MustCompile(`<rootfile[^>]*full-path\s*=\s*"([^"]+)"`)
	manifestItem = regexp.MustCompile(`<item\s[^>]*>`)
	spineItemref = regexp.MustCompile(`<itemref\s[^>]*>`)
	xmlAttr      = regexp.MustCompile(`([\w:-]+)\s*=\s*"([^"]*)"`)
	dcTitle      = regexp.MustCompile(`(?s)<dc:title[^>]*>(.*?)</dc:title>`)
	dcCreator    = regexp.MustCompile(`(?s)<dc:creator[^>]*>(.*?)</dc:creator>`)
)

// parseContainer reads META-INF/container.xml and returns the package
// document path.
func parseContainer(zr *zip.Reader) (string, error) {
	data, err := readFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", ErrNoContainer
	}

	m := rootfilePath.FindSubmatch(data)
	if m == nil {
		return "", ErrNoRootfile
	}
	return string(m[1]), nil
}

// parsePackage reads the package document and builds the manifest and spine.
func parsePackage(zr *zip.Reader, opfPath string) (*Package, error) {
	data, err := readFile(zr, opfPath)
	if err != nil {
		return nil, ErrNoPackage
	}
	src := string(data)

	base := path.Dir(opfPath)
	if base == "." {
		base = ""
	}

	pkg := &Package{
		Manifest: make(map[string]ManifestItem),
		BasePath: base,
	}

	for _, tag := range manifestItem.FindAllString(src, -1) {
		attrs := parseAttrs(tag)
		id := attrs["id"]
		if id == "" || attrs["href"] == "" {
			continue
		}
		pkg.Manifest[id] = ManifestItem{
			Href:       attrs["href"],
			MediaType:  attrs["media-type"],
			Properties: attrs["properties"],
		}
	}

	for _, tag := range spineItemref.FindAllString(src, -1) {
		attrs := parseAttrs(tag)
		if idref := attrs["idref"]; idref != "" {
			pkg.Spine = append(pkg.Spine, idref)
		}
	}

	if len(pkg.Spine) == 0 {
		return nil, ErrEmptySpine
	}

	if m := dcTitle.FindStringSubmatch(src); m != nil {
		pkg.Title = strings.TrimSpace(m[1])
	}
	if m := dcCreator.FindStringSubmatch(src); m != nil {
		pkg.Creator = strings.TrimSpace(m[1])
	}

	return pkg, nil
}

// parseAttrs extracts attribute key/value pairs from a single element tag.
func parseAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range xmlAttr.FindAllStringSubmatch(tag, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}

// resolveHref joins a manifest href with the package base path.
func (p *Package) resolveHref(href string) string {
	if p.BasePath == "" {
		return href
	}
	return path.Join(p.BasePath, href)
}

// readFile reads one file from the archive by exact name.
func readFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, ErrMissingFile
}
