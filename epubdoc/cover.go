package epubdoc

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"image"
	"path"
	"sort"
	"strings"

	// Registered for cover sniffing via image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// conventionalCoverPaths is the fixed probe list used when the manifest
// declares no cover. Order matters: the first existing entry wins, and the
// order is part of the compatibility surface.
var conventionalCoverPaths = []string{
	"OEBPS/cover.jpg",
	"OEBPS/cover.jpeg",
	"OEBPS/cover.png",
	"OEBPS/images/cover.jpg",
	"OEBPS/images/cover.png",
	"OEBPS/Images/cover.jpg",
	"cover.jpg",
	"cover.jpeg",
	"cover.png",
	"images/cover.jpg",
	"images/cover.png",
}

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// extractCover locates the cover image and returns it as a base64 data URI.
// Absence is not an error; the empty string means no cover.
func extractCover(zr *zip.Reader, pkg *Package) string {
	// Map iteration is randomized; sort ids so candidate selection is
	// stable across runs.
	ids := make([]string, 0, len(pkg.Manifest))
	for id := range pkg.Manifest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Preferred: the EPUB 3 cover-image property.
	for _, id := range ids {
		if item := pkg.Manifest[id]; hasProperty(item.Properties, "cover-image") {
			if uri := loadCoverFile(zr, pkg.resolveHref(item.Href)); uri != "" {
				return uri
			}
		}
	}

	// Next: manifest hrefs that look like covers.
	for _, id := range ids {
		item := pkg.Manifest[id]
		href := strings.ToLower(item.Href)
		if !strings.Contains(href, "cover") && !strings.Contains(href, "title") {
			continue
		}
		if !isImageItem(item) {
			continue
		}
		if uri := loadCoverFile(zr, pkg.resolveHref(item.Href)); uri != "" {
			return uri
		}
	}

	// Last resort: conventional locations.
	for _, p := range conventionalCoverPaths {
		if uri := loadCoverFile(zr, p); uri != "" {
			return uri
		}
	}

	return ""
}

func hasProperty(properties, want string) bool {
	for _, p := range strings.Fields(properties) {
		if p == want {
			return true
		}
	}
	return false
}

func isImageItem(item ManifestItem) bool {
	if strings.HasPrefix(item.MediaType, "image/") {
		return true
	}
	_, ok := imageExtensions[strings.ToLower(path.Ext(item.Href))]
	return ok
}

// loadCoverFile reads an image file and encodes it as a data URI. The MIME
// type comes from decoding the image header when possible, falling back to
// the file extension.
func loadCoverFile(zr *zip.Reader, name string) string {
	data, err := readFile(zr, name)
	if err != nil || len(data) == 0 {
		return ""
	}

	mime := ""
	if _, kind, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		mime = "image/" + kind
	} else if ext, ok := imageExtensions[strings.ToLower(path.Ext(name))]; ok {
		mime = ext
	} else {
		return ""
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
