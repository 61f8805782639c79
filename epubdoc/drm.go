package epubdoc

import (
	"archive/zip"
	"strings"
)

// checkForDRM reports whether the archive carries DRM protection we cannot
// process. Adobe rights files always mean DRM; an encryption manifest counts
// only when it references content files, since font obfuscation also uses
// it.
func checkForDRM(zr *zip.Reader) error {
	for _, f := range zr.File {
		switch f.Name {
		case "META-INF/rights.xml":
			return ErrDRMProtected
		case "META-INF/encryption.xml":
			data, err := readFile(zr, f.Name)
			if err != nil {
				return ErrDRMProtected
			}
			if encryptsContent(string(data)) {
				return ErrDRMProtected
			}
		}
	}
	return nil
}

// encryptsContent scans encryption.xml for CipherReference URIs that point
// at content documents rather than obfuscated fonts.
func encryptsContent(src string) bool {
	for _, tag := range xmlAttr.FindAllStringSubmatch(src, -1) {
		if !strings.EqualFold(tag[1], "URI") {
			continue
		}
		uri := strings.ToLower(tag[2])
		if strings.HasSuffix(uri, ".xhtml") || strings.HasSuffix(uri, ".html") ||
			strings.HasSuffix(uri, ".htm") || strings.HasSuffix(uri, ".xml") {
			return true
		}
	}
	return false
}
