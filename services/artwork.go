package services

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// artworkDataURI encodes embedded cover art as data:image/<subtype>;base64,...
// The declared mime type is trusted when it names an image, otherwise the
// payload is sniffed. Falls back to jpeg, which is what most taggers write.
func artworkDataURI(declaredMIME string, data []byte) string {
	subtype := imageSubtype(declaredMIME)
	if subtype == "" {
		if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
			subtype = imageSubtype(detected.String())
		}
	}
	if subtype == "" {
		subtype = "jpeg"
	}

	return "data:image/" + subtype + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// imageSubtype turns "image/png", "PNG" or "jpg" into "png"/"jpeg".
// Returns "" for anything that is not an image type.
func imageSubtype(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" {
		return ""
	}

	if major, sub, ok := strings.Cut(mime, "/"); ok {
		if major != "image" || sub == "" {
			return ""
		}
		mime = sub
	}

	// ID3v2.2 PIC frames and some taggers store a bare format name
	switch mime {
	case "jpg", "jpeg", "pjpeg":
		return "jpeg"
	case "png", "gif", "bmp", "tiff", "webp":
		return mime
	case "-->":
		// link to an external file, not embedded data
		return ""
	}

	if strings.ContainsAny(mime, " ;,") {
		return ""
	}
	return mime
}
