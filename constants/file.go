package constants

import "strings"

// Kind is the ingestion kind of a batch item.
type Kind string

const (
	PDF   Kind = "pdf"
	Image Kind = "image"
)

// AllowedExtensions holds the default allowed file extensions for scanning.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToKind maps a file extension to its ingestion kind.
// Returns "" for unsupported extensions.
func MapExtToKind(ext string) Kind {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return Image
	}
	return ""
}
