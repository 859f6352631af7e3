package utils

import "strings"

// imageExtensions maps the image MIME types accepted for upload to the extension
// used when building the original blob key.
var imageExtensions = map[string]string{
	"image/avif": ".avif",
	"image/bmp":  ".bmp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/tiff": ".tif",
	"image/webp": ".webp",
}

func cleanMimeType(mimeType string) string {
	// Remove charset or other parameters (e.g., "image/png; charset=binary")
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

// GetExtensionFromMimeType returns a common file extension for a given MIME type.
// If no specific extension is found, it defaults to ".bin".
func GetExtensionFromMimeType(mimeType string) string {
	if ext, ok := imageExtensions[cleanMimeType(mimeType)]; ok {
		return ext
	}

	return ".bin"
}

// IsImageMimeType reports whether mimeType is an image type the processor can ingest.
func IsImageMimeType(mimeType string) bool {
	_, ok := imageExtensions[cleanMimeType(mimeType)]

	return ok
}
