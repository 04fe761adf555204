package validator

import "strings"

// Largest photo accepted by the submission endpoint
const MaxImageSize = 10 << 20

func ValidateImageSize(size int64) bool {
	return size > 0 && size <= MaxImageSize
}

// Mirrors the `accept="image/*"` filter of a file picker
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
