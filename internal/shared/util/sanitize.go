package util

import (
	"errors"
	"strings"
)

const maxFileNameLen = 100

// ErrInvalidFileName is returned for blank names and traversal attempts.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName turns an uploaded file name into a single object-key
// segment: separators and anything outside [A-Za-z0-9._-] become '_', and the
// result is capped at 100 bytes, keeping the extension.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()

	if len(out) > maxFileNameLen {
		ext := ""
		if i := strings.LastIndexByte(out, '.'); i > 0 && len(out)-i <= 10 {
			ext = out[i:]
		}
		out = out[:maxFileNameLen-len(ext)] + ext
	}
	if strings.Trim(out, "._") == "" {
		return "", ErrInvalidFileName
	}
	return out, nil
}
