package shares

import (
	"crypto/rand"
	"fmt"
)

const (
	idLength   = 8
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
)

// NewID returns an idLength id drawn uniformly from the URL-safe alphabet.
func NewID() (string, error) {
	var buf [idLength]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	out := make([]byte, idLength)
	for i, b := range buf {
		// 64 symbols divide 256 evenly, so masking keeps the distribution uniform.
		out[i] = idAlphabet[b&63]
	}
	return string(out), nil
}

// ValidID reports whether id has the shape NewID produces.
func ValidID(id string) bool {
	if len(id) != idLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
