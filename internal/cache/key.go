package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// GenerateCacheKey derives a stable key from the provider, limit and text.
func GenerateCacheKey(provider string, limit int, text string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(limit)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
