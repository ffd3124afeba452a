// Package cache stores extraction service responses so repeated
// submissions of the same document skip the network.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching raw response bodies
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ExtractionKey derives a cache key from everything that shapes a response
func ExtractionKey(text, examplesType, modelID string) string {
	h := sha256.New()
	for _, part := range []string{text, examplesType, modelID} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "extractlens:v1:" + hex.EncodeToString(h.Sum(nil))
}
