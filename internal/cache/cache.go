// Package cache provides the in-memory page cache used during input
// acquisition. Verification results are never cached; only fetched and
// cleaned article text is, so repeated checks of the same URL within a
// run do not refetch the page.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface the fetcher stores pages behind.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Clear() error
}

// Key derives a stable cache key from a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "claimlens:v1:" + hex.EncodeToString(hash[:])
}
