package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a durable keyed store for scoring responses. A ttl of zero
// means the entry never expires; stored entries are treated as immutable.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the content-addressed cache key for one scoring call.
// Identical (model, prompt) pairs always resolve to the same key.
func Key(model, prompt string) string {
	hash := sha256.Sum256([]byte(model + "|" + prompt))
	return "tabhound:v1:" + hex.EncodeToString(hash[:])
}
