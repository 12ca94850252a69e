package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ContentHash returns the deduplication fingerprint for content: a
// SHA-256 digest truncated to 16 hex characters. Only byte-identical
// content collides on purpose; near-duplicates are not detected.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

// noveltyRegistry tracks fingerprints of recently approved content
// inside a rolling window. One registry belongs to one validator.
type noveltyRegistry struct {
	window time.Duration
	seen   map[string]time.Time
}

func newNoveltyRegistry(window time.Duration) *noveltyRegistry {
	return &noveltyRegistry{
		window: window,
		seen:   map[string]time.Time{},
	}
}

func (r *noveltyRegistry) prune(now time.Time) {
	for hash, seenAt := range r.seen {
		if now.Sub(seenAt) >= r.window {
			delete(r.seen, hash)
		}
	}
}

func (r *noveltyRegistry) lastSeen(hash string, now time.Time) (time.Time, bool) {
	seenAt, ok := r.seen[hash]
	if !ok || now.Sub(seenAt) >= r.window {
		return time.Time{}, false
	}
	return seenAt, true
}

func (r *noveltyRegistry) remember(hash string, now time.Time) {
	r.seen[hash] = now
}
