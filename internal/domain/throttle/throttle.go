// Package throttle defines the admission gate guarding rating submissions.
package throttle

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Gate decides whether a submission fingerprint may proceed to storage.
type Gate interface {
	// Admit atomically checks and updates the attempt count for fingerprint.
	// Returns true if the submission may proceed, false if it is throttled.
	// It never blocks: when the gate's lock is contended the submission is
	// admitted without touching the counter. Availability is preferred over
	// exact accounting; the gate exists for coarse abuse mitigation only.
	Admit(ctx context.Context, fingerprint string) bool

	Len() int
}

// Fingerprint derives the throttling key for a submission. The rating value
// is deliberately excluded so that repeated attempts with different ratings
// on the same tuple share one counter.
func Fingerprint(clientID, collectionID, setCode, cardCode, formatID string) string {
	var b strings.Builder
	b.Grow(len(clientID) + len(collectionID) + len(setCode) + len(cardCode) + len(formatID) + 4)
	b.WriteString(clientID)
	b.WriteByte('|')
	b.WriteString(collectionID)
	b.WriteByte('|')
	b.WriteString(setCode)
	b.WriteByte('|')
	b.WriteString(cardCode)
	b.WriteByte('|')
	b.WriteString(formatID)
	return b.String()
}

// lruGate implements Gate with a fixed-capacity LRU of attempt counters.
// Entries are never deleted explicitly; recency-based eviction is the only
// way a fingerprint's count resets.
type lruGate struct {
	mu      sync.Mutex
	cache   *simplelru.LRU[string, int]
	ceiling int
}

// NewLRUGate creates a gate with configuration options.
func NewLRUGate(opts ...Option) Gate {
	cfg := gateConfig{
		capacity: 20000,
		ceiling:  4,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// simplelru only errors on a non-positive size, which the config guards.
	cache, err := simplelru.NewLRU[string, int](cfg.capacity, nil)
	if err != nil {
		panic(err)
	}
	return &lruGate{cache: cache, ceiling: cfg.ceiling}
}

// Admit implements Gate.
func (g *lruGate) Admit(_ context.Context, fingerprint string) bool {
	if !g.mu.TryLock() {
		// Contended: admit without counting rather than queue the request.
		return true
	}
	defer g.mu.Unlock()

	count, ok := g.cache.Get(fingerprint)
	switch {
	case !ok:
		g.cache.Add(fingerprint, 1)
		return true
	case count < g.ceiling:
		g.cache.Add(fingerprint, count+1)
		return true
	default:
		return false
	}
}

// Len returns the number of fingerprints currently tracked.
func (g *lruGate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cache.Len()
}
