// Package stats is an in-process phrasecache.Hooks implementation keeping
// hit/miss counters per (domain, language) pair for a telemetry collector to
// scrape. Counters for pairs gone cold can be pruned on a retention window.
package stats

import (
	"sync"
	"time"

	"github.com/unkn0wn-root/phrasecache"
)

// Pair identifies one counter bucket.
type Pair struct {
	Domain   string
	Language string
}

// Counters is one bucket's totals.
type Counters struct {
	Hits       uint64
	Misses     uint64
	LoadErrors uint64
}

type bucket struct {
	Counters
	UpdatedAt time.Time
}

// Collector accumulates counts. The zero value is not usable; construct with
// New. Safe for concurrent use.
type Collector struct {
	mu      sync.RWMutex
	buckets map[Pair]bucket

	deferred  uint64
	saveFails uint64
}

var _ phrasecache.Hooks = (*Collector)(nil)

func New() *Collector {
	return &Collector{buckets: make(map[Pair]bucket)}
}

func (c *Collector) bump(p Pair, f func(*Counters)) {
	now := time.Now()
	c.mu.Lock()
	b := c.buckets[p]
	f(&b.Counters)
	b.UpdatedAt = now
	c.buckets[p] = b
	c.mu.Unlock()
}

func (c *Collector) Hit(domain, language, _ string) {
	c.bump(Pair{domain, language}, func(ct *Counters) { ct.Hits++ })
}

func (c *Collector) Miss(domain, language, _ string) {
	c.bump(Pair{domain, language}, func(ct *Counters) { ct.Misses++ })
}

func (c *Collector) LoadError(domain, language string, _ error) {
	c.bump(Pair{domain, language}, func(ct *Counters) { ct.LoadErrors++ })
}

func (c *Collector) SnapshotRestored(int) {}

func (c *Collector) SnapshotSaveError(error) {
	c.mu.Lock()
	c.saveFails++
	c.mu.Unlock()
}

func (c *Collector) MutationDeferred(string) {
	c.mu.Lock()
	c.deferred++
	c.mu.Unlock()
}

func (c *Collector) Invalidated(string, phrasecache.Scope, int) {}

// Snapshot copies every bucket. The map is the caller's to keep.
func (c *Collector) Snapshot() map[Pair]Counters {
	c.mu.RLock()
	out := make(map[Pair]Counters, len(c.buckets))
	for p, b := range c.buckets {
		out[p] = b.Counters
	}
	c.mu.RUnlock()
	return out
}

// Totals sums every bucket plus the global counters.
func (c *Collector) Totals() (hits, misses, deferred, saveFails uint64) {
	c.mu.RLock()
	for _, b := range c.buckets {
		hits += b.Hits
		misses += b.Misses
	}
	deferred = c.deferred
	saveFails = c.saveFails
	c.mu.RUnlock()
	return
}

// Prune drops buckets untouched for longer than retention.
func (c *Collector) Prune(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	c.mu.Lock()
	for p, b := range c.buckets {
		if !b.UpdatedAt.IsZero() && b.UpdatedAt.Before(cutoff) {
			delete(c.buckets, p)
		}
	}
	c.mu.Unlock()
}
