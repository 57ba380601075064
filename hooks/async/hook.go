// Package asynchook decouples hook sinks from the cache's hot path. Events
// are queued and delivered by worker goroutines; when the queue is full the
// event is dropped rather than blocking a lookup that holds the cache lock.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{HitEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000)
//	defer hooks.Close()
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/phrasecache"
)

type Hooks struct {
	inner phrasecache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ phrasecache.Hooks = (*Hooks)(nil)

func New(inner phrasecache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Hit(d, l, k string)  { h.try(func() { h.inner.Hit(d, l, k) }) }
func (h *Hooks) Miss(d, l, k string) { h.try(func() { h.inner.Miss(d, l, k) }) }
func (h *Hooks) LoadError(d, l string, err error) {
	h.try(func() { h.inner.LoadError(d, l, err) })
}
func (h *Hooks) SnapshotRestored(n int)    { h.try(func() { h.inner.SnapshotRestored(n) }) }
func (h *Hooks) SnapshotSaveError(e error) { h.try(func() { h.inner.SnapshotSaveError(e) }) }
func (h *Hooks) MutationDeferred(op string) {
	h.try(func() { h.inner.MutationDeferred(op) })
}
func (h *Hooks) Invalidated(k string, s phrasecache.Scope, n int) {
	h.try(func() { h.inner.Invalidated(k, s, n) })
}
