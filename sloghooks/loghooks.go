// Package sloghooks is a phrasecache.Hooks implementation that logs cache
// events through log/slog, with sampling on the hot-path events so a busy
// cache does not flood the sink.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/phrasecache"
)

type Options struct {
	// Sampling for the per-lookup events; 0 or 1 = log all.
	HitEvery  uint64
	MissEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ phrasecache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(domain, language, key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("phrase cache hit",
		slog.String("domain", domain), slog.String("language", language), slog.String("key", key))
}

func (h *Hooks) Miss(domain, language, key string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("phrase cache miss",
		slog.String("domain", domain), slog.String("language", language), slog.String("key", key))
}

func (h *Hooks) LoadError(domain, language string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("authoritative load failed",
		slog.String("domain", domain), slog.String("language", language), slog.Any("err", err))
}

func (h *Hooks) SnapshotRestored(domains int) {
	if h.l == nil {
		return
	}
	h.l.Info("snapshot restored", slog.Int("domains", domains))
}

func (h *Hooks) SnapshotSaveError(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("snapshot save failed", slog.Any("err", err))
}

func (h *Hooks) MutationDeferred(op string) {
	if h.l == nil {
		return
	}
	h.l.Info("cache mutation deferred by batch scope", slog.String("op", op))
}

func (h *Hooks) Invalidated(key string, scope phrasecache.Scope, removed int) {
	if h.l == nil {
		return
	}
	h.l.Debug("phrase invalidated",
		slog.String("key", key),
		slog.String("domain", scope.Domain),
		slog.String("language", scope.Language),
		slog.Int("removed", removed))
}
