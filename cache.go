package phrasecache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	snapst "github.com/unkn0wn-root/phrasecache/snapshot"
	src "github.com/unkn0wn-root/phrasecache/source"
)

type cache struct {
	ns     string
	source src.Source
	snap   *snapst.Store[Table] // nil when snapshots are disabled
	log    Logger
	hooks  Hooks

	// mu orders every structural mutation of table: create, populate, clear,
	// reload. Coarse on purpose - loads are rare next to lookups and have to
	// be serialized anyway to keep them at-most-once per pair, and the warm
	// read path only needs a short critical section.
	mu       sync.Mutex
	table    Table
	restored bool // snapshot restore attempted (or made moot by a reset)

	pending atomic.Bool
}

func newCache(opts Options) (*cache, error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("phrasecache: %w", ErrNoNamespace)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("phrasecache: %w", ErrNoSource)
	}

	c := &cache{
		ns:     opts.Namespace,
		source: opts.Source,
		table:  make(Table),
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if !opts.DisableSnapshot {
		store := opts.Snapshot
		if store == nil {
			s, err := DefaultSnapshotStore(opts.Namespace)
			if err != nil {
				return nil, fmt.Errorf("phrasecache: default snapshot store: %w", err)
			}
			store = s
		}
		c.snap = store
	}
	return c, nil
}

func (c *cache) Close(context.Context) error { return nil }

func (c *cache) Lookup(ctx context.Context, domain, languageID, key string) (string, bool) {
	if !c.requireArgs(Fields{"domain": domain, "language": languageID, "key": key}) {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	lt, loadedNow := c.ensureLoadedLocked(ctx, domain, languageID)
	if loadedNow {
		c.persistLocked(ctx)
	}

	v, ok := lt.Entries[key]
	if ok {
		c.hooks.Hit(domain, languageID, key)
	} else {
		c.hooks.Miss(domain, languageID, key)
	}
	return v, ok
}

func (c *cache) Store(ctx context.Context, domain, languageID, key, phrase string) {
	if languageID == LanguageInvariant {
		// an invariant value has no single table to live in; writing it to
		// one language would silently corrupt the others
		c.log.Warn("invariant-language store dropped", Fields{"domain": domain, "key": key})
		return
	}
	if !c.requireArgs(Fields{"domain": domain, "key": key}) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	dt := c.table[domain]
	if dt == nil {
		dt = make(DomainTable)
		c.table[domain] = dt
	}
	lt := dt[languageID]
	if lt == nil {
		lt = newLanguageTable()
		dt[languageID] = lt
	}
	lt.Entries[key] = phrase
	c.persistLocked(ctx)
}

func (c *cache) Invalidate(ctx context.Context, key string, scope Scope) {
	if !c.requireArgs(Fields{"key": key}) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	removed := 0
	for d, dt := range c.table {
		if scope.Domain != "" && scope.Domain != d {
			continue
		}
		for l, lt := range dt {
			if scope.Language != LanguageInvariant && scope.Language != l {
				continue
			}
			if _, ok := lt.Entries[key]; ok {
				delete(lt.Entries, key)
				removed++
			}
		}
	}
	if removed > 0 {
		c.persistLocked(ctx)
	}
	c.hooks.Invalidated(key, scope, removed)
}

func (c *cache) CachedDomains(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	out := make([]string, 0, len(c.table))
	for d := range c.table {
		if !validDomain(d) {
			continue
		}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (c *cache) CachedLanguages(ctx context.Context, domain string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	dt := c.table[domain]
	out := make([]string, 0, len(dt))
	for l := range dt {
		// stored keys may predate this process; skip anything that does not
		// parse as a language tag rather than surfacing it
		if _, err := language.Parse(l); err != nil {
			continue
		}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (c *cache) Reset(ctx context.Context, deleteSnapshot bool) {
	if c.deferIfBatched(ctx, "reset") {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(ctx, deleteSnapshot)
	c.pending.Store(false)
}

func (c *cache) ReloadDomain(ctx context.Context, domain string) {
	if !c.requireArgs(Fields{"domain": domain}) {
		return
	}
	if c.deferIfBatched(ctx, "reload_domain") {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	dt := c.table[domain]
	if dt == nil {
		c.pending.Store(false)
		return
	}
	warm := make([]string, 0, len(dt))
	for l := range dt {
		warm = append(warm, l)
	}
	sort.Strings(warm)

	delete(c.table, domain)
	for _, l := range warm {
		c.ensureLoadedLocked(ctx, domain, l)
	}
	c.persistLocked(ctx)
	c.pending.Store(false)
}

func (c *cache) ReloadAll(ctx context.Context) {
	if c.deferIfBatched(ctx, "reload_all") {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)

	type pair struct{ domain, language string }
	var warm []pair
	for d, dt := range c.table {
		for l := range dt {
			warm = append(warm, pair{d, l})
		}
	}
	sort.Slice(warm, func(i, j int) bool {
		if warm[i].domain != warm[j].domain {
			return warm[i].domain < warm[j].domain
		}
		return warm[i].language < warm[j].language
	})

	c.resetLocked(ctx, false)
	for _, p := range warm {
		c.ensureLoadedLocked(ctx, p.domain, p.language)
	}
	c.persistLocked(ctx)
	c.pending.Store(false)
}

func (c *cache) PendingReload() bool { return c.pending.Load() }

// ensureLoadedLocked runs the lazy-load protocol for one pair. Caller holds
// mu. The empty table is published in c.table before any source I/O, so a
// concurrent miss arriving now queues on mu instead of starting a second
// load; the Loaded re-check under the lock is what keeps loads at-most-once.
// Returns the table and whether a load actually ran.
func (c *cache) ensureLoadedLocked(ctx context.Context, domain, languageID string) (*LanguageTable, bool) {
	dt := c.table[domain]
	if dt == nil {
		dt = make(DomainTable)
		c.table[domain] = dt
	}
	lt := dt[languageID]
	if lt != nil && (lt.Loaded || len(lt.Entries) > 0) {
		return lt, false
	}
	if lt == nil {
		lt = newLanguageTable()
		dt[languageID] = lt
	}

	entries, err := c.source.Load(ctx, domain, languageID)
	if err != nil {
		// recoverable: keep whatever arrived, the caller gets what there is
		c.log.Warn("authoritative load failed", Fields{
			"domain": domain, "language": languageID, "err": err,
		})
		c.hooks.LoadError(domain, languageID, err)
	}
	for _, e := range entries {
		lt.Entries[e.Key] = e.Value
	}
	// a clean load marks the table loaded even when empty, so the next miss
	// does not re-fetch; a failed empty load stays retryable
	lt.Loaded = err == nil || len(lt.Entries) > 0
	c.log.Debug("language table populated", Fields{
		"namespace": c.ns, "domain": domain, "language": languageID, "entries": len(lt.Entries),
	})
	return lt, true
}

func (c *cache) resetLocked(ctx context.Context, deleteSnapshot bool) {
	if deleteSnapshot && c.snap != nil {
		if err := c.snap.Delete(ctx); err != nil {
			c.log.Warn("snapshot delete failed", Fields{"err": err})
		}
	}
	c.table = make(Table)
	// a cleared table must not be resurrected from a stale file
	c.restored = true
	c.log.Debug("cache table cleared", Fields{"namespace": c.ns, "snapshotDeleted": deleteSnapshot})
}

// restoreLocked adopts the on-disk snapshot once, on first access. Any
// failure is treated as "no snapshot": the file is an optimization, never a
// source of truth.
func (c *cache) restoreLocked(ctx context.Context) {
	if c.restored {
		return
	}
	c.restored = true
	if c.snap == nil {
		return
	}
	t, ok, err := c.snap.Load(ctx)
	if err != nil {
		c.log.Warn("snapshot restore failed, rebuilding from source", Fields{"err": err})
		return
	}
	if !ok {
		return
	}
	t.normalize()
	c.table = t
	c.hooks.SnapshotRestored(len(t))
}

func (c *cache) persistLocked(ctx context.Context) {
	if c.snap == nil {
		return
	}
	if err := c.snap.Save(ctx, c.table); err != nil {
		c.log.Warn("snapshot save failed", Fields{"err": err})
		c.hooks.SnapshotSaveError(err)
	}
}

func (c *cache) deferIfBatched(ctx context.Context, op string) bool {
	if !BatchActive(ctx) {
		return false
	}
	c.pending.Store(true)
	c.log.Debug("structural mutation deferred by batch scope", Fields{"op": op})
	c.hooks.MutationDeferred(op)
	return true
}

// requireArgs logs a contract violation when any field is empty. The empty
// string is never a valid domain, language or key here.
func (c *cache) requireArgs(f Fields) bool {
	for name, v := range f {
		if s, _ := v.(string); s == "" {
			c.log.Error("contract violation: empty argument", Fields{"arg": name})
			return false
		}
	}
	return true
}

func validDomain(d string) bool {
	if d == "" {
		return false
	}
	for _, r := range d {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
