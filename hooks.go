package phrasecache

// Hooks are lightweight callbacks for high-signal cache events, meant for an
// external telemetry collaborator. Implementations MUST be cheap and
// non-blocking - the cache calls them while holding its structural lock.
// Wrap with hooks/async if a sink can stall.
type Hooks interface {
	// Hit/Miss fire once per Lookup, after the pair's table is populated.
	Hit(domain, language, key string)
	Miss(domain, language, key string)

	// LoadError: the authoritative source failed mid-load; the table keeps
	// whatever entries arrived.
	LoadError(domain, language string, err error)

	// Snapshot lifecycle. SnapshotRestored reports the number of domains
	// adopted from disk; SnapshotSaveError fires when a save was dropped.
	SnapshotRestored(domains int)
	SnapshotSaveError(err error)

	// MutationDeferred: a Reset/Reload was short-circuited by an active
	// batch scope. op is one of "reset", "reload_domain", "reload_all".
	MutationDeferred(op string)

	// Invalidated reports how many tables actually dropped the key.
	Invalidated(key string, scope Scope, removed int)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Hit(string, string, string)      {}
func (NopHooks) Miss(string, string, string)     {}
func (NopHooks) LoadError(string, string, error) {}
func (NopHooks) SnapshotRestored(int)            {}
func (NopHooks) SnapshotSaveError(error)         {}
func (NopHooks) MutationDeferred(string)         {}
func (NopHooks) Invalidated(string, Scope, int)  {}

// JoinHooks fans one event out to several sinks, in order.
func JoinHooks(hs ...Hooks) Hooks { return joined(hs) }

type joined []Hooks

func (j joined) Hit(d, l, k string) {
	for _, h := range j {
		h.Hit(d, l, k)
	}
}
func (j joined) Miss(d, l, k string) {
	for _, h := range j {
		h.Miss(d, l, k)
	}
}
func (j joined) LoadError(d, l string, err error) {
	for _, h := range j {
		h.LoadError(d, l, err)
	}
}
func (j joined) SnapshotRestored(n int) {
	for _, h := range j {
		h.SnapshotRestored(n)
	}
}
func (j joined) SnapshotSaveError(err error) {
	for _, h := range j {
		h.SnapshotSaveError(err)
	}
}
func (j joined) MutationDeferred(op string) {
	for _, h := range j {
		h.MutationDeferred(op)
	}
}
func (j joined) Invalidated(k string, s Scope, n int) {
	for _, h := range j {
		h.Invalidated(k, s, n)
	}
}
