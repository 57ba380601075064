package phrasecache

import (
	"context"

	cod "github.com/unkn0wn-root/phrasecache/codec"
	"github.com/unkn0wn-root/phrasecache/snapshot"
	src "github.com/unkn0wn-root/phrasecache/source"
)

// LanguageInvariant is the language-independent identifier. Stores targeting
// it are rejected (there is no single table an invariant value could live in);
// as an Invalidate scope it widens to every language of the domain.
const LanguageInvariant = ""

// Scope narrows an Invalidate call. The zero value means "every language of
// every cached domain". Domain alone (Language left invariant) means every
// language of that domain; both set means exactly one table.
type Scope struct {
	Domain   string
	Language string
}

// Cache is the translation cache core. All methods are safe for unlimited
// concurrent callers; structural mutation is totally ordered by one internal
// mutex, so a populated language table is always observed whole.
type Cache interface {
	// Lookup resolves (domain, language, key). When the pair's table is not
	// yet populated it loads synchronously from the source first; the table
	// becomes visible to other callers only once filled. Lookup never fails
	// because the source is unreachable - it degrades to found=false.
	Lookup(ctx context.Context, domain, language, key string) (phrase string, found bool)

	// Store writes a single phrase into the pair's table. Invariant-language
	// writes are logged and dropped.
	Store(ctx context.Context, domain, language, key, phrase string)

	// Invalidate removes key from every table selected by scope. Tables that
	// were never populated are left alone (no load is triggered).
	Invalidate(ctx context.Context, key string, scope Scope)

	// CachedDomains and CachedLanguages report the currently-populated table
	// keys, sorted. Identifiers that fail parse validation are skipped.
	CachedDomains(ctx context.Context) []string
	CachedLanguages(ctx context.Context, domain string) []string

	// Reset clears the whole table, optionally deleting the snapshot file
	// first. Inside a batch scope it only raises the pending-reload flag.
	Reset(ctx context.Context, deleteSnapshot bool)

	// ReloadDomain drops one domain and re-loads exactly the languages that
	// were warm, so nothing new is pre-warmed. Batch-deferred like Reset.
	ReloadDomain(ctx context.Context, domain string)

	// ReloadAll snapshots the warm (domain, language) pairs, clears the
	// table and re-loads exactly those pairs. Batch-deferred like Reset.
	ReloadAll(ctx context.Context)

	// PendingReload reports whether a structural mutation was deferred by an
	// active batch scope and is still owed.
	PendingReload() bool

	Close(ctx context.Context) error
}

// Options tune the cache. Namespace and Source are required; everything else
// has a sensible default.
type Options struct {
	// Required
	Namespace string // isolates the snapshot file, e.g. "app:prod"
	Source    src.Source

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	// Snapshot overrides the default store (CBOR file under os.TempDir(),
	// named after Namespace). Ignored when DisableSnapshot is set.
	Snapshot        *snapshot.Store[Table]
	DisableSnapshot bool
}

// New builds a Cache. The snapshot file, if present and readable, is adopted
// lazily on first access; a corrupt or stale file is treated as absent.
func New(opts Options) (Cache, error) {
	return newCache(opts)
}

// DefaultSnapshotStore is the store New falls back to: a CBOR-encoded file in
// the system temp directory, named for the namespace.
func DefaultSnapshotStore(namespace string) (*snapshot.Store[Table], error) {
	c, err := cod.NewCBOR[Table](true)
	if err != nil {
		return nil, err
	}
	return snapshot.New[Table](snapshot.DefaultPath(namespace), c)
}
