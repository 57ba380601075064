package phrasecache

import "errors"

// Contract violations: these indicate a programming error by the caller, not
// an environment failure, and are surfaced immediately. Environment failures
// (snapshot I/O, source outages) are never returned from the cache - they are
// logged, reported through Hooks and degrade to a miss.
var (
	ErrNoNamespace = errors.New("namespace is required")
	ErrNoSource    = errors.New("source is required")
	ErrNoCache     = errors.New("cache is required")
)
