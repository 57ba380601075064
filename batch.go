package phrasecache

import "context"

type batchKey struct{}

// WithBatch marks ctx as belonging to a batch operation. While active, the
// cache's structural mutations (Reset, ReloadDomain, ReloadAll) are deferred:
// they raise the pending-reload flag instead of mutating anything, and the
// caller performs them after the batch by polling PendingReload.
func WithBatch(ctx context.Context) context.Context {
	return context.WithValue(ctx, batchKey{}, true)
}

// BatchActive reports whether ctx carries an active batch scope.
func BatchActive(ctx context.Context) bool {
	active, _ := ctx.Value(batchKey{}).(bool)
	return active
}
