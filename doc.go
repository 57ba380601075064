// Package phrasecache implements a lazily-populated, multi-level translation
// cache. A (domain, language, key) triple resolves to a phrase; language
// tables are filled on first miss from an authoritative hierarchical content
// source and mirrored to an on-disk snapshot for fast cold start.
//
// Components:
//   - Cache: the domain -> language -> key table with its lazy-load protocol.
//     One coarse mutex orders all structural mutation, so two concurrent
//     misses on the same (domain, language) pair trigger exactly one
//     authoritative load.
//   - source.Source: the authoritative side. TreeSource walks a content-node
//     tree and flattens dictionary entries into a flat table.
//   - snapshot.Store[V]: whole-table persistence with a pluggable Codec
//     (CBOR by default) behind a path-scoped file lock.
//   - Resolver: the lookup surface (by key, key+language, key+domain+options)
//     with fallback languages, default values, an optional external
//     resolution pipeline and hot memoization of resolved strings.
//
// Structural mutations (Reset, ReloadDomain, ReloadAll) requested inside a
// batch scope (see WithBatch) are deferred: the cache only raises its
// pending-reload flag and the caller performs the mutation after leaving the
// batch.
package phrasecache
