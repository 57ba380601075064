// Package source models the authoritative side of the cache: a hierarchical
// content tree whose dictionary-entry nodes carry the phrases. The cache core
// only depends on Source; TreeSource adapts a node tree to it.
package source

import "context"

// Entry is one (key, phrase) pair extracted from a content node.
type Entry struct {
	Key   string
	Value string
}

// Source fetches every phrase entry under one domain root for one language.
// Implementations may return partial results together with an error; the
// cache keeps whatever arrived.
type Source interface {
	Load(ctx context.Context, domain, language string) ([]Entry, error)
}

// Kind types a content node.
type Kind uint8

const (
	// KindOther is any structural node; traversal descends through it.
	KindOther Kind = iota
	// KindDomain roots a phrase domain. Traversal starts at one and never
	// crosses into a nested one.
	KindDomain
	// KindEntry is a dictionary entry carrying a phrase key and versions.
	KindEntry
)

// Node is one node of the external content tree.
type Node interface {
	Kind() Kind

	// Key is the phrase key. Meaningful for KindEntry nodes only.
	Key() string

	// Value returns the node's explicit version in the given language.
	Value(language string) (string, bool)

	// Fallback returns the node's language-independent version, applied when
	// no explicit version exists for the requested language.
	Fallback() (string, bool)

	Children() []Node
}

// LoadFunc adapts a plain function to Source.
type LoadFunc func(ctx context.Context, domain, language string) ([]Entry, error)

func (f LoadFunc) Load(ctx context.Context, domain, language string) ([]Entry, error) {
	return f(ctx, domain, language)
}
