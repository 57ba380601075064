// Package snapshot persists a whole cache table to a single file. The file
// is purely an optimization: every failure path on read collapses to
// "absent", triggering a rebuild from the authoritative source - a bad file
// can never block startup.
//
// Save and Load on the same file are serialized by a process-wide lock keyed
// by the canonical path, independent of the cache's structural lock.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/unkn0wn-root/phrasecache/codec"
	"github.com/unkn0wn-root/phrasecache/internal/wire"
)

// Store writes and reads one value of type V at a fixed path.
type Store[V any] struct {
	path  string
	codec codec.Codec[V]
}

func New[V any](path string, c codec.Codec[V]) (*Store[V], error) {
	if path == "" {
		return nil, errors.New("snapshot: path is required")
	}
	if c == nil {
		return nil, errors.New("snapshot: codec is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: resolve path: %w", err)
	}
	return &Store[V]{path: abs, codec: c}, nil
}

// DefaultPath is a fixed filename under the system temp directory, namespaced
// so two caches never share a file.
func DefaultPath(namespace string) string {
	name := "phrasecache-" + sanitize(namespace) + ".snap"
	return filepath.Join(os.TempDir(), name)
}

func (s *Store[V]) Path() string { return s.path }

// Save replaces the file whole: delete the old one, write the new frame. On
// a write failure the partial file is removed so a later Load cannot
// mis-parse it.
func (s *Store[V]) Save(_ context.Context, v V) error {
	mu := pathLock(s.path)
	mu.Lock()
	defer mu.Unlock()

	payload, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snapshot: remove prior file: %w", err)
	}
	if err := os.WriteFile(s.path, wire.Encode(payload), 0o600); err != nil {
		_ = os.Remove(s.path)
		return fmt.Errorf("snapshot: write: %w", err)
	}
	return nil
}

// Load reads the file back. ok=false with a nil error means the file simply
// does not exist; ok=false with an error means it was unreadable or corrupt.
// Callers treat both the same way (absent) and may log the error.
func (s *Store[V]) Load(_ context.Context) (V, bool, error) {
	var zero V

	mu := pathLock(s.path)
	mu.Lock()
	defer mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("snapshot: read: %w", err)
	}
	payload, err := wire.Decode(b)
	if err != nil {
		return zero, false, err
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		return zero, false, fmt.Errorf("snapshot: decode: %w", err)
	}
	return v, true, nil
}

// Delete removes the file; a missing file is not an error.
func (s *Store[V]) Delete(_ context.Context) error {
	mu := pathLock(s.path)
	mu.Lock()
	defer mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("snapshot: delete: %w", err)
	}
	return nil
}

// Process-wide registry of per-path locks. Two stores pointed at the same
// file share one mutex, so their save/load pairs never interleave writes.
var (
	locksMu sync.Mutex
	locks   = make(map[string]*sync.Mutex)
)

func pathLock(abs string) *sync.Mutex {
	key := filepath.Clean(abs)
	locksMu.Lock()
	defer locksMu.Unlock()
	mu, ok := locks[key]
	if !ok {
		mu = &sync.Mutex{}
		locks[key] = mu
	}
	return mu
}

func sanitize(ns string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, ns)
}
