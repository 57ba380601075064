package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/unkn0wn-root/phrasecache/codec"
)

type table map[string]map[string][]string

func newTestStore(t *testing.T) *Store[table] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.snap")
	s, err := New[table](path, codec.MustCBOR[table](true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := table{
		"D":  {"en": {"hello", "bye"}, "fr": {}},
		"D2": {"de": {"hallo"}},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("round trip mismatch: got %v want %v", got, in)
	}
}

func TestLoadMissingFileIsAbsent(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Load(context.Background())
	if ok || err != nil {
		t.Fatalf("missing file: ok=%v err=%v, want absent with nil error", ok, err)
	}
}

func TestLoadCorruptFileIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := os.WriteFile(s.Path(), []byte("not a snapshot"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Load(ctx); ok || err == nil {
		t.Fatalf("corrupt file: ok=%v err=%v, want absent with error", ok, err)
	}
}

func TestLoadTruncatedFileIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Save(ctx, table{"D": {"en": {"x"}}}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), b[:len(b)-3], 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Load(ctx); ok || err == nil {
		t.Fatalf("truncated file: ok=%v err=%v, want absent with error", ok, err)
	}
}

func TestSaveOverwritesPriorFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Save(ctx, table{"old": {}}); err != nil {
		t.Fatal(err)
	}
	want := table{"new": {"en": {"v"}}}
	if err := s.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, ok, _ := s.Load(ctx)
	if !ok || !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("Delete on missing file: %v", err)
	}
	if err := s.Save(ctx, table{"D": {}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := s.Load(ctx); ok || err != nil {
		t.Fatalf("after delete: ok=%v err=%v", ok, err)
	}
}

func TestSameKindOtherCodecRoundTrips(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mp.snap")
	s, err := New[table](path, codec.Msgpack[table]{})
	if err != nil {
		t.Fatal(err)
	}
	in := table{"D": {"en": {"a"}}}
	if err := s.Save(ctx, in); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load(ctx)
	if err != nil || !ok || !reflect.DeepEqual(got, in) {
		t.Fatalf("msgpack round trip: ok=%v err=%v got=%v", ok, err, got)
	}
}
