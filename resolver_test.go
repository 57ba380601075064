package phrasecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/phrasecache/hotcache"
	src "github.com/unkn0wn-root/phrasecache/source"
)

type fakePipeline struct {
	phrase string
	ok     bool
	err    error
	calls  int
}

func (p *fakePipeline) Resolve(_ context.Context, _, _, _ string, _ ResolveOptions) (string, bool, error) {
	p.calls++
	return p.phrase, p.ok, p.err
}

// memHot is a minimal in-memory hotcache.Store (TTL ignored; tests purge
// explicitly).
type memHot struct {
	m      map[string][]byte
	purged int
}

var _ hotcache.Store = (*memHot)(nil)

func newMemHot() *memHot { return &memHot{m: make(map[string][]byte)} }

func (h *memHot) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, ok := h.m[key]
	return b, ok, nil
}

func (h *memHot) Set(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	h.m[key] = value
	return true, nil
}

func (h *memHot) Del(_ context.Context, key string) error { delete(h.m, key); return nil }
func (h *memHot) Purge(_ context.Context) error {
	h.m = make(map[string][]byte)
	h.purged++
	return nil
}
func (h *memHot) Close(_ context.Context) error { return nil }

func newTestResolver(t *testing.T, fs *fakeSource, mod func(*ResolverOptions)) *Resolver {
	t.Helper()
	c := newTestCache(t, fs, nil)
	opts := ResolverOptions{
		Cache:           c,
		DefaultDomain:   "D",
		DefaultLanguage: "en",
	}
	if mod != nil {
		mod(&opts)
	}
	r, err := NewResolver(opts)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestNewResolverRequiresCache(t *testing.T) {
	if _, err := NewResolver(ResolverOptions{}); !errors.Is(err, ErrNoCache) {
		t.Fatalf("want ErrNoCache, got %v", err)
	}
}

func TestTextResolvesAndDefaultsToKey(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "en", src.Entry{Key: "greeting", Value: "Hello"})
	r := newTestResolver(t, fs, nil)

	if got := r.Text(ctx, "greeting"); got != "Hello" {
		t.Fatalf("got %q", got)
	}
	// unknown key degrades to the key itself, never an error
	if got := r.Text(ctx, "missing.key"); got != "missing.key" {
		t.Fatalf("got %q", got)
	}
}

func TestTextLangAndExplicitDefault(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "fr", src.Entry{Key: "greeting", Value: "Bonjour"})
	r := newTestResolver(t, fs, nil)

	if got := r.TextLang(ctx, "greeting", "fr"); got != "Bonjour" {
		t.Fatalf("got %q", got)
	}
	got := r.TextIn(ctx, "D", "absent", ResolveOptions{Default: "n/a"})
	if got != "n/a" {
		t.Fatalf("got %q", got)
	}
}

func TestParamsSubstitution(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "en", src.Entry{Key: "welcome", Value: "Hi {name}, you have {n} items"})
	r := newTestResolver(t, fs, nil)

	got := r.TextIn(ctx, "D", "welcome", ResolveOptions{
		Params: map[string]string{"name": "Ada", "n": "3"},
	})
	if got != "Hi Ada, you have 3 items" {
		t.Fatalf("got %q", got)
	}
	// params also apply to the default value
	got = r.TextIn(ctx, "D", "absent", ResolveOptions{
		Default: "{name}?",
		Params:  map[string]string{"name": "Ada"},
	})
	if got != "Ada?" {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackLanguageChain(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "en", src.Entry{Key: "only.en", Value: "English"})
	r := newTestResolver(t, fs, func(o *ResolverOptions) {
		o.FallbackLanguages = []string{"en"}
	})

	if got := r.TextLang(ctx, "only.en", "de"); got != "English" {
		t.Fatalf("fallback chain: got %q", got)
	}
	got := r.TextIn(ctx, "D", "only.en", ResolveOptions{Language: "de", DisableFallback: true})
	if got != "only.en" {
		t.Fatalf("DisableFallback: got %q", got)
	}
}

func TestPipelineWinsAndFailsOpen(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "en", src.Entry{Key: "k", Value: "cached"})

	// pipeline has an opinion: it wins over the cache
	p := &fakePipeline{phrase: "piped", ok: true}
	r := newTestResolver(t, fs, func(o *ResolverOptions) { o.Pipeline = p })
	if got := r.Text(ctx, "k"); got != "piped" {
		t.Fatalf("got %q", got)
	}

	// pipeline declines: cache answers
	p = &fakePipeline{ok: false}
	r = newTestResolver(t, fs, func(o *ResolverOptions) { o.Pipeline = p })
	if got := r.Text(ctx, "k"); got != "cached" {
		t.Fatalf("got %q", got)
	}

	// pipeline errors: logged, cache answers
	p = &fakePipeline{err: errors.New("pipeline down")}
	r = newTestResolver(t, fs, func(o *ResolverOptions) { o.Pipeline = p })
	if got := r.Text(ctx, "k"); got != "cached" {
		t.Fatalf("got %q", got)
	}
	if p.calls != 1 {
		t.Fatalf("pipeline calls=%d", p.calls)
	}
}

func TestHotMemoization(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "en", src.Entry{Key: "k", Value: "v"})
	hot := newMemHot()
	r := newTestResolver(t, fs, func(o *ResolverOptions) { o.Hot = hot })

	if got := r.Text(ctx, "k"); got != "v" {
		t.Fatalf("got %q", got)
	}
	if len(hot.m) != 1 {
		t.Fatalf("resolved string not memoized: %d entries", len(hot.m))
	}

	// poison the memo to prove the second call is served from it
	for k := range hot.m {
		hot.m[k] = []byte("memo")
	}
	if got := r.Text(ctx, "k"); got != "memo" {
		t.Fatalf("second call bypassed the memo: %q", got)
	}

	r.FlushHot(ctx)
	if hot.purged != 1 || len(hot.m) != 0 {
		t.Fatalf("FlushHot: purged=%d entries=%d", hot.purged, len(hot.m))
	}
	if got := r.Text(ctx, "k"); got != "v" {
		t.Fatalf("after flush: %q", got)
	}
}

func TestDefaultsAndParamsAreNotMemoized(t *testing.T) {
	ctx := context.Background()
	fs := newFakeSource()
	fs.set("D", "en", src.Entry{Key: "k", Value: "{x}"})
	hot := newMemHot()
	r := newTestResolver(t, fs, func(o *ResolverOptions) { o.Hot = hot })

	// a miss resolved to the default must stay re-checkable
	if got := r.Text(ctx, "absent"); got != "absent" {
		t.Fatalf("got %q", got)
	}
	if len(hot.m) != 0 {
		t.Fatal("default value was memoized")
	}

	// parameterized lookups are per-call, never memoized
	got := r.TextIn(ctx, "D", "k", ResolveOptions{Params: map[string]string{"x": "1"}})
	if got != "1" {
		t.Fatalf("got %q", got)
	}
	if len(hot.m) != 0 {
		t.Fatal("parameterized result was memoized")
	}
}
