package phrasecache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unkn0wn-root/phrasecache/hotcache"
)

// ResolveOptions shape a single TextIn call.
type ResolveOptions struct {
	Language        string            // "" => resolver default
	Default         string            // returned when nothing resolves; "" => the key itself
	Params          map[string]string // substituted into the phrase as {name}
	DisableFallback bool              // skip the fallback-language chain
}

// Pipeline is an external phrase-resolution hook consulted before the cache.
// ok=false means "no opinion, continue"; an error is logged and treated the
// same way.
type Pipeline interface {
	Resolve(ctx context.Context, key, language, domain string, opts ResolveOptions) (phrase string, ok bool, err error)
}

// ResolverOptions configure a Resolver. Only Cache is required.
type ResolverOptions struct {
	Cache Cache

	DefaultDomain   string // "" => "default"
	DefaultLanguage string // "" => "en"

	// FallbackLanguages are tried in order after the requested language
	// misses. The requested language itself is skipped if it reappears here.
	FallbackLanguages []string

	Pipeline Pipeline

	// Hot memoizes fully resolved strings (parameter-free lookups only).
	// Entries live at most HotTTL; call FlushHot after invalidating the
	// cache if even that window is too long.
	Hot    hotcache.Store
	HotTTL time.Duration // 0 => 1m

	Logger Logger
}

// Resolver is the outward lookup surface: it composes cache lookups with the
// optional pipeline, fallback languages and default values. A failed or
// unknown key always degrades to the default - never an error.
type Resolver struct {
	cache     Cache
	defDomain string
	defLang   string
	fallback  []string
	pipeline  Pipeline
	hot       hotcache.Store
	hotTTL    time.Duration
	log       Logger
}

func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Cache == nil {
		return nil, fmt.Errorf("phrasecache: resolver: %w", ErrNoCache)
	}
	return &Resolver{
		cache:     opts.Cache,
		defDomain: coalesce(opts.DefaultDomain, "default"),
		defLang:   coalesce(opts.DefaultLanguage, "en"),
		fallback:  opts.FallbackLanguages,
		pipeline:  opts.Pipeline,
		hot:       opts.Hot,
		hotTTL:    coalesce(opts.HotTTL, time.Minute),
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

// Text resolves key in the default domain and language; the key itself is
// the fallback value.
func (r *Resolver) Text(ctx context.Context, key string) string {
	return r.TextIn(ctx, r.defDomain, key, ResolveOptions{})
}

// TextLang resolves key in the default domain for one language.
func (r *Resolver) TextLang(ctx context.Context, key, language string) string {
	return r.TextIn(ctx, r.defDomain, key, ResolveOptions{Language: language})
}

// TextIn resolves key in a domain with full options.
func (r *Resolver) TextIn(ctx context.Context, domain, key string, opts ResolveOptions) string {
	lang := coalesce(opts.Language, r.defLang)
	def := coalesce(opts.Default, key)

	memoizable := r.hot != nil && len(opts.Params) == 0
	hotKey := domain + "\x1f" + lang + "\x1f" + key
	if memoizable {
		if b, ok, err := r.hot.Get(ctx, hotKey); err == nil && ok {
			return string(b)
		}
	}

	if r.pipeline != nil {
		v, ok, err := r.pipeline.Resolve(ctx, key, lang, domain, opts)
		if err != nil {
			r.log.Warn("resolution pipeline failed, falling back", Fields{
				"domain": domain, "language": lang, "key": key, "err": err,
			})
		} else if ok {
			return r.finish(ctx, hotKey, v, opts.Params, memoizable)
		}
	}

	if v, ok := r.cache.Lookup(ctx, domain, lang, key); ok {
		return r.finish(ctx, hotKey, v, opts.Params, memoizable)
	}

	if !opts.DisableFallback {
		for _, fl := range r.fallback {
			if fl == lang {
				continue
			}
			if v, ok := r.cache.Lookup(ctx, domain, fl, key); ok {
				return r.finish(ctx, hotKey, v, opts.Params, memoizable)
			}
		}
	}

	// the default is never memoized: a Store for this key should become
	// visible on the next call, not after a TTL
	return substituteParams(def, opts.Params)
}

// FlushHot drops every memoized string. Call it after invalidating or
// reloading the cache when bounded staleness is not acceptable.
func (r *Resolver) FlushHot(ctx context.Context) {
	if r.hot == nil {
		return
	}
	if err := r.hot.Purge(ctx); err != nil {
		r.log.Warn("hot cache purge failed", Fields{"err": err})
	}
}

func (r *Resolver) Close(ctx context.Context) error {
	if r.hot != nil {
		return r.hot.Close(ctx)
	}
	return nil
}

func (r *Resolver) finish(ctx context.Context, hotKey, phrase string, params map[string]string, memoize bool) string {
	out := substituteParams(phrase, params)
	if memoize {
		if _, err := r.hot.Set(ctx, hotKey, []byte(out), r.hotTTL); err != nil {
			r.log.Debug("hot cache set failed", Fields{"err": err})
		}
	}
	return out
}

// substituteParams replaces {name} placeholders. Phrase formatting proper is
// the caller's business; this covers the common named-parameter case.
func substituteParams(phrase string, params map[string]string) string {
	if len(params) == 0 || !strings.ContainsRune(phrase, '{') {
		return phrase
	}
	oldnew := make([]string, 0, len(params)*2)
	for k, v := range params {
		oldnew = append(oldnew, "{"+k+"}", v)
	}
	return strings.NewReplacer(oldnew...).Replace(phrase)
}
