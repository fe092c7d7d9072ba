package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize bounds the per-kind cache. There are only two kinds, so
// entries live until Refresh.
const cacheSize = 4

var (
	// ErrNotFound is returned when no model matches a lookup.
	ErrNotFound = errors.New("model not found")
	// ErrUnknownKind is returned for kinds other than text and image.
	ErrUnknownKind = errors.New("unknown model kind")
)

// FetchFunc retrieves the raw model list for kind.
type FetchFunc func(ctx context.Context, kind Kind) ([]byte, error)

// Catalog fetches model lists on first use and caches them per kind until
// Refresh is called. It is safe for concurrent use.
type Catalog struct {
	fetch FetchFunc
	cache *lru.Cache[Kind, []Model]
	// fetchMu keeps concurrent misses from fetching the same list twice.
	fetchMu sync.Mutex
}

// NewCatalog creates a catalog backed by fetch.
func NewCatalog(fetch FetchFunc) *Catalog {
	cache, err := lru.New[Kind, []Model](cacheSize)
	if err != nil {
		panic(err) // only for non-positive sizes
	}
	return &Catalog{fetch: fetch, cache: cache}
}

// List returns the normalized models of kind, fetching them once.
func (c *Catalog) List(ctx context.Context, kind Kind) ([]Model, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if models, ok := c.cache.Get(kind); ok {
		return models, nil
	}

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()
	if models, ok := c.cache.Get(kind); ok {
		return models, nil
	}

	raw, err := c.fetch(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s models: %w", kind, err)
	}
	models, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("list %s models: %w", kind, err)
	}
	c.cache.Add(kind, models)
	return models, nil
}

// Refresh drops every cached list.
func (c *Catalog) Refresh() {
	c.cache.Purge()
}

// Cached reports whether kind is currently cached.
func (c *Catalog) Cached(kind Kind) bool {
	return c.cache.Contains(kind)
}

// FindOptions controls GetModelByName-style lookups.
type FindOptions struct {
	// Kind restricts the search; empty searches text then image.
	Kind           Kind
	IncludeAliases bool
	CaseSensitive  bool
}

// FindOption configures a lookup.
type FindOption func(*FindOptions)

// WithKind restricts the lookup to one list.
func WithKind(kind Kind) FindOption {
	return func(o *FindOptions) {
		o.Kind = kind
	}
}

// WithAliases toggles alias matching (default on).
func WithAliases(include bool) FindOption {
	return func(o *FindOptions) {
		o.IncludeAliases = include
	}
}

// WithCaseSensitive toggles exact-case matching (default off).
func WithCaseSensitive(sensitive bool) FindOption {
	return func(o *FindOptions) {
		o.CaseSensitive = sensitive
	}
}

// Find returns the first model whose name, or alias when enabled, matches.
func (c *Catalog) Find(ctx context.Context, name string, opts ...FindOption) (Model, error) {
	o := FindOptions{IncludeAliases: true}
	for _, opt := range opts {
		opt(&o)
	}

	kinds := Kinds
	if o.Kind != "" {
		kinds = []Kind{o.Kind}
	}
	for _, kind := range kinds {
		models, err := c.List(ctx, kind)
		if err != nil {
			return Model{}, err
		}
		if m, ok := Match(models, name, o); ok {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Match scans models for name using o's alias and case rules.
func Match(models []Model, name string, o FindOptions) (Model, bool) {
	equal := strings.EqualFold
	if o.CaseSensitive {
		equal = func(a, b string) bool { return a == b }
	}
	for _, m := range models {
		candidates := []string{m.Name}
		if o.IncludeAliases {
			candidates = m.Names()
		}
		for _, candidate := range candidates {
			if equal(candidate, name) {
				return m, true
			}
		}
	}
	return Model{}, false
}
