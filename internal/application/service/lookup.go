package service

import (
	"context"
	"strings"

	"github.com/sangkips/stayledger-api/pkg/lookup"
)

// Lookup entity names, shared with cache keys and the search routes.
const (
	EntityHosts      = "hosts"
	EntityProperties = "properties"
	EntityClients    = "clients"
	EntityPincodes   = "pincodes"
)

const lookupLimit = 10

// LookupCache caches typeahead results per entity and query.
type LookupCache interface {
	Get(ctx context.Context, entity, query string) ([]lookup.Item, bool)
	Set(ctx context.Context, entity, query string, items []lookup.Item)
	Invalidate(ctx context.Context, entity string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, string) ([]lookup.Item, bool) { return nil, false }
func (noopCache) Set(context.Context, string, string, []lookup.Item)         {}
func (noopCache) Invalidate(context.Context, string)                         {}

func cacheOrNoop(c LookupCache) LookupCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

// cachedSearch serves a lookup from cache or runs fetch and caches the result.
// A blank query returns no candidates without touching the database.
func cachedSearch(ctx context.Context, c LookupCache, entity, query string, fetch func(ctx context.Context, q string) ([]lookup.Item, error)) ([]lookup.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []lookup.Item{}, nil
	}
	if items, ok := c.Get(ctx, entity, query); ok {
		return items, nil
	}
	items, err := fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []lookup.Item{}
	}
	c.Set(ctx, entity, query, items)
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
