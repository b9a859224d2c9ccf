package preset

import (
	"context"

	"github.com/goliatone/go-docfmt/pkg/style"
)

// Chain consults stores in order; the first store holding a preset wins.
type Chain []Store

// Lookup implements Store.
func (c Chain) Lookup(ctx context.Context, id string) (style.PartialCatalog, bool) {
	for _, store := range c {
		if store == nil {
			continue
		}
		if tier, ok := store.Lookup(ctx, id); ok {
			return tier, true
		}
	}
	return nil, false
}

// List implements Store, merging identifiers from every store.
func (c Chain) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, store := range c {
		if store == nil {
			continue
		}
		ids, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

// Map is an in-memory store, keyed by sanitized identifier.
type Map map[string]style.PartialCatalog

// Lookup implements Store.
func (m Map) Lookup(_ context.Context, id string) (style.PartialCatalog, bool) {
	tier, ok := m[SanitizeID(id)]
	if !ok {
		return nil, false
	}
	return tier.Clone(), true
}

// List implements Store.
func (m Map) List(context.Context) ([]string, error) {
	seen := make(map[string]struct{}, len(m))
	for id := range m {
		seen[id] = struct{}{}
	}
	return sortedKeys(seen), nil
}
