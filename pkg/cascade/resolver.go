// Package cascade merges the four style tiers (system default, institution
// preset, extracted hints, user override) into one validated catalog.
package cascade

import (
	"fmt"

	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// Option customises a Resolver.
type Option func(*Resolver)

// WithDefaults replaces the system default tier. The catalog is copied.
func WithDefaults(defaults style.Catalog) Option {
	return func(r *Resolver) {
		r.defaults = defaults.Clone()
	}
}

// WithLogger attaches a logger used to report keys outside the catalog.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger.OrNop(l)
	}
}

// Resolver is read-only after construction and safe for concurrent use.
type Resolver struct {
	defaults style.Catalog
	logger   logger.Logger
}

// New constructs a Resolver seeded with style.DefaultCatalog unless
// WithDefaults says otherwise.
func New(options ...Option) *Resolver {
	r := &Resolver{
		defaults: style.DefaultCatalog(),
		logger:   logger.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Defaults returns a copy of the system default tier.
func (r *Resolver) Defaults() style.Catalog {
	return r.defaults.Clone()
}

// Resolve merges default < preset < hints < user and validates the result.
// Any tier may be nil. With every tier absent the default catalog comes back
// unchanged.
func (r *Resolver) Resolve(user, hints, preset style.PartialCatalog) (style.Catalog, error) {
	merged := r.Merge(user, hints, preset)
	catalog, err := merged.Catalog()
	if err != nil {
		return style.Catalog{}, fmt.Errorf("cascade: validate merged catalog: %w", err)
	}
	return catalog, nil
}

// Merge runs the cascade and alignment normalization without validating.
// Callers inspecting intermediate results (CLI dry runs, tests) use it;
// Resolve is the production entry point.
func (r *Resolver) Merge(user, hints, preset style.PartialCatalog) style.PartialCatalog {
	acc := r.defaults.Partial()
	for _, tier := range []struct {
		name  string
		value style.PartialCatalog
	}{
		{"preset", preset},
		{"hints", hints},
		{"user", user},
	} {
		if invalid := tier.value.InvalidKeys(); len(invalid) > 0 {
			r.logger.Warn("ignoring keys outside the style catalog",
				logger.String("tier", tier.name),
				logger.Strings("keys", invalid),
			)
		}
		acc = acc.Merge(tier.value)
	}
	return acc.NormalizeAlignment()
}
