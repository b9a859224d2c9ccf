package style

import (
	"errors"
	"strings"
)

// Merge lays over on top of p and returns the result; neither input is
// modified. For every catalog key in over, each field over sets replaces the
// accumulated field. Unset fields never overwrite. Keys outside the catalog
// are skipped.
func (p PartialCatalog) Merge(over PartialCatalog) PartialCatalog {
	out := p.Clone()
	for key, src := range over {
		if !key.Valid() {
			continue
		}
		dst := out[key]
		for _, f := range fields {
			if v := *f.slot(&src); v != nil {
				*f.slot(&dst) = v
			}
		}
		out[key] = dst
	}
	return out
}

// NormalizeAlignment returns a copy with every string alignment upper-cased.
// Non-string alignments are left for validation to reject.
func (p PartialCatalog) NormalizeAlignment() PartialCatalog {
	out := p.Clone()
	for key, entry := range out {
		if entry.Align == nil {
			continue
		}
		if s, ok := entry.Align.raw.(string); ok {
			entry.Align = StringValue(strings.ToUpper(s))
			out[key] = entry
		}
	}
	return out
}

// Catalog coerces the tier into a typed catalog. Every field that cannot be
// coerced is reported as a *ValidationError; all failures are joined in
// catalog key then field order. Keys outside the catalog are ignored.
func (p PartialCatalog) Catalog() (Catalog, error) {
	var (
		cat  Catalog
		errs []error
	)
	for _, key := range catalogKeys {
		entry := p[key]
		dst := cat.entry(key)
		for _, f := range fields {
			v := *f.slot(&entry)
			if v == nil {
				continue
			}
			if err := f.coerce(v.raw, dst); err != nil {
				errs = append(errs, &ValidationError{
					Key:    key,
					Field:  f.name,
					Value:  v.raw,
					Reason: err.Error(),
				})
			}
		}
	}
	if len(errs) > 0 {
		return Catalog{}, errors.Join(errs...)
	}
	return cat, nil
}
