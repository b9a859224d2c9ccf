package style

import (
	"encoding/json"
	"sort"
)

// PartialStyle is one tier's contribution to a catalog entry. Every field is
// optional; nil means the tier says nothing about it.
type PartialStyle struct {
	Family      *Value
	Size        *Value
	Bold        *Value
	Italic      *Value
	Align       *Value
	LineSpacing *Value
	Color       *Value
	SpaceBefore *Value
	SpaceAfter  *Value
}

// IsZero reports whether the partial sets no field.
func (p PartialStyle) IsZero() bool {
	for _, f := range fields {
		if *f.slot(&p) != nil {
			return false
		}
	}
	return true
}

// Get returns the value for a field name such as "line_spacing".
func (p PartialStyle) Get(name string) *Value {
	f, ok := fieldByName(name)
	if !ok {
		return nil
	}
	return *f.slot(&p)
}

// Set stores v under a field name and reports whether the name is known.
func (p *PartialStyle) Set(name string, v *Value) bool {
	f, ok := fieldByName(name)
	if !ok {
		return false
	}
	*f.slot(p) = v
	return true
}

// PartialCatalog is a cascade tier: a partial style per catalog key. A nil
// or empty PartialCatalog is a missing tier.
type PartialCatalog map[Key]PartialStyle

// Clone returns a copy of the map. Values are immutable and shared.
func (p PartialCatalog) Clone() PartialCatalog {
	out := make(PartialCatalog, len(p))
	for key, entry := range p {
		out[key] = entry
	}
	return out
}

// IsEmpty reports whether the tier sets nothing at all.
func (p PartialCatalog) IsEmpty() bool {
	for _, entry := range p {
		if !entry.IsZero() {
			return false
		}
	}
	return true
}

// InvalidKeys lists keys outside the fixed catalog set, sorted.
func (p PartialCatalog) InvalidKeys() []string {
	var out []string
	for key := range p {
		if !key.Valid() {
			out = append(out, string(key))
		}
	}
	sort.Strings(out)
	return out
}

// MarshalJSON writes the tier in catalog shape, omitting unset fields.
func (p PartialCatalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.toMap())
}

// UnmarshalJSON decodes a catalog-shaped object. Unknown keys are dropped;
// use ParseJSON when the caller needs to know which.
func (p *PartialCatalog) UnmarshalJSON(data []byte) error {
	parsed, _, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalYAML writes the tier in catalog shape. Numbers decoded from JSON
// are written as YAML numbers.
func (p PartialCatalog) MarshalYAML() (any, error) {
	out := p.toMap()
	for _, entry := range out {
		for name, raw := range entry {
			if n, ok := raw.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					entry[name] = f
				}
			}
		}
	}
	return out, nil
}

func (p PartialCatalog) toMap() map[string]map[string]any {
	out := make(map[string]map[string]any, len(p))
	for key, entry := range p {
		fieldsOut := make(map[string]any)
		for _, f := range fields {
			if v := *f.slot(&entry); v != nil {
				fieldsOut[f.name] = v.raw
			}
		}
		out[string(key)] = fieldsOut
	}
	return out
}

// Partial lifts a typed catalog into a tier so it can seed a cascade.
func (c Catalog) Partial() PartialCatalog {
	out := make(PartialCatalog, len(catalogKeys))
	for _, key := range catalogKeys {
		entry, _ := c.Lookup(key)
		out[key] = entry.Partial()
	}
	return out
}

// Partial lifts a typed style into a partial record.
func (s FontStyle) Partial() PartialStyle {
	var ps PartialStyle
	for _, f := range fields {
		if raw, ok := f.export(s); ok {
			*f.slot(&ps) = &Value{raw: raw}
		}
	}
	return ps
}
