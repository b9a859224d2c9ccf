package style

// field binds a catalog field name to its partial slot, its coercion into a
// typed FontStyle and its export back into raw form.
type field struct {
	name   string
	slot   func(*PartialStyle) **Value
	coerce func(raw any, dst *FontStyle) error
	export func(FontStyle) (any, bool)
}

var fields = []field{
	{
		name: "family",
		slot: func(p *PartialStyle) **Value { return &p.Family },
		coerce: func(raw any, dst *FontStyle) error {
			s, err := asString(raw)
			dst.Family = &s
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.Family) },
	},
	{
		name: "size",
		slot: func(p *PartialStyle) **Value { return &p.Size },
		coerce: func(raw any, dst *FontStyle) error {
			f, err := asFloat(raw)
			dst.Size = &f
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.Size) },
	},
	{
		name: "bold",
		slot: func(p *PartialStyle) **Value { return &p.Bold },
		coerce: func(raw any, dst *FontStyle) error {
			b, err := asBool(raw)
			dst.Bold = &b
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.Bold) },
	},
	{
		name: "italic",
		slot: func(p *PartialStyle) **Value { return &p.Italic },
		coerce: func(raw any, dst *FontStyle) error {
			b, err := asBool(raw)
			dst.Italic = &b
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.Italic) },
	},
	{
		name: "align",
		slot: func(p *PartialStyle) **Value { return &p.Align },
		coerce: func(raw any, dst *FontStyle) error {
			a, err := asAlignment(raw)
			dst.Align = &a
			return err
		},
		export: func(s FontStyle) (any, bool) {
			if s.Align == nil {
				return nil, false
			}
			return string(*s.Align), true
		},
	},
	{
		name: "line_spacing",
		slot: func(p *PartialStyle) **Value { return &p.LineSpacing },
		coerce: func(raw any, dst *FontStyle) error {
			f, err := asFloat(raw)
			dst.LineSpacing = &f
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.LineSpacing) },
	},
	{
		name: "color",
		slot: func(p *PartialStyle) **Value { return &p.Color },
		coerce: func(raw any, dst *FontStyle) error {
			s, err := asString(raw)
			dst.Color = &s
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.Color) },
	},
	{
		name: "space_before",
		slot: func(p *PartialStyle) **Value { return &p.SpaceBefore },
		coerce: func(raw any, dst *FontStyle) error {
			f, err := asFloat(raw)
			dst.SpaceBefore = &f
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.SpaceBefore) },
	},
	{
		name: "space_after",
		slot: func(p *PartialStyle) **Value { return &p.SpaceAfter },
		coerce: func(raw any, dst *FontStyle) error {
			f, err := asFloat(raw)
			dst.SpaceAfter = &f
			return err
		},
		export: func(s FontStyle) (any, bool) { return exported(s.SpaceAfter) },
	},
}

// FieldNames returns the nine field names in canonical order.
func FieldNames() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

func fieldByName(name string) (field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

func exported[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
