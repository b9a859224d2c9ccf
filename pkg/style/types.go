package style

import (
	"fmt"
	"strings"
)

// Alignment enumerates paragraph alignments. Values are always upper-case.
type Alignment string

const (
	AlignLeft    Alignment = "LEFT"
	AlignCenter  Alignment = "CENTER"
	AlignRight   Alignment = "RIGHT"
	AlignJustify Alignment = "JUSTIFY"
)

// Valid reports whether a is one of the four supported alignments.
func (a Alignment) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	default:
		return false
	}
}

// UnmarshalText accepts any casing and stores the upper-case enum value.
func (a *Alignment) UnmarshalText(text []byte) error {
	candidate := Alignment(strings.ToUpper(string(text)))
	if !candidate.Valid() {
		return fmt.Errorf("style: unknown alignment %q", string(text))
	}
	*a = candidate
	return nil
}

// Key identifies a catalog entry.
type Key string

const (
	KeyGlobalDefault Key = "global_default"
	KeyHeading1      Key = "heading_1"
	KeyHeading2      Key = "heading_2"
	KeyHeading3      Key = "heading_3"
	KeyBodyText      Key = "body_text"
	KeyCaption       Key = "caption"
)

var catalogKeys = []Key{
	KeyGlobalDefault,
	KeyHeading1,
	KeyHeading2,
	KeyHeading3,
	KeyBodyText,
	KeyCaption,
}

// Keys returns the catalog keys in their canonical order.
func Keys() []Key {
	out := make([]Key, len(catalogKeys))
	copy(out, catalogKeys)
	return out
}

// Valid reports whether k names a catalog entry.
func (k Key) Valid() bool {
	for _, key := range catalogKeys {
		if key == k {
			return true
		}
	}
	return false
}

// FontStyle is the atomic style record. A nil field means "inherit from
// whatever this style is laid over".
type FontStyle struct {
	Family      *string    `json:"family,omitempty" yaml:"family,omitempty"`
	Size        *float64   `json:"size,omitempty" yaml:"size,omitempty"`
	Bold        *bool      `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic      *bool      `json:"italic,omitempty" yaml:"italic,omitempty"`
	Align       *Alignment `json:"align,omitempty" yaml:"align,omitempty"`
	LineSpacing *float64   `json:"line_spacing,omitempty" yaml:"line_spacing,omitempty"`
	Color       *string    `json:"color,omitempty" yaml:"color,omitempty"`
	SpaceBefore *float64   `json:"space_before,omitempty" yaml:"space_before,omitempty"`
	SpaceAfter  *float64   `json:"space_after,omitempty" yaml:"space_after,omitempty"`
}

// Ptr returns a pointer to v. Handy when building FontStyle literals.
func Ptr[T any](v T) *T {
	return &v
}

// IsZero reports whether no field is set.
func (s FontStyle) IsZero() bool {
	return s.Family == nil && s.Size == nil && s.Bold == nil && s.Italic == nil &&
		s.Align == nil && s.LineSpacing == nil && s.Color == nil &&
		s.SpaceBefore == nil && s.SpaceAfter == nil
}

// Clone returns a copy that shares no pointers with s.
func (s FontStyle) Clone() FontStyle {
	return FontStyle{
		Family:      clonePtr(s.Family),
		Size:        clonePtr(s.Size),
		Bold:        clonePtr(s.Bold),
		Italic:      clonePtr(s.Italic),
		Align:       clonePtr(s.Align),
		LineSpacing: clonePtr(s.LineSpacing),
		Color:       clonePtr(s.Color),
		SpaceBefore: clonePtr(s.SpaceBefore),
		SpaceAfter:  clonePtr(s.SpaceAfter),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Catalog maps every block-type key to its resolved style. All keys are
// always present; an entry with no fields set is an empty FontStyle.
type Catalog struct {
	GlobalDefault FontStyle `json:"global_default" yaml:"global_default"`
	Heading1      FontStyle `json:"heading_1" yaml:"heading_1"`
	Heading2      FontStyle `json:"heading_2" yaml:"heading_2"`
	Heading3      FontStyle `json:"heading_3" yaml:"heading_3"`
	BodyText      FontStyle `json:"body_text" yaml:"body_text"`
	Caption       FontStyle `json:"caption" yaml:"caption"`
}

// Lookup returns the entry for key. The boolean is false for keys outside
// the catalog.
func (c Catalog) Lookup(key Key) (FontStyle, bool) {
	entry := c.entry(key)
	if entry == nil {
		return FontStyle{}, false
	}
	return *entry, true
}

func (c *Catalog) entry(key Key) *FontStyle {
	switch key {
	case KeyGlobalDefault:
		return &c.GlobalDefault
	case KeyHeading1:
		return &c.Heading1
	case KeyHeading2:
		return &c.Heading2
	case KeyHeading3:
		return &c.Heading3
	case KeyBodyText:
		return &c.BodyText
	case KeyCaption:
		return &c.Caption
	default:
		return nil
	}
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	return Catalog{
		GlobalDefault: c.GlobalDefault.Clone(),
		Heading1:      c.Heading1.Clone(),
		Heading2:      c.Heading2.Clone(),
		Heading3:      c.Heading3.Clone(),
		BodyText:      c.BodyText.Clone(),
		Caption:       c.Caption.Clone(),
	}
}
