package render

import (
	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// BaseStyle returns the catalog entry for a content type. Types without an
// entry of their own, or whose entry is empty, use global_default.
func BaseStyle(catalog style.Catalog, t dsl.ContentType) style.FontStyle {
	if key, ok := t.StyleKey(); ok {
		if entry, _ := catalog.Lookup(key); !entry.IsZero() {
			return entry
		}
	}
	return catalog.GlobalDefault
}

// EffectiveStyle is the base style for the block with its local override
// applied field by field.
func EffectiveStyle(catalog style.Catalog, block dsl.ContentBlock) style.FontStyle {
	base := BaseStyle(catalog, block.Type)
	if block.StyleOverride == nil {
		return base
	}
	return base.Override(*block.StyleOverride)
}
