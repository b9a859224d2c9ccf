// Package style defines the typed style model shared by the cascade resolver
// and the document renderers: the atomic FontStyle record, the fixed-key
// Catalog mapping block types to styles, and the PartialCatalog each cascade
// tier contributes.
//
// Two merge primitives live here and deliberately share no code.
// PartialCatalog.Merge is the recursive cascade overlay (block key, then
// field) used to stack tiers; FontStyle.Override is the single-level
// overwrite used for block-local overrides at render time.
//
// Partial tiers keep field values in the form their source produced them
// (style.Value). Coercion into the typed Catalog happens once, after every
// tier has been merged, so a malformed value fails validation with a
// ValidationError naming the offending key and field.
package style
