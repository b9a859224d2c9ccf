package style

// Override returns s with every field set in o replacing the matching field
// of s. Fields o leaves unset keep the value from s. This is a single-level
// overwrite for block-local overrides; tier stacking uses
// PartialCatalog.Merge.
func (s FontStyle) Override(o FontStyle) FontStyle {
	out := s
	if o.Family != nil {
		out.Family = o.Family
	}
	if o.Size != nil {
		out.Size = o.Size
	}
	if o.Bold != nil {
		out.Bold = o.Bold
	}
	if o.Italic != nil {
		out.Italic = o.Italic
	}
	if o.Align != nil {
		out.Align = o.Align
	}
	if o.LineSpacing != nil {
		out.LineSpacing = o.LineSpacing
	}
	if o.Color != nil {
		out.Color = o.Color
	}
	if o.SpaceBefore != nil {
		out.SpaceBefore = o.SpaceBefore
	}
	if o.SpaceAfter != nil {
		out.SpaceAfter = o.SpaceAfter
	}
	return out
}
