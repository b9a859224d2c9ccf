package dsl

import "github.com/goliatone/go-docfmt/pkg/style"

// ContentType classifies a content block.
type ContentType string

const (
	Heading1  ContentType = "heading_1"
	Heading2  ContentType = "heading_2"
	Heading3  ContentType = "heading_3"
	BodyText  ContentType = "body_text"
	Caption   ContentType = "caption"
	ImageHook ContentType = "image_hook"
	TableHook ContentType = "table_hook"
)

var knownTypes = []ContentType{Heading1, Heading2, Heading3, BodyText, Caption, ImageHook, TableHook}

// ContentTypes returns every known content type in declaration order.
func ContentTypes() []ContentType {
	out := make([]ContentType, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// Known reports whether t is one of the declared content types.
func (t ContentType) Known() bool {
	for _, known := range knownTypes {
		if known == t {
			return true
		}
	}
	return false
}

// IsPlaceholder reports whether t is rendered as a placeholder hook.
func (t ContentType) IsPlaceholder() bool {
	return t == ImageHook || t == TableHook
}

// StyleKey returns the catalog key styling t. Placeholder and unknown types
// have no entry of their own and report false.
func (t ContentType) StyleKey() (style.Key, bool) {
	key := style.Key(t)
	if t.IsPlaceholder() || !key.Valid() || key == style.KeyGlobalDefault {
		return "", false
	}
	return key, true
}

// ContentBlock is one unit of document content.
type ContentBlock struct {
	ID            string           `json:"id"`
	Type          ContentType      `json:"type"`
	Text          string           `json:"text"`
	SourceData    string           `json:"source_data,omitempty"`
	StyleOverride *style.FontStyle `json:"style_override,omitempty"`
}

func (b ContentBlock) clone() ContentBlock {
	out := b
	if b.StyleOverride != nil {
		override := b.StyleOverride.Clone()
		out.StyleOverride = &override
	}
	return out
}
