package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/style"
)

var textPolicy = bluemonday.StrictPolicy()

// markupTag matches an opening, closing or self-closing tag of an element
// models actually emit. Anything else in angle brackets is author text.
var markupTag = regexp.MustCompile(`(?i)</?(?:a|b|br|code|div|em|font|h[1-6]|hr|i|li|ol|p|pre|s|script|small|span|strong|style|sub|sup|table|td|th|tr|u|ul)(?:\s[^<>]*)?/?>`)

// ParseBlocks parses model output into content blocks. It accepts a bare
// array or an object holding the array under "blocks" (or
// "content_blocks"). Entries without a type become body_text; entries that
// are not objects are skipped. When nothing usable remains the result is the
// raw draft as a single body_text block.
func ParseBlocks(raw, draft string) BlocksResult {
	body := StripFences(raw)
	if body == "" {
		return FallbackBlocks(draft, &ParseError{Stage: "blocks", Reason: "empty output"})
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return FallbackBlocks(draft, &ParseError{Stage: "blocks", Reason: "output is not JSON", Err: err})
	}

	items, ok := blockList(doc)
	if !ok {
		return FallbackBlocks(draft, &ParseError{Stage: "blocks", Reason: "output holds no block list"})
	}

	blocks := make([]dsl.ContentBlock, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if block, ok := decodeBlock(entry); ok {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return FallbackBlocks(draft, &ParseError{Stage: "blocks", Reason: "no usable blocks"})
	}
	return BlocksResult{Blocks: blocks}
}

func blockList(doc any) ([]any, bool) {
	switch v := doc.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range []string{"blocks", "content_blocks"} {
			if list, ok := v[key].([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

func decodeBlock(entry map[string]any) (dsl.ContentBlock, bool) {
	block := dsl.ContentBlock{
		ID:   stringField(entry, "id"),
		Type: dsl.ContentType(strings.ToLower(stringField(entry, "type"))),
		Text: SanitizeText(stringField(entry, "text", "content")),
	}
	if block.Type == "" {
		block.Type = dsl.BodyText
	}
	block.SourceData = sourceData(entry)
	if raw, ok := entry["style_override"].(map[string]any); ok {
		if override, ok := decodeOverride(raw); ok {
			block.StyleOverride = &override
		}
	}
	if !block.Type.IsPlaceholder() && strings.TrimSpace(block.Text) == "" {
		return dsl.ContentBlock{}, false
	}
	return block, true
}

// SanitizeText strips markup from model-produced text while keeping the
// characters it escaped. Text without HTML tags is returned verbatim apart
// from surrounding whitespace.
func SanitizeText(s string) string {
	if !markupTag.MatchString(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func stringField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := entry[key].(type) {
		case string:
			return strings.TrimSpace(v)
		case json.Number:
			return v.String()
		case nil:
			continue
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

func sourceData(entry map[string]any) string {
	switch v := entry["source_data"].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}

// decodeOverride routes a block override through the partial decoder so
// aliases and coercion match the hints path. Invalid overrides are dropped.
func decodeOverride(raw map[string]any) (style.FontStyle, bool) {
	tier, _, err := style.FromMap(map[string]any{
		string(style.KeyGlobalDefault): normalizeFields(raw, defaultFonts),
	})
	if err != nil {
		return style.FontStyle{}, false
	}
	catalog, err := tier.NormalizeAlignment().Catalog()
	if err != nil || catalog.GlobalDefault.IsZero() {
		return style.FontStyle{}, false
	}
	return catalog.GlobalDefault, true
}
