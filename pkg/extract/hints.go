package extract

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/goliatone/go-docfmt/pkg/style"
)

// fieldAliases maps the keys models are prompted with, plus common variants,
// to catalog field names.
var fieldAliases = map[string]string{
	"font":        "family",
	"font_name":   "family",
	"fontname":    "family",
	"fontfamily":  "family",
	"font_family": "family",
	"font_size":   "size",
	"fontsize":    "size",
	"is_bold":     "bold",
	"isbold":      "bold",
	"is_italic":   "italic",
	"isitalic":    "italic",
	"alignment":   "align",
	"linespacing": "line_spacing",
	"spacebefore": "space_before",
	"spaceafter":  "space_after",
	"font_color":  "color",
	"fontcolor":   "color",
}

// wrapperKeys are envelopes models sometimes put around the catalog.
var wrapperKeys = []string{"style_config", "styles", "style", "catalog"}

// ParseHints parses model output into a style tier using the bundled font
// table. See ParseHintsWith.
func ParseHints(raw string) HintsResult {
	return ParseHintsWith(raw, defaultFonts)
}

var defaultFonts = DefaultFontTable()

// ParseHintsWith parses model output into a style tier. Field aliases are
// mapped to catalog names, typesetting font and size names are translated
// through fonts, and colours lose a leading '#'. Values are otherwise left
// for the cascade to validate.
func ParseHintsWith(raw string, fonts *FontTable) HintsResult {
	body := StripFences(raw)
	if body == "" {
		return HintsResult{Err: &ParseError{Stage: "hints", Reason: "empty output"}}
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return HintsResult{Err: &ParseError{Stage: "hints", Reason: "output is not a JSON object", Err: err}}
	}
	doc = unwrap(doc)

	normalized := make(map[string]any, len(doc))
	var ignored []string
	for key, value := range doc {
		fields, ok := value.(map[string]any)
		if !ok {
			ignored = append(ignored, key)
			continue
		}
		normalized[strings.TrimSpace(key)] = normalizeFields(fields, fonts)
	}

	tier, unknown, err := style.FromMap(normalized)
	if err != nil {
		return HintsResult{Err: &ParseError{Stage: "hints", Reason: "unusable style catalog", Err: err}}
	}
	ignored = append(ignored, unknown...)
	sort.Strings(ignored)
	return HintsResult{Hints: tier, Ignored: ignored}
}

func unwrap(doc map[string]any) map[string]any {
	if len(doc) != 1 {
		return doc
	}
	for _, key := range wrapperKeys {
		if inner, ok := doc[key].(map[string]any); ok {
			return inner
		}
	}
	return doc
}

func normalizeFields(fields map[string]any, fonts *FontTable) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		name := strings.ToLower(strings.TrimSpace(key))
		if canonical, ok := fieldAliases[strings.ReplaceAll(name, "-", "_")]; ok {
			name = canonical
		} else if canonical, ok := fieldAliases[strings.ReplaceAll(name, "_", "")]; ok {
			name = canonical
		}
		if value == nil {
			continue
		}
		out[name] = normalizeValue(name, value, fonts)
	}
	return out
}

func normalizeValue(field string, value any, fonts *FontTable) any {
	s, isString := value.(string)
	if !isString {
		return value
	}
	s = strings.TrimSpace(s)
	switch field {
	case "family":
		if fonts != nil {
			if mapped, ok := fonts.Family(s); ok {
				return mapped
			}
		}
	case "size":
		if fonts != nil {
			if points, ok := fonts.Size(s); ok {
				return points
			}
		}
		return strings.TrimSuffix(strings.TrimSuffix(s, "pt"), "磅")
	case "color":
		return strings.TrimLeft(s, "#")
	}
	return s
}
