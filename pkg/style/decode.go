package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a tier document has no content.
var ErrEmptyDocument = errors.New("style: empty document")

// FromMap decodes a catalog-shaped generic map into a tier. Unknown block
// keys ("footer") and unknown field keys ("heading_1.weight") are returned in
// ignored, sorted, and never merged. Null fields are unset.
func FromMap(raw map[string]any) (PartialCatalog, []string, error) {
	out := make(PartialCatalog, len(raw))
	var ignored []string

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := Key(k)
		if !key.Valid() {
			ignored = append(ignored, k)
			continue
		}
		body := raw[k]
		if body == nil {
			continue
		}
		entryMap, err := asObject(body)
		if err != nil {
			return nil, nil, fmt.Errorf("style: %s: %w", k, err)
		}
		var entry PartialStyle
		for name, fieldRaw := range entryMap {
			if _, ok := fieldByName(name); !ok {
				ignored = append(ignored, k+"."+name)
				continue
			}
			entry.Set(name, NewValue(fieldRaw))
		}
		out[key] = entry
	}
	sort.Strings(ignored)
	return out, ignored, nil
}

// ParseJSON decodes a JSON object into a tier. Numbers keep their literal
// form until validation.
func ParseJSON(data []byte) (PartialCatalog, []string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, ErrEmptyDocument
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("style: decode json: %w", err)
	}
	return FromMap(raw)
}

// ParseYAML decodes a YAML mapping into a tier.
func ParseYAML(data []byte) (PartialCatalog, []string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, ErrEmptyDocument
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("style: decode yaml: %w", err)
	}
	if raw == nil {
		return nil, nil, ErrEmptyDocument
	}
	return FromMap(raw)
}

func asObject(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, val := range typed {
			out[fmt.Sprint(k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an object, got %T", v)
	}
}
