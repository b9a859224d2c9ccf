package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-docfmt/pkg/preset"
	"github.com/goliatone/go-docfmt/pkg/style"
)

var alignments = []style.Alignment{
	style.AlignLeft,
	style.AlignCenter,
	style.AlignRight,
	style.AlignJustify,
}

// Wizard asks for an institution preset one catalog entry at a time,
// offering the current defaults as answers.
type Wizard struct {
	driver   Driver
	defaults style.Catalog
}

// NewWizard seeds the prompts from defaults.
func NewWizard(driver Driver, defaults style.Catalog) *Wizard {
	return &Wizard{driver: driver, defaults: defaults.Clone()}
}

// Run returns the preset id and tier. Declining the final confirmation
// returns ErrAborted.
func (w *Wizard) Run(ctx context.Context) (string, style.PartialCatalog, error) {
	if w.driver == nil {
		return "", nil, errors.New("prompt: driver is required")
	}
	if err := w.driver.Info(ctx, "Create an institution preset. Press enter to keep the suggested value."); err != nil {
		return "", nil, err
	}

	id, err := w.driver.Input(ctx, InputConfig{
		Message:   "Preset id",
		Help:      "Letters, digits, '_' and '-' only, e.g. nju_undergraduate.",
		Validator: validateID,
	})
	if err != nil {
		return "", nil, err
	}
	id = strings.TrimSpace(id)

	keys := style.Keys()
	options := make([]string, len(keys))
	all := make([]int, len(keys))
	for i, key := range keys {
		options[i] = string(key)
		all[i] = i
	}
	selected, err := w.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Entries to configure",
		Options:  options,
		Defaults: all,
	})
	if err != nil {
		return "", nil, err
	}

	tier := make(style.PartialCatalog, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(keys) {
			continue
		}
		entry, err := w.askEntry(ctx, keys[idx])
		if err != nil {
			return "", nil, err
		}
		tier[keys[idx]] = entry
	}

	if _, err := tier.Catalog(); err != nil {
		return "", nil, fmt.Errorf("prompt: preset does not validate: %w", err)
	}

	save, err := w.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Save preset %q with %d entries?", id, len(tier)),
		Default: true,
	})
	if err != nil {
		return "", nil, err
	}
	if !save {
		return "", nil, ErrAborted
	}
	return id, tier, nil
}

func (w *Wizard) askEntry(ctx context.Context, key style.Key) (style.PartialStyle, error) {
	base := w.suggestion(key)
	var entry style.PartialStyle

	family, err := w.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("%s: font family", key),
		Default: deref(base.Family, ""),
	})
	if err != nil {
		return entry, err
	}
	if family = strings.TrimSpace(family); family != "" {
		entry.Family = style.StringValue(family)
	}

	size, err := w.askNumber(ctx, fmt.Sprintf("%s: size (pt)", key), base.Size)
	if err != nil {
		return entry, err
	}
	entry.Size = size

	bold, err := w.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s: bold?", key),
		Default: deref(base.Bold, false),
	})
	if err != nil {
		return entry, err
	}
	entry.Bold = style.BoolValue(bold)

	current := 0
	options := make([]string, len(alignments))
	for i, a := range alignments {
		options[i] = string(a)
		if base.Align != nil && *base.Align == a {
			current = i
		}
	}
	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("%s: alignment", key),
		Options:      options,
		DefaultIndex: current,
	})
	if err != nil {
		return entry, err
	}
	if idx >= 0 && idx < len(alignments) {
		entry.Align = style.StringValue(string(alignments[idx]))
	}

	spacing, err := w.askNumber(ctx, fmt.Sprintf("%s: line spacing (multiple)", key), base.LineSpacing)
	if err != nil {
		return entry, err
	}
	entry.LineSpacing = spacing
	return entry, nil
}

func (w *Wizard) askNumber(ctx context.Context, message string, current *float64) (*style.Value, error) {
	def := ""
	if current != nil {
		def = strconv.FormatFloat(*current, 'f', -1, 64)
	}
	raw, err := w.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   def,
		Validator: validatePositive,
	})
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("prompt: %s: %w", message, err)
	}
	return style.NumberValue(f), nil
}

// suggestion is the default entry for key, or global_default when the
// entry is empty.
func (w *Wizard) suggestion(key style.Key) style.FontStyle {
	entry, ok := w.defaults.Lookup(key)
	if !ok || entry.IsZero() {
		entry = w.defaults.GlobalDefault
	}
	return entry
}

func validateID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("an id is required")
	}
	if preset.SanitizeID(s) != s {
		return errors.New("use letters, digits, '_' or '-' only")
	}
	return nil
}

func validatePositive(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if f <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
