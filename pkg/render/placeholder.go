package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/render/template"
)

// Default placeholder label templates. The template sees "source" (the
// block payload, falling back to its text) and "block".
const (
	DefaultImageLabel = "[图片占位符{% if source %}: {{ source }}{% endif %}]"
	DefaultTableLabel = "[表格占位符{% if source %}: {{ source }}{% endif %}]"
)

// Placeholders renders the bracketed labels shown in place of image and
// table hooks.
type Placeholders struct {
	engine *template.Engine
	labels map[dsl.ContentType]string
}

// PlaceholderOption customises Placeholders.
type PlaceholderOption func(*Placeholders)

// WithLabel replaces the label template for a placeholder type.
func WithLabel(t dsl.ContentType, tmpl string) PlaceholderOption {
	return func(p *Placeholders) {
		if strings.TrimSpace(tmpl) != "" {
			p.labels[t] = tmpl
		}
	}
}

// NewPlaceholders compiles the label templates eagerly.
func NewPlaceholders(opts ...PlaceholderOption) (*Placeholders, error) {
	p := &Placeholders{
		engine: template.New(template.WithAutoescape(false)),
		labels: map[dsl.ContentType]string{
			dsl.ImageHook: DefaultImageLabel,
			dsl.TableHook: DefaultTableLabel,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	for t, tmpl := range p.labels {
		if err := p.engine.Compile(tmpl); err != nil {
			return nil, fmt.Errorf("render: compile %s label: %w", t, err)
		}
	}
	return p, nil
}

// Label returns the placeholder text for block. Non-placeholder types use
// the image template's shape with their own text.
func (p *Placeholders) Label(block dsl.ContentBlock) (string, error) {
	tmpl, ok := p.labels[block.Type]
	if !ok {
		tmpl = DefaultImageLabel
	}
	source := strings.TrimSpace(block.SourceData)
	if source == "" {
		source = strings.TrimSpace(block.Text)
	}
	label, err := p.engine.RenderString(tmpl, map[string]any{
		"source": source,
		"block":  map[string]any{"id": block.ID, "type": string(block.Type), "text": block.Text},
	})
	if err != nil {
		return "", fmt.Errorf("render: %s label: %w", block.Type, err)
	}
	return label, nil
}
