// Package preview renders a document description as a single HTML page that
// approximates the printed layout, for browser previews of a resolved style
// catalog.
package preview

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/render"
	"github.com/goliatone/go-docfmt/pkg/render/template"
	"github.com/goliatone/go-docfmt/pkg/style"
)

const Name = "html"

type Option func(*config)

type config struct {
	templateFS   fs.FS
	placeholders *render.Placeholders
	lang         string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// document.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

func WithPlaceholders(p *render.Placeholders) Option {
	return func(cfg *config) {
		cfg.placeholders = p
	}
}

// WithLang sets the html lang attribute. Defaults to zh-CN.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(lang) != "" {
			cfg.lang = lang
		}
	}
}

type Renderer struct {
	templates    template.Renderer
	placeholders *render.Placeholders
	lang         string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), lang: "zh-CN"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.placeholders == nil {
		p, err := render.NewPlaceholders()
		if err != nil {
			return nil, fmt.Errorf("preview renderer: configure placeholders: %w", err)
		}
		cfg.placeholders = p
	}
	return &Renderer{
		templates:    template.New(template.WithFS(cfg.templateFS)),
		placeholders: cfg.placeholders,
		lang:         cfg.lang,
	}, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *Renderer) Extension() string   { return "html" }

func (r *Renderer) Render(ctx context.Context, doc dsl.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	catalog := doc.Styles()
	blocks := doc.Blocks()
	views := make([]map[string]any, 0, len(blocks))
	for _, block := range blocks {
		effective := render.EffectiveStyle(catalog, block)
		text := block.Text
		color := render.ColorOf(effective)
		if block.Type.IsPlaceholder() {
			label, err := r.placeholders.Label(block)
			if err != nil {
				return nil, fmt.Errorf("preview renderer: block %s: %w", block.ID, err)
			}
			text = label
			color = render.WarningColor
			effective.Align = style.Ptr(style.AlignCenter)
		}
		views = append(views, map[string]any{
			"id":          block.ID,
			"type":        string(block.Type),
			"tag":         tagFor(block.Type),
			"placeholder": block.Type.IsPlaceholder(),
			"css":         CSS(effective, color),
			"lines":       strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"),
		})
	}

	title := doc.MetaValue(dsl.MetaTitle)
	if title == "" {
		title = "Preview " + doc.MetaValue(dsl.MetaInstitution)
	}
	out, err := r.templates.RenderTemplate("document", map[string]any{
		"lang":        r.lang,
		"title":       strings.TrimSpace(title),
		"task_id":     doc.MetaValue(dsl.MetaTaskID),
		"institution": doc.MetaValue(dsl.MetaInstitution),
		"page_style":  CSS(catalog.GlobalDefault, render.ColorOf(catalog.GlobalDefault)),
		"blocks":      views,
	})
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render template: %w", err)
	}
	return []byte(out), nil
}

// CSS renders a style as inline declarations in a fixed property order.
func CSS(s style.FontStyle, color render.RGB) string {
	var decls []string
	if s.Family != nil && *s.Family != "" {
		decls = append(decls, "font-family: "+cssString(*s.Family))
	}
	if s.Size != nil {
		decls = append(decls, "font-size: "+points(*s.Size))
	}
	if s.Bold != nil {
		weight := "normal"
		if *s.Bold {
			weight = "bold"
		}
		decls = append(decls, "font-weight: "+weight)
	}
	if s.Italic != nil {
		fontStyle := "normal"
		if *s.Italic {
			fontStyle = "italic"
		}
		decls = append(decls, "font-style: "+fontStyle)
	}
	if s.Align != nil {
		decls = append(decls, "text-align: "+strings.ToLower(string(*s.Align)))
	}
	if s.LineSpacing != nil {
		decls = append(decls, "line-height: "+strconv.FormatFloat(*s.LineSpacing, 'f', -1, 64))
	}
	decls = append(decls, "color: #"+color.Hex())
	if s.SpaceBefore != nil {
		decls = append(decls, "margin-top: "+points(*s.SpaceBefore))
	}
	if s.SpaceAfter != nil {
		decls = append(decls, "margin-bottom: "+points(*s.SpaceAfter))
	}
	return strings.Join(decls, "; ")
}

// cssString quotes s as a CSS string. Quotes, backslashes, markup
// characters and controls become hex escapes, so the result is safe both
// inside a <style> element and an attribute.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"', r == '\\', r == '<', r == '>', r == '&', r == '\'', r < 0x20, r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func points(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}

func tagFor(t dsl.ContentType) string {
	switch t {
	case dsl.Heading1:
		return "h1"
	case dsl.Heading2:
		return "h2"
	case dsl.Heading3:
		return "h3"
	default:
		return "p"
	}
}
