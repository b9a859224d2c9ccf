package template

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Renderer is the seam renderers depend on.
type Renderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(content string, data map[string]any, out ...io.Writer) (string, error)
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
	globals   map[string]any
	autoEsc   bool
}

// WithFS supplies the filesystem named templates are loaded from.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the suffix appended to template names lacking one.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		for key, value := range data {
			if cfg.globals == nil {
				cfg.globals = make(map[string]any, len(data))
			}
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithAutoescape toggles HTML escaping of {{ }} output. It is on by default;
// plain-text consumers such as docx labels turn it off.
func WithAutoescape(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoEsc = enabled
	}
}

// Engine is safe for concurrent use. Parsed templates are cached by name.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	strings   map[string]*pongo2.Template
	ext       string
	autoEsc   bool
}

var _ Renderer = (*Engine)(nil)

// New builds an engine. Without WithFS only RenderString is usable.
func New(options ...Option) *Engine {
	cfg := &config{extension: ".tpl", autoEsc: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	set := pongo2.NewSet("docfmt", loaders...)
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true
	set.Globals = pongo2.Context{}
	set.Globals.Update(cfg.globals)

	return &Engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
		strings:   make(map[string]*pongo2.Template),
		ext:       cfg.extension,
		autoEsc:   cfg.autoEsc,
	}
}

// RenderTemplate executes a named template from the engine filesystem.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("template: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.cached(e.templates, path, func() (*pongo2.Template, error) {
		return e.set.FromFile(path)
	})
	if err != nil {
		return "", fmt.Errorf("template: load %q: %w", path, err)
	}
	return execute(tmpl, data, out)
}

// RenderString executes template source directly. Parsed sources are cached.
func (e *Engine) RenderString(content string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("template: engine is nil")
	}
	tmpl, err := e.fromString(content)
	if err != nil {
		return "", fmt.Errorf("template: parse string: %w", err)
	}
	return execute(tmpl, data, out)
}

// Compile parses content eagerly so configuration errors surface at startup.
func (e *Engine) Compile(content string) error {
	_, err := e.fromString(content)
	return err
}

func (e *Engine) fromString(content string) (*pongo2.Template, error) {
	return e.cached(e.strings, content, func() (*pongo2.Template, error) {
		source := content
		if !e.autoEsc {
			source = "{% autoescape off %}" + content + "{% endautoescape %}"
		}
		return e.set.FromString(source)
	})
}

func (e *Engine) cached(cache map[string]*pongo2.Template, key string, load func() (*pongo2.Template, error)) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := cache[key]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := cache[key]; ok {
		return tmpl, nil
	}
	tmpl, err := load()
	if err != nil {
		return nil, err
	}
	cache[key] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, data map[string]any, out []io.Writer) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("template: execute: %w", err)
	}
	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}
