package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/goliatone/go-docfmt/internal/logger"
	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/render"
)

const (
	// Name is the registry name of this renderer.
	Name = "docx"
	// MediaType is the IANA media type of the output.
	MediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Option customises the renderer.
type Option func(*Renderer)

// WithLogger reports blocks of unknown type, which still render as text.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger.OrNop(l)
	}
}

// WithPlaceholders replaces the image/table label renderer.
func WithPlaceholders(p *render.Placeholders) Option {
	return func(r *Renderer) {
		if p != nil {
			r.placeholders = p
		}
	}
}

// WithPage sets the page size and margins of the single section.
func WithPage(page PageSetup) Option {
	return func(r *Renderer) {
		r.page = page
	}
}

// WithClock fixes the timestamps written into the package.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// Renderer is safe for concurrent use.
type Renderer struct {
	logger       logger.Logger
	placeholders *render.Placeholders
	page         PageSetup
	now          func() time.Time
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		logger: logger.NewNop(),
		page:   A4(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.placeholders == nil {
		p, err := render.NewPlaceholders()
		if err != nil {
			return nil, fmt.Errorf("docx: configure placeholders: %w", err)
		}
		r.placeholders = p
	}
	return r, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return MediaType }
func (r *Renderer) Extension() string   { return "docx" }

// Render builds the complete .docx package for doc.
func (r *Renderer) Render(ctx context.Context, doc dsl.Document) ([]byte, error) {
	body, err := r.buildBody(ctx, doc)
	if err != nil {
		return nil, err
	}
	catalog := doc.Styles()
	created := r.now().UTC()

	parts := []part{
		{name: "[Content_Types].xml", data: []byte(contentTypesXML)},
		{name: "_rels/.rels", data: []byte(packageRelsXML)},
		{name: "docProps/app.xml", data: []byte(appXML)},
		{name: "docProps/core.xml", value: coreProperties(doc, created)},
		{name: "word/_rels/document.xml.rels", data: []byte(documentRelsXML)},
		{name: "word/styles.xml", value: buildStyles(catalog)},
		{name: "word/document.xml", value: xmlDocument{
			XmlnsW: nsW,
			XmlnsR: nsR,
			Body:   xmlBody{Paragraphs: body, SectPr: r.page.sectPr()},
		}},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		if err := p.write(zw, created); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("docx: write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) buildBody(ctx context.Context, doc dsl.Document) ([]xmlParagraph, error) {
	catalog := doc.Styles()
	blocks := doc.Blocks()
	paragraphs := make([]xmlParagraph, 0, len(blocks))

	for i, block := range blocks {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		effective := render.EffectiveStyle(catalog, block)

		if block.Type.IsPlaceholder() {
			label, err := r.placeholders.Label(block)
			if err != nil {
				return nil, fmt.Errorf("docx: block %s: %w", block.ID, err)
			}
			paragraphs = append(paragraphs, placeholderParagraph(effective, label))
			continue
		}
		if !block.Type.Known() {
			r.logger.Warn("unknown block type rendered as text",
				logger.String("block_id", block.ID),
				logger.String("type", string(block.Type)),
			)
		}
		paragraphs = append(paragraphs, textParagraph(block.Type, effective, block.Text))
	}
	return paragraphs, nil
}

type part struct {
	name  string
	data  []byte
	value any
}

func (p part) write(zw *zip.Writer, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     p.name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	if p.value == nil {
		_, err = w.Write(p.data)
		return err
	}
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(p.value)
}
