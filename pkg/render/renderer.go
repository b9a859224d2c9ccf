package render

import (
	"context"

	"github.com/goliatone/go-docfmt/pkg/dsl"
)

// Renderer turns a document description into output bytes. Renderers read
// the resolved catalog from the document and never re-derive style
// priority.
type Renderer interface {
	Name() string
	ContentType() string
	// Extension is the file suffix without the dot, e.g. "docx".
	Extension() string
	Render(ctx context.Context, doc dsl.Document) ([]byte, error)
}
