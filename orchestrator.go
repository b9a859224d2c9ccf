// Package docfmt formats academic paper drafts into institution-styled
// documents. It re-exports the orchestrator so callers can start from a
// single import.
package docfmt

import (
	"context"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// Document is the assembled document handed to renderers.
type Document = dsl.Document

// Catalog is a fully resolved style catalog.
type Catalog = style.Catalog

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate formats req with a one-off orchestrator. Without options it runs
// offline: embedded presets, heuristic extraction and the docx renderer.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Generate(ctx, req)
}

// Resolve runs only the style cascade for req.
func Resolve(ctx context.Context, req Request, options ...orchestrator.Option) (Catalog, error) {
	return orchestrator.New(options...).Resolve(ctx, req)
}
