package orchestrator

import (
	"context"

	"github.com/goliatone/go-docfmt/pkg/dsl"
)

// Transformer rewrites extracted content blocks before the document is
// built. Implementations may drop, reorder or retype blocks.
type Transformer interface {
	Transform(ctx context.Context, blocks []dsl.ContentBlock) ([]dsl.ContentBlock, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, blocks []dsl.ContentBlock) ([]dsl.ContentBlock, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, blocks []dsl.ContentBlock) ([]dsl.ContentBlock, error) {
	if fn == nil {
		return blocks, nil
	}
	return fn(ctx, blocks)
}

// Chain runs transformers in order, feeding each the previous output.
type Chain []Transformer

func (c Chain) Transform(ctx context.Context, blocks []dsl.ContentBlock) ([]dsl.ContentBlock, error) {
	var err error
	for _, t := range c {
		if t == nil {
			continue
		}
		if blocks, err = t.Transform(ctx, blocks); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}
