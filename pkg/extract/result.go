package extract

import (
	"fmt"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// ParseError describes why model output could not be used.
type ParseError struct {
	Stage  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %s: %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract: %s: %s", e.Stage, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HintsResult carries an extracted style tier. When Err is set the tier is
// empty and the cascade proceeds without it.
type HintsResult struct {
	Hints   style.PartialCatalog
	Ignored []string
	Err     error
}

// Degraded reports whether extraction fell back to an empty tier.
func (r HintsResult) Degraded() bool { return r.Err != nil }

// BlocksResult carries extracted content. Fallback is true when Blocks is the
// single raw-draft block.
type BlocksResult struct {
	Blocks   []dsl.ContentBlock
	Fallback bool
	Err      error
}

// FallbackBlocks wraps the draft verbatim in one body_text block.
func FallbackBlocks(draft string, reason error) BlocksResult {
	return BlocksResult{
		Blocks:   []dsl.ContentBlock{{Type: dsl.BodyText, Text: draft}},
		Fallback: true,
		Err:      reason,
	}
}
