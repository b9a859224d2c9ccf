package extract

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-docfmt/internal/logger"
)

// Extractor produces the hints tier and the content blocks for a request.
type Extractor interface {
	StyleHints(ctx context.Context, ruleContext, instruction string) HintsResult
	ContentBlocks(ctx context.Context, draft string) BlocksResult
}

// Completer sends one system/user exchange to a language model and returns
// its raw reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

func WithServiceLogger(l logger.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger.OrNop(l)
	}
}

// WithFontTable replaces the bundled font table used in prompts and hint
// normalization.
func WithFontTable(t *FontTable) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.fonts = t
		}
	}
}

// WithMaxRuleContext truncates rule context to n runes before prompting.
func WithMaxRuleContext(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxContext = n
		}
	}
}

// Service extracts hints and blocks through a Completer.
type Service struct {
	completer  Completer
	logger     logger.Logger
	fonts      *FontTable
	maxContext int
}

var _ Extractor = (*Service)(nil)

// NewService wires a completer into an extractor.
func NewService(completer Completer, opts ...ServiceOption) (*Service, error) {
	if completer == nil {
		return nil, errors.New("extract: completer is required")
	}
	s := &Service{
		completer:  completer,
		logger:     logger.NewNop(),
		fonts:      defaultFonts,
		maxContext: 12000,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// StyleHints asks the model for a style tier. With neither rule context nor
// instruction there is nothing to extract and no call is made.
func (s *Service) StyleHints(ctx context.Context, ruleContext, instruction string) HintsResult {
	if strings.TrimSpace(ruleContext) == "" && strings.TrimSpace(instruction) == "" {
		return HintsResult{}
	}
	system, user := hintsPrompts(s.fonts, truncateRunes(ruleContext, s.maxContext), instruction)
	raw, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		s.logger.Warn("style hint extraction failed", logger.Error(err))
		return HintsResult{Err: &ParseError{Stage: "hints", Reason: "completion failed", Err: err}}
	}
	result := ParseHintsWith(raw, s.fonts)
	if result.Err != nil {
		s.logger.Warn("style hints unusable, continuing without them", logger.Error(result.Err))
	} else if len(result.Ignored) > 0 {
		s.logger.Info("style hints contained unknown keys", logger.Strings("ignored", result.Ignored))
	}
	return result
}

// ContentBlocks asks the model to segment the draft.
func (s *Service) ContentBlocks(ctx context.Context, draft string) BlocksResult {
	if strings.TrimSpace(draft) == "" {
		return BlocksResult{}
	}
	system, user := blocksPrompts(draft)
	raw, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		s.logger.Warn("content extraction failed, using raw draft", logger.Error(err))
		return FallbackBlocks(draft, &ParseError{Stage: "blocks", Reason: "completion failed", Err: err})
	}
	result := ParseBlocks(raw, draft)
	if result.Fallback {
		s.logger.Warn("content blocks unusable, using raw draft", logger.Error(result.Err))
	}
	return result
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
