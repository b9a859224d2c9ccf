package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-docfmt/pkg/dsl"
)

var (
	imagePattern   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]*)\)$`)
	tablePattern   = regexp.MustCompile(`(?i)^\[(?:table|表格?)\s*[:：]\s*(.*)\]$`)
	captionPattern = regexp.MustCompile(`^(?:Figure|Fig\.|Table|图|表)\s*\d`)
)

// Heuristic extracts blocks from lightly marked-up drafts without a model:
// '#'-style headings, caption lines, ![alt](src) images, [table: ...]
// markers and blank-line separated paragraphs. Style hints are only
// available when the instruction itself is a JSON catalog.
type Heuristic struct{}

var _ Extractor = Heuristic{}

func (Heuristic) StyleHints(_ context.Context, _, instruction string) HintsResult {
	trimmed := strings.TrimSpace(instruction)
	if !strings.HasPrefix(StripFences(trimmed), "{") {
		return HintsResult{}
	}
	return ParseHints(trimmed)
}

func (Heuristic) ContentBlocks(_ context.Context, draft string) BlocksResult {
	var (
		blocks    []dsl.ContentBlock
		paragraph []string
	)
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, dsl.ContentBlock{Type: dsl.BodyText, Text: joinLines(paragraph)})
		paragraph = nil
	}

	for _, rawLine := range strings.Split(strings.ReplaceAll(draft, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			flush()
			continue
		}
		if block, ok := classifyLine(line); ok {
			flush()
			blocks = append(blocks, block)
			continue
		}
		paragraph = append(paragraph, line)
	}
	flush()
	return BlocksResult{Blocks: blocks}
}

func classifyLine(line string) (dsl.ContentBlock, bool) {
	switch {
	case strings.HasPrefix(line, "#"):
		level := len(line) - len(strings.TrimLeft(line, "#"))
		text := strings.TrimSpace(line[level:])
		if text == "" {
			return dsl.ContentBlock{}, false
		}
		t := dsl.Heading3
		switch level {
		case 1:
			t = dsl.Heading1
		case 2:
			t = dsl.Heading2
		}
		return dsl.ContentBlock{Type: t, Text: text}, true
	case imagePattern.MatchString(line):
		m := imagePattern.FindStringSubmatch(line)
		return dsl.ContentBlock{Type: dsl.ImageHook, Text: m[1], SourceData: m[2]}, true
	case tablePattern.MatchString(line):
		m := tablePattern.FindStringSubmatch(line)
		return dsl.ContentBlock{Type: dsl.TableHook, SourceData: strings.TrimSpace(m[1])}, true
	case captionPattern.MatchString(line):
		return dsl.ContentBlock{Type: dsl.Caption, Text: line}, true
	}
	return dsl.ContentBlock{}, false
}

// joinLines rejoins a wrapped paragraph, using a space only between
// non-CJK neighbours.
func joinLines(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			prev, _ := lastRune(lines[i-1])
			next, _ := firstRune(line)
			if !isCJK(prev) && !isCJK(next) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || (r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func lastRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0, false
	}
	return runes[len(runes)-1], true
}
