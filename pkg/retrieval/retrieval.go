// Package retrieval stores institution rule documents and returns the
// passages most relevant to a formatting query.
package retrieval

import (
	"context"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the chunk length, in runes, used when splitting rule
// documents.
const DefaultChunkSize = 1000

// DefaultTopK is the number of passages returned by a search.
const DefaultTopK = 4

// DefaultQuery asks for the rules that carry typography requirements.
const DefaultQuery = "字体 字号 行距 标题格式 页边距"

// Retriever returns rule context for an institution.
type Retriever interface {
	Search(ctx context.Context, query, institutionID string) (string, error)
}

// Ingester stores rule text for later retrieval and reports the number of
// chunks written.
type Ingester interface {
	Ingest(ctx context.Context, institutionID, text string) (int, error)
}

// Nop retrieves nothing and ingests nothing.
type Nop struct{}

var (
	_ Retriever = Nop{}
	_ Ingester  = Nop{}
)

func (Nop) Search(context.Context, string, string) (string, error) { return "", nil }

func (Nop) Ingest(context.Context, string, string) (int, error) { return 0, nil }

// Chunk splits text into consecutive pieces of at most size runes. Blank
// pieces are dropped. A non-positive size uses DefaultChunkSize.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	var b strings.Builder
	n := 0
	flush := func() {
		if piece := b.String(); strings.TrimSpace(piece) != "" {
			chunks = append(chunks, piece)
		}
		b.Reset()
		n = 0
	}
	for _, r := range text {
		b.WriteRune(r)
		n++
		if n == size {
			flush()
		}
	}
	if n > 0 {
		flush()
	}
	return chunks
}
