package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"github.com/goliatone/go-docfmt/internal/logger"
)

// DefaultIndex holds rule chunks for every institution.
const DefaultIndex = "style_rules"

const indexMapping = `{
  "mappings": {
    "properties": {
      "institution_id": {"type": "keyword"},
      "content":        {"type": "text"},
      "chunk":          {"type": "integer"},
      "ingested_at":    {"type": "date"}
    }
  }
}`

// ElasticOption customises an Elastic store.
type ElasticOption func(*Elastic)

// WithIndex overrides the index name.
func WithIndex(name string) ElasticOption {
	return func(e *Elastic) {
		if name = strings.TrimSpace(name); name != "" {
			e.index = name
		}
	}
}

// WithTopK sets how many passages Search returns.
func WithTopK(k int) ElasticOption {
	return func(e *Elastic) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithChunkSize sets the rune length of ingested chunks.
func WithChunkSize(n int) ElasticOption {
	return func(e *Elastic) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

func WithLogger(l logger.Logger) ElasticOption {
	return func(e *Elastic) {
		e.logger = logger.OrNop(l)
	}
}

// Elastic keeps rule chunks in an Elasticsearch index and ranks them with a
// full-text match filtered by institution.
type Elastic struct {
	client    *es.Client
	index     string
	topK      int
	chunkSize int
	logger    logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	ensured bool
}

var (
	_ Retriever = (*Elastic)(nil)
	_ Ingester  = (*Elastic)(nil)
)

// NewElastic wraps an existing client.
func NewElastic(client *es.Client, opts ...ElasticOption) (*Elastic, error) {
	if client == nil {
		return nil, errors.New("retrieval: elasticsearch client is required")
	}
	e := &Elastic{
		client:    client,
		index:     DefaultIndex,
		topK:      DefaultTopK,
		chunkSize: DefaultChunkSize,
		logger:    logger.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Index reports the index name in use.
func (e *Elastic) Index() string {
	return e.index
}

// EnsureIndex creates the rule index with its mapping when it does not exist.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ensured {
		return nil
	}

	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("retrieval: check index %s: %w", e.index, err)
	}
	drain(res.Body)

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		created, err := e.client.Indices.Create(
			e.index,
			e.client.Indices.Create.WithContext(ctx),
			e.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		)
		if err != nil {
			return fmt.Errorf("retrieval: create index %s: %w", e.index, err)
		}
		defer created.Body.Close()
		if created.IsError() {
			return fmt.Errorf("retrieval: create index %s: %s", e.index, created.String())
		}
		e.logger.Info("created rule index", logger.String("index", e.index))
	default:
		return fmt.Errorf("retrieval: check index %s: unexpected status %d", e.index, res.StatusCode)
	}

	e.ensured = true
	return nil
}

type ruleDocument struct {
	InstitutionID string    `json:"institution_id"`
	Content       string    `json:"content"`
	Chunk         int       `json:"chunk"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// Ingest splits text into chunks and indexes each one tagged with the
// institution. The index is refreshed after the last chunk.
func (e *Elastic) Ingest(ctx context.Context, institutionID, text string) (int, error) {
	institutionID = strings.TrimSpace(institutionID)
	if institutionID == "" {
		return 0, errors.New("retrieval: institution id is required")
	}
	chunks := Chunk(text, e.chunkSize)
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := e.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	ingestedAt := e.now().UTC()
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		body, err := json.Marshal(ruleDocument{
			InstitutionID: institutionID,
			Content:       chunk,
			Chunk:         i,
			IngestedAt:    ingestedAt,
		})
		if err != nil {
			return i, fmt.Errorf("retrieval: encode chunk %d: %w", i, err)
		}

		refresh := "false"
		if i == len(chunks)-1 {
			refresh = "true"
		}
		res, err := e.client.Index(
			e.index,
			bytes.NewReader(body),
			e.client.Index.WithContext(ctx),
			e.client.Index.WithDocumentID(uuid.NewString()),
			e.client.Index.WithRefresh(refresh),
		)
		if err != nil {
			return i, fmt.Errorf("retrieval: index chunk %d: %w", i, err)
		}
		if res.IsError() {
			msg := res.String()
			drain(res.Body)
			return i, fmt.Errorf("retrieval: index chunk %d: %s", i, msg)
		}
		drain(res.Body)
	}

	e.logger.Info("ingested rule document",
		logger.String("institution", institutionID),
		logger.Int("chunks", len(chunks)),
	)
	return len(chunks), nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source ruleDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns the top passages for query, restricted to institutionID
// when one is given, joined by blank lines. A missing index yields no
// context.
func (e *Elastic) Search(ctx context.Context, query, institutionID string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultQuery
	}

	body, err := json.Marshal(searchBody(query, strings.TrimSpace(institutionID), e.topK))
	if err != nil {
		return "", fmt.Errorf("retrieval: encode query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return "", fmt.Errorf("retrieval: search %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		e.logger.Debug("rule index not found", logger.String("index", e.index))
		return "", nil
	}
	if res.IsError() {
		return "", fmt.Errorf("retrieval: search %s: %s", e.index, res.String())
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("retrieval: decode search response: %w", err)
	}

	passages := make([]string, 0, len(decoded.Hits.Hits))
	for _, hit := range decoded.Hits.Hits {
		if content := strings.TrimSpace(hit.Source.Content); content != "" {
			passages = append(passages, content)
		}
	}
	return strings.Join(passages, "\n\n"), nil
}

func searchBody(query, institutionID string, k int) map[string]any {
	boolQuery := map[string]any{
		"must": []any{
			map[string]any{"match": map[string]any{"content": query}},
		},
	}
	if institutionID != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"institution_id": institutionID}},
		}
	}
	return map[string]any{
		"size":    k,
		"query":   map[string]any{"bool": boolQuery},
		"_source": []string{"content", "institution_id", "chunk"},
	}
}

func drain(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
