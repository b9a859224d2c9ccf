package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/google/go-cmp/cmp"
)

func TestChunkSplitsOnRunes(t *testing.T) {
	got := Chunk("正文宋体小四号abc", 4)
	want := []string{"正文宋体", "小四号a", "bc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkDropsBlankInput(t *testing.T) {
	if got := Chunk("  \n\t", 10); got != nil {
		t.Fatalf("expected no chunks, got %q", got)
	}
	got := Chunk("abcd    ", 4)
	if diff := cmp.Diff([]string{"abcd"}, got); diff != "" {
		t.Fatalf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkDefaultSize(t *testing.T) {
	text := strings.Repeat("字", DefaultChunkSize+1)
	got := Chunk(text, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[1] != "字" {
		t.Fatalf("unexpected tail chunk %q", got[1])
	}
}

func TestNopIsEmpty(t *testing.T) {
	ctx := context.Background()
	text, err := Nop{}.Search(ctx, "q", "inst")
	if err != nil || text != "" {
		t.Fatalf("expected empty search, got %q, %v", text, err)
	}
	n, err := Nop{}.Ingest(ctx, "inst", "rules")
	if err != nil || n != 0 {
		t.Fatalf("expected no ingest, got %d, %v", n, err)
	}
}

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

type mockTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
	handle   func(req *http.Request) (int, string)
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}
	m.mu.Lock()
	m.requests = append(m.requests, recordedRequest{Method: req.Method, Path: req.URL.Path, Body: body})
	m.mu.Unlock()

	status, payload := m.handle(req)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(payload)),
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
	}, nil
}

func (m *mockTransport) recorded() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

func newTestElastic(t *testing.T, handle func(req *http.Request) (int, string), opts ...ElasticOption) (*Elastic, *mockTransport) {
	t.Helper()
	transport := &mockTransport{handle: handle}
	client, err := es.NewClient(es.Config{Transport: transport})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	store, err := NewElastic(client, opts...)
	if err != nil {
		t.Fatalf("new elastic: %v", err)
	}
	return store, transport
}

func TestNewElasticRequiresClient(t *testing.T) {
	if _, err := NewElastic(nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestSearchBuildsFilteredQuery(t *testing.T) {
	store, transport := newTestElastic(t, func(req *http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"hits":[
			{"_source":{"content":"正文采用宋体小四","institution_id":"nju"}},
			{"_source":{"content":"  "}},
			{"_source":{"content":"一级标题黑体三号居中","institution_id":"nju"}}
		]}}`
	}, WithTopK(2))

	got, err := store.Search(context.Background(), "", "nju")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if want := "正文采用宋体小四\n\n一级标题黑体三号居中"; got != want {
		t.Fatalf("search result mismatch:\nwant %q\ngot  %q", want, got)
	}

	reqs := transport.recorded()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Path != "/style_rules/_search" {
		t.Fatalf("unexpected path %q", reqs[0].Path)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := map[string]any{
		"size": float64(2),
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"match": map[string]any{"content": DefaultQuery}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"institution_id": "nju"}},
				},
			},
		},
		"_source": []any{"content", "institution_id", "chunk"},
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchWithoutInstitutionSkipsFilter(t *testing.T) {
	body := searchBody("行距", "", 4)
	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	if _, ok := boolQuery["filter"]; ok {
		t.Fatalf("expected no filter, got %v", boolQuery)
	}
}

func TestSearchMissingIndexIsEmpty(t *testing.T) {
	store, _ := newTestElastic(t, func(req *http.Request) (int, string) {
		return http.StatusNotFound, `{"error":{"type":"index_not_found_exception"},"status":404}`
	})
	got, err := store.Search(context.Background(), "字号", "nju")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestSearchServerError(t *testing.T) {
	store, _ := newTestElastic(t, func(req *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":{"type":"parsing_exception"},"status":400}`
	})
	if _, err := store.Search(context.Background(), "字号", "nju"); err == nil {
		t.Fatal("expected error for failed search")
	}
}

func TestIngestCreatesIndexAndIndexesChunks(t *testing.T) {
	store, transport := newTestElastic(t, func(req *http.Request) (int, string) {
		switch {
		case req.Method == http.MethodHead:
			return http.StatusNotFound, ``
		case req.Method == http.MethodPut && req.URL.Path == "/rules":
			return http.StatusOK, `{"acknowledged":true}`
		default:
			return http.StatusCreated, `{"result":"created"}`
		}
	}, WithIndex("rules"), WithChunkSize(3))

	n, err := store.Ingest(context.Background(), "nju", "宋体小四行距")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 chunks, got %d", n)
	}

	reqs := transport.recorded()
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requests, got %d: %+v", len(reqs), reqs)
	}
	if reqs[0].Method != http.MethodHead || reqs[0].Path != "/rules" {
		t.Fatalf("unexpected exists request %+v", reqs[0])
	}
	if reqs[1].Method != http.MethodPut || !strings.Contains(reqs[1].Body, `"institution_id"`) {
		t.Fatalf("unexpected create request %+v", reqs[1])
	}

	var contents []string
	for _, req := range reqs[2:] {
		if !strings.HasPrefix(req.Path, "/rules/_doc/") {
			t.Fatalf("unexpected index path %q", req.Path)
		}
		var doc ruleDocument
		if err := json.Unmarshal([]byte(req.Body), &doc); err != nil {
			t.Fatalf("decode document: %v", err)
		}
		if doc.InstitutionID != "nju" {
			t.Fatalf("unexpected institution %q", doc.InstitutionID)
		}
		contents = append(contents, doc.Content)
	}
	if diff := cmp.Diff([]string{"宋体小", "四行距"}, contents); diff != "" {
		t.Fatalf("chunk contents mismatch (-want +got):\n%s", diff)
	}

	// The index is only checked once per store.
	if _, err := store.Ingest(context.Background(), "nju", "abc"); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if got := len(transport.recorded()); got != 5 {
		t.Fatalf("expected 5 requests after second ingest, got %d", got)
	}
}

func TestIngestRequiresInstitution(t *testing.T) {
	store, transport := newTestElastic(t, func(req *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})
	if _, err := store.Ingest(context.Background(), " ", "rules"); err == nil {
		t.Fatal("expected error for empty institution")
	}
	n, err := store.Ingest(context.Background(), "nju", "   ")
	if err != nil || n != 0 {
		t.Fatalf("expected no-op for blank text, got %d, %v", n, err)
	}
	if got := len(transport.recorded()); got != 0 {
		t.Fatalf("expected no requests, got %d", got)
	}
}
