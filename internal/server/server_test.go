package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfmt/internal/config"
	"github.com/goliatone/go-docfmt/pkg/orchestrator"
	"github.com/goliatone/go-docfmt/pkg/preset"
	"github.com/goliatone/go-docfmt/pkg/style"
	"github.com/goliatone/go-docfmt/pkg/testsupport"
)

func newTestServer(t *testing.T, maxUpload int64) *Server {
	t.Helper()
	orch := orchestrator.New(orchestrator.WithPresets(preset.Map{
		"nju": {style.KeyHeading1: {Family: style.StringValue("KaiTi")}},
	}))
	srv, err := New(context.Background(), config.ServerConfig{MaxUploadBytes: maxUpload}, orch)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

type formFile struct {
	field, name, body string
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(part, f.body); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	rec := serve(newTestServer(t, 0), httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"docx"`) {
		t.Fatalf("expected renderers in body, got %s", rec.Body.String())
	}
}

func TestEveryRouteIsDocumented(t *testing.T) {
	srv := newTestServer(t, 0)
	for _, route := range srv.router.Routes() {
		path := strings.ReplaceAll(route.Path, ":id", "{id}")
		item := srv.apiDoc.Paths.Find(path)
		if item == nil {
			t.Fatalf("route %s %s missing from the API document", route.Method, route.Path)
		}
		if item.GetOperation(route.Method) == nil {
			t.Fatalf("route %s %s has no documented operation", route.Method, route.Path)
		}
	}

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "generateDocument") {
		t.Fatalf("unexpected openapi response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateReturnsDocx(t *testing.T) {
	srv := newTestServer(t, 0)
	req := multipartRequest(t,
		map[string]string{"school_id": "nju", "style_override": `{"body_text":{"size":14}}`},
		formFile{field: "source_file", name: "draft.md", body: "# 引言\n\n研究背景。"},
	)
	rec := serve(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse disposition: %v", err)
	}
	if params["filename"] != "Paper_nju.docx" {
		t.Fatalf("unexpected filename %q", params["filename"])
	}
	if rec.Header().Get(HeaderTaskID) == "" {
		t.Fatal("expected task id header")
	}

	pkg := testsupport.ReadDocx(t, rec.Body.Bytes())
	var texts []string
	var bodySize string
	for _, p := range pkg.Paragraphs {
		if text := p.Text(); text != "" {
			texts = append(texts, text)
			if text == "研究背景。" {
				bodySize = p.Runs[0].Size
			}
		}
	}
	if diff := cmp.Diff([]string{"引言", "研究背景。"}, texts); diff != "" {
		t.Fatalf("paragraphs mismatch (-want +got):\n%s", diff)
	}
	if bodySize != "28" {
		t.Fatalf("expected override size 14pt (28 half-points), got %q", bodySize)
	}
}

func TestGenerateAcceptsPDFRules(t *testing.T) {
	srv := newTestServer(t, 0)
	req := multipartRequest(t,
		map[string]string{"school_id": "nju"},
		formFile{field: "source_file", name: "draft.txt", body: "引言\n\n研究背景。"},
		formFile{field: "rule_file", name: "rules.pdf", body: string(testsupport.PDF("Body text: SimSun 12pt"))},
	)
	rec := serve(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testsupport.ReadDocx(t, rec.Body.Bytes())
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
		files  []formFile
		status int
		code   string
	}{
		{
			name:   "missing school",
			files:  []formFile{{field: "source_file", name: "a.txt", body: "x"}},
			status: http.StatusBadRequest,
			code:   CodeInvalidRequest,
		},
		{
			name:   "missing source",
			fields: map[string]string{"school_id": "nju"},
			status: http.StatusBadRequest,
			code:   CodeInvalidRequest,
		},
		{
			name:   "legacy doc rules",
			fields: map[string]string{"school_id": "nju"},
			files: []formFile{
				{field: "source_file", name: "a.txt", body: "x"},
				{field: "rule_file", name: "rules.doc", body: "\xd0\xcf\x11\xe0"},
			},
			status: http.StatusUnsupportedMediaType,
			code:   CodeUnsupported,
		},
		{
			name:   "malformed pdf rules",
			fields: map[string]string{"school_id": "nju"},
			files: []formFile{
				{field: "source_file", name: "a.txt", body: "x"},
				{field: "rule_file", name: "rules.pdf", body: "%PDF-1.4"},
			},
			status: http.StatusBadRequest,
			code:   CodeInvalidRequest,
		},
		{
			name:   "malformed override",
			fields: map[string]string{"school_id": "nju", "style_override": "{"},
			files:  []formFile{{field: "source_file", name: "a.txt", body: "x"}},
			status: http.StatusBadRequest,
			code:   CodeInvalidRequest,
		},
		{
			name:   "invalid override value",
			fields: map[string]string{"school_id": "nju", "style_override": `{"heading_1":{"bold":"maybe"}}`},
			files:  []formFile{{field: "source_file", name: "a.txt", body: "x"}},
			status: http.StatusUnprocessableEntity,
			code:   CodeValidation,
		},
		{
			name:   "unknown renderer",
			fields: map[string]string{"school_id": "nju", "renderer": "pdf"},
			files:  []formFile{{field: "source_file", name: "a.txt", body: "x"}},
			status: http.StatusBadRequest,
			code:   CodeInvalidRequest,
		},
	}

	srv := newTestServer(t, 0)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(srv, multipartRequest(t, tc.fields, tc.files...))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, got)
			}
		})
	}
}

func TestGenerateEnforcesUploadLimit(t *testing.T) {
	srv := newTestServer(t, 256)
	req := multipartRequest(t,
		map[string]string{"school_id": "nju"},
		formFile{field: "source_file", name: "a.txt", body: strings.Repeat("正文", 400)},
	)
	rec := serve(srv, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestResolve(t *testing.T) {
	srv := newTestServer(t, 0)
	body := `{"school_id":"nju","style_override":{"heading_1":{"align":"right"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		StyleConfig style.Catalog `json:"style_config"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	h1 := resp.StyleConfig.Heading1
	if h1.Family == nil || *h1.Family != "KaiTi" {
		t.Fatalf("expected preset family, got %+v", h1)
	}
	if h1.Align == nil || *h1.Align != style.AlignRight {
		t.Fatalf("expected normalized RIGHT alignment, got %+v", h1.Align)
	}
}

func TestResolveValidationDetails(t *testing.T) {
	srv := newTestServer(t, 0)
	body := `{"style_override":{"caption":{"size":"huge"},"heading_2":{"align":"diagonal"}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(srv, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeError(t, rec)
	var got []string
	for _, d := range resp.Details {
		got = append(got, d.Key+"."+d.Field)
	}
	if diff := cmp.Diff([]string{"heading_2.align", "caption.size"}, got); diff != "" {
		t.Fatalf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestPresets(t *testing.T) {
	srv := newTestServer(t, 0)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Presets []string `json:"presets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"nju"}, list.Presets); diff != "" {
		t.Fatalf("presets mismatch (-want +got):\n%s", diff)
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/presets/nju", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var shown struct {
		ID       string        `json:"id"`
		Resolved style.Catalog `json:"resolved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &shown); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if shown.ID != "nju" || *shown.Resolved.Heading1.Family != "KaiTi" {
		t.Fatalf("unexpected preset response %s", rec.Body.String())
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/v1/presets/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMetricsCountRequests(t *testing.T) {
	srv := newTestServer(t, 0)
	serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := `docfmt_http_requests_total{method="GET",outcome="success",route="/health"} 1`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("expected %q in metrics output", want)
	}
}
