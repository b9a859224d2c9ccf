package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docfmt.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
server:
  address: ":9000"
  max_upload_bytes: 1024
llm:
  model: glm-4
  timeout: 30s
elasticsearch:
  addresses: ["http://es:9200"]
logging:
  level: debug
`)
	t.Setenv("LLM_MODEL", "glm-4-air")
	t.Setenv("ELASTICSEARCH_ADDRESSES", "http://a:9200, http://b:9200")
	t.Setenv("DOCFMT_READ_TIMEOUT", "5s")
	t.Setenv("ELASTICSEARCH_INGEST", "yes")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":9000" || cfg.Server.MaxUploadBytes != 1024 {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected env read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.LLM.Model != "glm-4-air" || cfg.LLM.Timeout != 30*time.Second {
		t.Fatalf("unexpected llm config %+v", cfg.LLM)
	}
	if diff := cmp.Diff([]string{"http://a:9200", "http://b:9200"}, cfg.Elasticsearch.Addresses); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Elasticsearch.Ingest || !cfg.Elasticsearch.Enabled() {
		t.Fatalf("expected ingestion enabled, got %+v", cfg.Elasticsearch)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCFMT_RENDERER=html\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DOCFMT_RENDERER") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Render.DefaultRenderer != "html" {
		t.Fatalf("expected renderer from .env, got %q", cfg.Render.DefaultRenderer)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.LLM.Temperature = 3
	cfg.Elasticsearch.TopK = -1
	cfg.Presets.DisableEmbedded = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"llm.temperature", "elasticsearch.top_k", "presets.dir"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestPathPrefersEnv(t *testing.T) {
	t.Setenv(PathEnv, "/etc/docfmt.yaml")
	if got := Path("docfmt.yaml"); got != "/etc/docfmt.yaml" {
		t.Fatalf("unexpected path %q", got)
	}
}
