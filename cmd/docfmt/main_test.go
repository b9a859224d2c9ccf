package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfmt/pkg/style"
)

// isolate runs the command from an empty directory with no LLM or search
// backends configured.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"DOCFMT_CONFIG", "ENV_FILE", "LLM_API_KEY", "ELASTICSEARCH_ADDRESSES", "DOCFMT_PRESETS_DIR"} {
		t.Setenv(key, "")
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(newApp(&stdout, &stderr))
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestResolvePrintsCatalog(t *testing.T) {
	isolate(t)

	out, err := run(t, "resolve", "--school", "cn_undergraduate")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var catalog style.Catalog
	if err := json.Unmarshal([]byte(out), &catalog); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got := *catalog.Caption.Family; got != "KaiTi" {
		t.Fatalf("caption family = %q", got)
	}
	if got := *catalog.Heading1.SpaceBefore; got != 24 {
		t.Fatalf("heading_1 space_before = %v", got)
	}
}

func TestResolveAppliesOverrideFile(t *testing.T) {
	dir := isolate(t)
	override := filepath.Join(dir, "override.yaml")
	if err := os.WriteFile(override, []byte("body_text:\n  family: FangSong\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "resolve", "--school", "cn_undergraduate", "--override", override)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var catalog style.Catalog
	if err := json.Unmarshal([]byte(out), &catalog); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := *catalog.BodyText.Family; got != "FangSong" {
		t.Fatalf("body_text family = %q", got)
	}
}

func TestGenerateThenRender(t *testing.T) {
	dir := isolate(t)
	draft := filepath.Join(dir, "draft.md")
	if err := os.WriteFile(draft, []byte("# 绪论\n\n本文研究排版。\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	docPath := filepath.Join(dir, "paper.docx")
	dslPath := filepath.Join(dir, "paper.json")
	if _, err := run(t, "generate", draft, "--school", "cn_undergraduate", "-o", docPath, "--dsl", dslPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("output is not a zip package")
	}

	htmlPath := filepath.Join(dir, "paper.html")
	if _, err := run(t, "render", dslPath, "-r", "html", "-o", htmlPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), "绪论") {
		t.Fatalf("html preview is missing the heading:\n%s", html)
	}
}

func TestGenerateDefaultsFilename(t *testing.T) {
	dir := isolate(t)
	draft := filepath.Join(dir, "draft.txt")
	if err := os.WriteFile(draft, []byte("正文"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "generate", draft, "--school", "nju"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Paper_nju.docx")); err != nil {
		t.Fatalf("expected default output name: %v", err)
	}
}

func TestGenerateRejectsUnsupportedDraft(t *testing.T) {
	dir := isolate(t)
	draft := filepath.Join(dir, "draft.doc")
	if err := os.WriteFile(draft, []byte("\xd0\xcf\x11\xe0"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "generate", draft); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestPresetList(t *testing.T) {
	isolate(t)
	out, err := run(t, "preset", "list")
	if err != nil {
		t.Fatalf("preset list: %v", err)
	}
	for _, id := range []string{"cn_undergraduate", "generic_thesis"} {
		if !strings.Contains(out, id) {
			t.Fatalf("missing %s in:\n%s", id, out)
		}
	}
}

func TestPresetShowMissing(t *testing.T) {
	isolate(t)
	if _, err := run(t, "preset", "show", "nope"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestIngestRequiresElasticsearch(t *testing.T) {
	dir := isolate(t)
	rules := filepath.Join(dir, "rules.txt")
	if err := os.WriteFile(rules, []byte("正文小四宋体"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "ingest", rules, "--school", "nju")
	if err == nil || !strings.Contains(err.Error(), "elasticsearch is not configured") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSavePreset(t *testing.T) {
	dir := t.TempDir()
	tier := style.PartialCatalog{style.KeyBodyText: {Family: style.StringValue("KaiTi"), Size: style.NumberValue(12)}}

	path, err := savePreset(dir, "demo", tier, false)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, ignored, err := style.ParseYAML(data)
	if err != nil || len(ignored) > 0 {
		t.Fatalf("parse saved preset: %v %v", err, ignored)
	}
	want, err := tier.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	gotCatalog, err := got.Catalog()
	if err != nil {
		t.Fatalf("saved preset does not validate: %v", err)
	}
	if diff := cmp.Diff(want, gotCatalog); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := savePreset(dir, "demo", tier, false); err == nil {
		t.Fatal("expected existing preset to be kept")
	}
	if _, err := savePreset(dir, "demo", tier, true); err != nil {
		t.Fatalf("forced save: %v", err)
	}
}

func TestReadOverrideRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "o.json")
	if err := os.WriteFile(path, []byte(`{"footer": {"size": 9}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readOverride(path); err == nil {
		t.Fatal("expected unknown key error")
	}
}
