package docfmt_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"

	docfmt "github.com/goliatone/go-docfmt"
)

func TestGenerateOffline(t *testing.T) {
	res, err := docfmt.Generate(context.Background(), docfmt.Request{
		Draft:         "## 方法\n\n实验设计如下。",
		InstitutionID: "cn_undergraduate",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Filename != "Paper_cn_undergraduate.docx" {
		t.Fatalf("unexpected filename %q", res.Filename)
	}
	if len(res.Output) == 0 {
		t.Fatal("expected output bytes")
	}
	if got := res.DSL.Len(); got != 2 {
		t.Fatalf("expected 2 blocks, got %d", got)
	}
}

func TestResolveWithoutInputsReturnsDefaults(t *testing.T) {
	got, err := docfmt.Resolve(context.Background(), docfmt.Request{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(docfmt.DefaultCatalog(), got); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	if _, err := fs.Stat(docfmt.EmbeddedTemplates(), "document.tpl"); err != nil {
		t.Fatalf("stat template: %v", err)
	}
	if _, err := fs.Stat(docfmt.EmbeddedPresets(), "cn_undergraduate.yaml"); err != nil {
		t.Fatalf("stat preset: %v", err)
	}
}
