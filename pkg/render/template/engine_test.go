package template

import (
	"bytes"
	"testing"
	"testing/fstest"
)

func TestRenderTemplateFromFS(t *testing.T) {
	engine := New(WithFS(fstest.MapFS{
		"hello.tpl": {Data: []byte("Hello {{ name }}, size {{ size }}")},
	}))

	var buf bytes.Buffer
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada", "size": "10.5"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Hello Ada, size 10.5"
	if got != want || buf.String() != want {
		t.Fatalf("got %q / writer %q, want %q", got, buf.String(), want)
	}
}

func TestRenderStringEscaping(t *testing.T) {
	data := map[string]any{"source": "a<b>&c"}

	escaped, err := New().RenderString("[{{ source }}]", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if escaped != "[a&lt;b&gt;&amp;c]" {
		t.Fatalf("escaped = %q", escaped)
	}

	plain, err := New(WithAutoescape(false)).RenderString("[{{ source }}]", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if plain != "[a<b>&c]" {
		t.Fatalf("plain = %q", plain)
	}
}

func TestRenderStringGlobals(t *testing.T) {
	engine := New(WithGlobals(map[string]any{"app": "docfmt"}))
	got, err := engine.RenderString("{{ app }}:{{ align|lower }}", map[string]any{"align": "JUSTIFY"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "docfmt:justify" {
		t.Fatalf("got %q", got)
	}
}

func TestCompileReportsSyntaxErrors(t *testing.T) {
	if err := New().Compile("{% if %}"); err == nil {
		t.Fatal("expected syntax error")
	}
}
