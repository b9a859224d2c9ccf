package extract

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/style"
)

func TestHeuristicContentBlocks(t *testing.T) {
	draft := `# 绪论
本研究讨论
格式化问题。

## Background
Formatting rules vary
between schools.

![architecture](figures/arch.png)
图1 系统架构
[table: survey results]
### Notes
`
	got := Heuristic{}.ContentBlocks(context.Background(), draft)
	want := []dsl.ContentBlock{
		{Type: dsl.Heading1, Text: "绪论"},
		{Type: dsl.BodyText, Text: "本研究讨论格式化问题。"},
		{Type: dsl.Heading2, Text: "Background"},
		{Type: dsl.BodyText, Text: "Formatting rules vary between schools."},
		{Type: dsl.ImageHook, Text: "architecture", SourceData: "figures/arch.png"},
		{Type: dsl.Caption, Text: "图1 系统架构"},
		{Type: dsl.TableHook, SourceData: "survey results"},
		{Type: dsl.Heading3, Text: "Notes"},
	}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestHeuristicStyleHints(t *testing.T) {
	h := Heuristic{}
	if got := h.StyleHints(context.Background(), "rules", "make headings bigger"); !got.Hints.IsEmpty() || got.Degraded() {
		t.Fatalf("free text instruction should yield an empty tier, got %+v", got)
	}
	got := h.StyleHints(context.Background(), "", `{"heading_1":{"font_size":"小二"}}`)
	if got.Err != nil {
		t.Fatalf("unexpected error: %v", got.Err)
	}
	if diff := cmp.Diff(style.NumberValue(18), got.Hints[style.KeyHeading1].Size); diff != "" {
		t.Fatalf("size mismatch (-want +got):\n%s", diff)
	}
}

func TestFontTable(t *testing.T) {
	table := DefaultFontTable()
	if font, ok := table.Family("仿宋"); !ok || font != "FangSong" {
		t.Fatalf("family lookup = %q, %v", font, ok)
	}
	if pts, ok := table.Size("五号"); !ok || pts != 10.5 {
		t.Fatalf("size lookup = %v, %v", pts, ok)
	}
	if _, ok := table.Size("巨号"); ok {
		t.Fatal("unknown size name should miss")
	}
}
