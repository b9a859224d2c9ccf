package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docfmt/pkg/dsl"
	"github.com/goliatone/go-docfmt/pkg/style"
)

type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	systems []string
	users   []string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	return f.reply, f.err
}

func TestNewServiceRequiresCompleter(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil completer")
	}
}

func TestStyleHintsSkipsEmptyInput(t *testing.T) {
	fake := &fakeCompleter{}
	svc, err := NewService(fake)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	got := svc.StyleHints(context.Background(), "  ", "")
	if fake.calls != 0 || got.Degraded() || !got.Hints.IsEmpty() {
		t.Fatalf("expected no call and empty tier, got calls=%d result=%+v", fake.calls, got)
	}
}

func TestStyleHintsPromptsWithFontTable(t *testing.T) {
	fake := &fakeCompleter{reply: `{"body_text":{"font_name":"楷体"}}`}
	svc, err := NewService(fake, WithMaxRuleContext(5))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	got := svc.StyleHints(context.Background(), "正文使用楷体小四号字", "make it formal")
	if got.Err != nil {
		t.Fatalf("unexpected error: %v", got.Err)
	}
	if got.Hints[style.KeyBodyText].Family.Raw() != "KaiTi" {
		t.Fatalf("family not mapped: %v", got.Hints)
	}
	if !strings.Contains(fake.systems[0], "小四 -> 12") {
		t.Fatalf("system prompt lacks size table:\n%s", fake.systems[0])
	}
	if !strings.Contains(fake.users[0], "正文使用楷\n") || !strings.Contains(fake.users[0], "make it formal") {
		t.Fatalf("user prompt not truncated/assembled as expected:\n%s", fake.users[0])
	}
}

func TestStyleHintsDegradeOnTransportError(t *testing.T) {
	svc, err := NewService(&fakeCompleter{err: errors.New("timeout")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	got := svc.StyleHints(context.Background(), "rules", "")
	if !got.Degraded() || !got.Hints.IsEmpty() {
		t.Fatalf("expected degraded empty tier, got %+v", got)
	}
}

func TestContentBlocksFallbacks(t *testing.T) {
	draft := "raw draft"

	svc, _ := NewService(&fakeCompleter{err: errors.New("down")})
	got := svc.ContentBlocks(context.Background(), draft)
	if !got.Fallback || got.Blocks[0].Text != draft {
		t.Fatalf("transport failure should fall back, got %+v", got)
	}

	svc, _ = NewService(&fakeCompleter{reply: "sorry"})
	got = svc.ContentBlocks(context.Background(), draft)
	if !got.Fallback || got.Blocks[0].Text != draft {
		t.Fatalf("malformed output should fall back, got %+v", got)
	}

	svc, _ = NewService(&fakeCompleter{reply: `{"blocks":[{"type":"heading_2","text":"Methods"}]}`})
	got = svc.ContentBlocks(context.Background(), draft)
	want := []dsl.ContentBlock{{Type: dsl.Heading2, Text: "Methods"}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}
