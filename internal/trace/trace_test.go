package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug", "DEBUG"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != strings.ToLower(s) {
			t.Fatalf("round trip %q -> %q", s, lvl)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeFile) {
		t.Errorf("phase must not emit file scope")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeInvocation) {
		t.Errorf("detail must emit file scope only")
	}
	if !LevelDebug.ShouldEmit(ScopeInvocation) {
		t.Errorf("debug must emit everything")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	outer, ctx := Start(ctx, ScopePass, "expand")
	inner, _ := Start(ctx, ScopeFile, "file:main.go")
	inner.WithExtra("invocations", "2").End("")
	hidden, _ := Start(ctx, ScopeInvocation, "call")
	hidden.End("")
	outer.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Name != "file:main.go" || ev.ParentID != outer.ID() {
		t.Fatalf("unexpected inner event %+v", ev)
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Extra["invocations"] != "2" || ev.Kind != "end" {
		t.Fatalf("unexpected end event %+v", ev)
	}
}

func TestFailEmittedAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelError, FormatText))
	span, ctx := Start(ctx, ScopePass, "parse")
	span.End("")
	Point(ctx, ScopePass, "skipped", "")
	Fail(ctx, "load", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "parse") || strings.Contains(out, "skipped") {
		t.Fatalf("error level leaked spans: %q", out)
	}
	if !strings.Contains(out, "✗ load (boom)") {
		t.Fatalf("missing failure line: %q", out)
	}
}

func TestNopTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	span := Begin(tr, ScopeDriver, "x", 0)
	if span.ID() != 0 {
		t.Fatalf("nop span has id %d", span.ID())
	}
	span.End("")
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context should carry Nop")
	}
}
