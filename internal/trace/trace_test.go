package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopeRule, false},
		{LevelDetail, ScopeRule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeFile, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "c,d,e" {
		t.Fatalf("snapshot order = %s, want c,d,e", got)
	}
}

func TestStartNestsSpansThroughContext(t *testing.T) {
	r := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), r)

	outer, ctx := Start(ctx, ScopeDriver, "dir")
	inner, _ := Start(ctx, ScopeFile, "file")
	inner.WithExtra("path", "a.marko").End("")
	outer.End("done")

	// rule scope is below phase level
	skipped, _ := Start(ctx, ScopeRule, "ref-attribute")
	if skipped.ID() != 0 {
		t.Fatal("filtered span must not get an id")
	}

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if snap[2].Kind != KindSpanEnd || snap[2].Extra["path"] != "a.marko" {
		t.Fatalf("unexpected inner end event %+v", snap[2])
	}
	if snap[3].Detail != "done" {
		t.Fatalf("outer detail = %q", snap[3].Detail)
	}
}

func TestFormatEvent(t *testing.T) {
	ev := &Event{Seq: 7, Kind: KindPoint, Scope: ScopeFile, Name: "cache-put", Detail: "disk full", Extra: map[string]string{"b": "2", "a": "1"}}

	text := string(FormatEvent(ev, FormatText))
	if !strings.Contains(text, "cache-put (disk full) {a=1, b=2}") {
		t.Fatalf("unexpected text line %q", text)
	}

	var decoded map[string]any
	if err := json.Unmarshal(FormatEvent(ev, FormatNDJSON), &decoded); err != nil {
		t.Fatalf("ndjson: %v", err)
	}
	if decoded["kind"] != "point" || decoded["scope"] != "file" || decoded["name"] != "cache-put" {
		t.Fatalf("unexpected ndjson %v", decoded)
	}
}

func TestStreamTracerWrites(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamTracer(&buf, LevelPhase, FormatText)
	Point(s, ScopeFile, "parse", "", 0)
	Point(s, ScopeNode, "visit", "", 0)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "parse") || strings.Contains(out, "visit") {
		t.Fatalf("unexpected stream output %q", out)
	}
}

func TestNopFromEmptyContext(t *testing.T) {
	if FromContext(context.Background()).Enabled() {
		t.Fatal("default tracer must be disabled")
	}
}

func TestFileWatchCountsFileSpans(t *testing.T) {
	r := NewRingTracer(32, LevelPhase)
	w := NewFileWatch(r)
	ctx := WithTracer(context.Background(), w)

	a, _ := Start(ctx, ScopeFile, "file")
	b, _ := Start(ctx, ScopeFile, "file")
	a.WithExtra("path", "views/a.marko").End("")

	done, active, last := w.Stats()
	if done != 1 || active != 1 || last != "views/a.marko" {
		t.Fatalf("stats = %d, %d, %q", done, active, last)
	}
	b.End("")
	if got := w.describe(); got != "2 files done, 0 active, last views/a.marko" {
		t.Fatalf("describe = %q", got)
	}
	if len(r.Snapshot()) != 4 {
		t.Fatal("events must reach the wrapped tracer")
	}
}

func TestHeartbeatDetail(t *testing.T) {
	w := NewFileWatch(NewRingTracer(8, LevelPhase))
	h := StartHeartbeat(w, time.Hour)
	defer h.Stop()
	if got := h.detail(3); got != "#3 0 files done, 0 active" {
		t.Fatalf("detail = %q", got)
	}
	if StartHeartbeat(Nop, time.Second) != nil {
		t.Fatal("heartbeat must not start on a disabled tracer")
	}
	h.Stop()
}

func TestNewWrapsForHeartbeat(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}, Heartbeat: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*FileWatch); !ok {
		t.Fatalf("got %T, want *FileWatch", tr)
	}
	if RingOf(tr) == nil {
		t.Fatal("ring must be reachable through the watch")
	}

	tr, err = New(Config{Level: LevelPhase, Mode: ModeStream, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) != nil {
		t.Fatal("stream mode has no ring")
	}
}
