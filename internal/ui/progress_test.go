package ui

import (
	"strings"
	"testing"

	"tagfix/internal/progress"
)

func TestApplyEventUpdatesStatus(t *testing.T) {
	events := make(chan progress.Event)
	m := NewProgressModel("migrating", []string{"a.marko", "b.marko"}, events).(*progressModel)

	m.applyEvent(progress.Event{File: "a.marko", Stage: progress.StageMigrate, Status: progress.StatusWorking})
	m.applyEvent(progress.Event{File: "b.marko", Stage: progress.StagePrint, Status: progress.StatusCached})
	m.applyEvent(progress.Event{File: "missing.marko", Status: progress.StatusDone})

	if got := m.items[0].status; got != "migrating" {
		t.Fatalf("a.marko status = %q, want migrating", got)
	}
	if got := m.items[1].status; got != "cached" {
		t.Fatalf("b.marko status = %q, want cached", got)
	}
	if got, want := m.percent(), (0.4+1.0)/2; got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}

	m.applyEvent(progress.Event{Stage: progress.StageWrite, Status: progress.StatusWorking})
	if !strings.Contains(m.View(), "(writing)") {
		t.Fatalf("header should carry the run stage:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"components/header.marko", 12, "compon..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
