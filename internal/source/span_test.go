package source

import "testing"

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("cover: got %v", got)
	}
	if !got.Contains(a) || !got.Contains(b) {
		t.Fatalf("cover must contain both inputs")
	}
	other := Span{File: 2, Start: 0, End: 100}
	if a.Cover(other) != a {
		t.Fatalf("cover across files must be a no-op")
	}
	if other.Contains(a) {
		t.Fatalf("contains across files")
	}
}

func TestSpanPrefix(t *testing.T) {
	s := Span{File: 0, Start: 10, End: 20}
	if got := s.Prefix(4); got != (Span{Start: 10, End: 14}) {
		t.Fatalf("prefix: got %v", got)
	}
	if got := s.Prefix(40); got != s {
		t.Fatalf("clamped prefix: got %v", got)
	}
	if !(Span{Start: 3, End: 3}).Empty() {
		t.Fatalf("expected empty span")
	}
}
