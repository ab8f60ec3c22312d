package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNormalizesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.marko")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<div>\r\n  cafe\u0301\r\n</div>")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if want := "<div>\n  caf\u00e9\n</div>"; string(f.Content) != want {
		t.Fatalf("content: want %q, got %q", want, f.Content)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if f.Flags&flag == 0 {
			t.Fatalf("expected flag %b in %b", flag, f.Flags)
		}
	}
	if f.Flags&FileVirtual != 0 {
		t.Fatalf("disk file marked virtual")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("v.marko", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Fatalf("offset %d: want %+v, got %+v", tt.off, tt.want, start)
		}
	}
}

func TestGetLatestTracksNewestVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("dir/../x.marko", []byte("a"))
	second := fs.AddVirtual("x.marko", []byte("b"))
	if first == second {
		t.Fatalf("expected distinct ids")
	}
	got, ok := fs.GetLatest("x.marko")
	if !ok || got != second {
		t.Fatalf("GetLatest: want %d, got %d (ok=%v)", second, got, ok)
	}
	if fs.Len() != 2 {
		t.Fatalf("Len: want 2, got %d", fs.Len())
	}
}

func TestGetLineAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.marko", []byte("one\ntwo\nthree"))
	f := fs.Get(id)
	if got := f.GetLine(2); got != "two" {
		t.Fatalf("line 2: got %q", got)
	}
	if got := f.GetLine(3); got != "three" {
		t.Fatalf("line 3: got %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("line 9: got %q", got)
	}
	if got := fs.Text(Span{File: id, Start: 4, End: 7}); got != "two" {
		t.Fatalf("text: got %q", got)
	}
	if got := fs.Text(Span{File: id, Start: 10, End: 99}); got != "ree" {
		t.Fatalf("clamped text: got %q", got)
	}
}

func TestFormatPathBasename(t *testing.T) {
	f := File{Path: "a/b/c.marko"}
	if got := f.FormatPath("basename", ""); got != "c.marko" {
		t.Fatalf("basename: got %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "a/b/c.marko" {
		t.Fatalf("auto: got %q", got)
	}
}
