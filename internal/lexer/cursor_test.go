package lexer

import (
	"testing"

	"tagfix/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.marko", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("bump: want %q, got %q", want, got)
		}
	}
	if !cursor.EOF() || cursor.Bump() != 0 {
		t.Fatalf("expected EOF")
	}
}

func TestMarkSpanReset(t *testing.T) {
	cursor := NewCursor(createFile("<div>"))
	cursor.Bump()
	m := cursor.Mark()
	if got := ScanName(&cursor); got != "div" {
		t.Fatalf("name: got %q", got)
	}
	if sp := cursor.SpanFrom(m); sp.Start != 1 || sp.End != 4 {
		t.Fatalf("span: got %v", sp)
	}
	cursor.Reset(m)
	if !cursor.EatString("div>") || !cursor.EOF() {
		t.Fatalf("EatString after reset failed")
	}
}

func TestAtLineStart(t *testing.T) {
	cursor := NewCursor(createFile("a\n  $ x"))
	cursor.Off = 4
	if !cursor.AtLineStart() {
		t.Fatalf("expected line start after indentation")
	}
	cursor.Off = 1
	if cursor.AtLineStart() {
		t.Fatalf("offset after text is not a line start")
	}
}

func TestSubCursorLimit(t *testing.T) {
	cursor := NewCursor(createFile("abcdef"))
	sub := cursor.Sub(2, 4)
	if sub.Bump() != 'c' || sub.Bump() != 'd' || !sub.EOF() {
		t.Fatalf("sub cursor escaped its limit")
	}
}
