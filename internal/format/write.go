package format

// Writer accumulates printed output. Scriptlets must sit on their own line, so the
// writer tracks line starts and can defer a newline until the next write.
type Writer struct {
	buf            []byte
	pendingNewline bool
}

// NewWriter creates a writer with capHint bytes preallocated.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteString writes a string to the output, flushing a pending line break first
// unless s already starts with one.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	if w.pendingNewline {
		w.pendingNewline = false
		if s[0] != '\n' && s[0] != '\r' {
			w.buf = append(w.buf, '\n')
		}
	}
	w.buf = append(w.buf, s...)
}

// EnsureLineStart breaks the line unless only indentation follows the last newline.
func (w *Writer) EnsureLineStart() {
	if w.pendingNewline {
		w.pendingNewline = false
		w.buf = append(w.buf, '\n')
		return
	}
	for i := len(w.buf) - 1; i >= 0; i-- {
		switch w.buf[i] {
		case '\n':
			return
		case ' ', '\t':
		default:
			w.buf = append(w.buf, '\n')
			return
		}
	}
}

// EndLine asks for a line break before the next non-newline output.
func (w *Writer) EndLine() {
	w.pendingNewline = true
}
