package trace

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// FileWatch wraps a tracer and counts file spans passing through it, so a heartbeat
// can say how far a directory run got and which template it finished last.
type FileWatch struct {
	Tracer
	begun atomic.Int64
	ended atomic.Int64

	mu   sync.Mutex
	last string
}

// NewFileWatch wraps inner; a nil inner becomes Nop.
func NewFileWatch(inner Tracer) *FileWatch {
	if inner == nil {
		inner = Nop
	}
	return &FileWatch{Tracer: inner}
}

func (w *FileWatch) Emit(ev *Event) {
	if ev.Scope == ScopeFile && ev.Name == "file" {
		switch ev.Kind {
		case KindSpanBegin:
			w.begun.Add(1)
		case KindSpanEnd:
			w.ended.Add(1)
			if path := ev.Extra["path"]; path != "" {
				w.mu.Lock()
				w.last = path
				w.mu.Unlock()
			}
		}
	}
	w.Tracer.Emit(ev)
}

// Stats returns finished and in-flight file counts and the last finished path.
func (w *FileWatch) Stats() (done, active int64, last string) {
	done = w.ended.Load()
	active = w.begun.Load() - done
	w.mu.Lock()
	last = w.last
	w.mu.Unlock()
	return done, active, last
}

func (w *FileWatch) describe() string {
	done, active, last := w.Stats()
	if last == "" {
		return fmt.Sprintf("%d files done, %d active", done, active)
	}
	return fmt.Sprintf("%d files done, %d active, last %s", done, active, last)
}
