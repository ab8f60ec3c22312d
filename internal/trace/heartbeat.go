package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically emits heartbeat events. With a FileWatch underneath the
// detail carries file counts; the same counts on consecutive beats mean a template
// is stuck (usually a rule requeueing the same slot).
type Heartbeat struct {
	tracer   Tracer
	watch    *FileWatch
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// StartHeartbeat starts the heartbeat goroutine; it returns nil when tracing is off
// or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	h.watch, _ = tracer.(*FileWatch)

	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beat uint64
	for {
		select {
		case <-ticker.C:
			beat++
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    CurrentGID(),
				Name:   "heartbeat",
				Detail: h.detail(beat),
			})
		case <-h.stopCh:
			return
		}
	}
}

func (h *Heartbeat) detail(beat uint64) string {
	if h.watch == nil {
		return fmt.Sprintf("#%d", beat)
	}
	return fmt.Sprintf("#%d %s", beat, h.watch.describe())
}

// Stop ends the goroutine and waits for it; safe on nil and when called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}
