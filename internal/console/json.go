package console

import (
	"io"
	"log/slog"
	"sync"

	"go.klb.dev/nowplaying/internal/message"
)

// JSON is a hub sink that writes each event as one line of JSON.
type JSON struct {
	w    io.Writer
	ch   chan message.Event
	done chan struct{}
	once sync.Once
}

// NewJSON starts a JSON sink writing to w. Close stops it.
func NewJSON(w io.Writer) *JSON {
	j := &JSON{
		w:    w,
		ch:   make(chan message.Event, sinkBuffer),
		done: make(chan struct{}),
	}
	go j.loop()
	return j
}

func (j *JSON) ID() string { return "json" }

// Send implements hub.Sink.
func (j *JSON) Send(ev message.Event) {
	select {
	case j.ch <- ev:
	default:
		slog.Warn("json sink full, dropping event", "type", ev.Type)
	}
}

// Close flushes queued events and stops the writer goroutine.
func (j *JSON) Close() {
	j.once.Do(func() { close(j.ch) })
	<-j.done
}

func (j *JSON) loop() {
	defer close(j.done)
	for ev := range j.ch {
		b, err := ev.Encode()
		if err != nil {
			slog.Error("json sink encode", "type", ev.Type, "err", err)
			continue
		}
		if _, err := j.w.Write(append(b, '\n')); err != nil {
			slog.Debug("json sink write failed", "err", err)
		}
	}
}
