package console

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"go.klb.dev/nowplaying/internal/message"
)

const sinkBuffer = 64

// Table is a hub sink that prints results for a person at a terminal.
// Send queues the event; a single goroutine does the writing.
type Table struct {
	w       io.Writer
	colors  palette
	verbose bool

	ch   chan message.Event
	done chan struct{}
	once sync.Once
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithNoColor disables ANSI colours.
func WithNoColor(off bool) TableOption {
	return func(t *Table) { t.colors = newPalette(off) }
}

// WithClipboardEcho also prints TEXT_CHANGED and PARSED events.
func WithClipboardEcho() TableOption {
	return func(t *Table) { t.verbose = true }
}

// NewTable starts a Table writing to w. Close stops it.
func NewTable(w io.Writer, opts ...TableOption) *Table {
	t := &Table{
		w:      w,
		colors: newPalette(false),
		ch:     make(chan message.Event, sinkBuffer),
		done:   make(chan struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	go t.loop()
	return t
}

func (t *Table) ID() string { return "console" }

// Send implements hub.Sink. Events are dropped when the writer falls behind.
func (t *Table) Send(ev message.Event) {
	select {
	case t.ch <- ev:
	default:
		slog.Warn("console sink full, dropping event", "type", ev.Type)
	}
}

// Close flushes queued events and stops the writer goroutine.
func (t *Table) Close() {
	t.once.Do(func() { close(t.ch) })
	<-t.done
}

func (t *Table) loop() {
	defer close(t.done)
	for ev := range t.ch {
		if s := t.Render(ev); s != "" {
			if _, err := io.WriteString(t.w, s); err != nil {
				slog.Debug("console write failed", "err", err)
			}
		}
	}
}

// Render returns the text printed for ev, or "" for events the table
// ignores.
func (t *Table) Render(ev message.Event) string {
	var b strings.Builder
	switch ev.Type {
	case message.TypeTextChanged:
		if !t.verbose {
			return ""
		}
		fmt.Fprintf(&b, "%s %q\n", t.colors.dim.Sprint("clipboard"), ev.Text)
	case message.TypeParsed:
		if !t.verbose || ev.Query == nil {
			return ""
		}
		fmt.Fprintf(&b, "%s %s\n", t.colors.dim.Sprint("parsed"), ev.Query.String())
	case message.TypeResult:
		if ev.Result == nil || ev.Result.Kind == message.KindIdle {
			return ""
		}
		r := ev.Result
		fmt.Fprintf(&b, "%s", t.colors.label(*r))
		switch r.Kind {
		case message.KindInFlight:
			fmt.Fprintf(&b, " %s", r.Query.String())
		case message.KindFound:
			if note := MatchNote(r.Query, r.Track); note != "" {
				fmt.Fprintf(&b, " %s", t.colors.dim.Sprint("("+note+")"))
			}
		}
		b.WriteString("\n")
		if r.Kind == message.KindFound && r.Track != nil {
			b.WriteString(RenderTrack(r.Track))
			b.WriteString("\n")
		}
	case message.TypeArtwork:
		if ev.Artwork == nil {
			return ""
		}
		fmt.Fprintf(&b, "%s %dx%d\n", t.colors.dim.Sprint("artwork"), ev.Artwork.Width, ev.Artwork.Height)
	}
	return b.String()
}
