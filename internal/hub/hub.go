// Package hub fans core events out to presentation sinks.
// It is transport-agnostic: sinks register, receive events through Send, and
// the hub remembers the current result so late sinks start up to date.
package hub

import (
	"log/slog"
	"sort"
	"sync"

	"go.klb.dev/nowplaying/internal/message"
)

// Sink is anything that renders or forwards events.
type Sink interface {
	ID() string
	// Send delivers an event to the sink. Must be non-blocking.
	Send(message.Event)
}

// Hub routes events from the pipeline and coordinator to every sink.
type Hub struct {
	mu      sync.RWMutex
	sinks   map[string]Sink
	latest  *message.Event // current RESULT
	artwork *message.Event // ARTWORK for latest, if any
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{sinks: make(map[string]Sink)}
}

// Register adds a sink and immediately replays the current result and its
// artwork.
func (h *Hub) Register(s Sink) {
	h.mu.Lock()
	h.sinks[s.ID()] = s
	latest, art := h.latest, h.artwork
	total := len(h.sinks)
	h.mu.Unlock()

	slog.Debug("sink registered", "sink", s.ID(), "total", total)

	if latest != nil {
		s.Send(*latest)
	}
	if art != nil {
		s.Send(*art)
	}
}

// Unregister removes a sink from the hub.
func (h *Hub) Unregister(s Sink) {
	h.mu.Lock()
	delete(h.sinks, s.ID())
	total := len(h.sinks)
	h.mu.Unlock()

	slog.Debug("sink unregistered", "sink", s.ID(), "total", total)
}

// Publish fans ev out to every sink. RESULT events become the current
// result; ARTWORK events are kept only while they match it.
func (h *Hub) Publish(ev message.Event) {
	h.mu.Lock()
	switch ev.Type {
	case message.TypeResult:
		e := ev
		h.latest = &e
		h.artwork = nil
	case message.TypeArtwork:
		if h.latest != nil && h.latest.Seq == ev.Seq {
			e := ev
			h.artwork = &e
		}
	}
	targets := make([]Sink, 0, len(h.sinks))
	for _, s := range h.sinks {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		s.Send(ev)
	}
}

// Latest returns the current result, if any.
func (h *Hub) Latest() (message.Result, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil || h.latest.Result == nil {
		return message.Result{}, false
	}
	return *h.latest.Result, true
}

// Sinks returns the ids of all registered sinks, sorted.
func (h *Hub) Sinks() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.sinks))
	for id := range h.sinks {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
