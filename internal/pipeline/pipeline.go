// Package pipeline connects clipboard changes to lookups: every detected
// change is announced, parsed, and (when auto search is on) submitted.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"go.klb.dev/nowplaying/internal/extract"
	"go.klb.dev/nowplaying/internal/logging"
	"go.klb.dev/nowplaying/internal/lookup"
	"go.klb.dev/nowplaying/internal/message"
	"go.klb.dev/nowplaying/internal/prefs"
)

// Submitter starts lookups. *lookup.Coordinator implements it.
type Submitter interface {
	Submit(ctx context.Context, q message.Query, origin message.Origin) (message.Result, error)
}

// Publisher receives TEXT_CHANGED and PARSED events.
type Publisher interface {
	Publish(message.Event)
}

// Pipeline is the clipboard side of the daemon.
type Pipeline struct {
	pub      Publisher
	lookups  Submitter
	settings prefs.Settings
}

// New returns a Pipeline.
func New(pub Publisher, lookups Submitter, settings prefs.Settings) *Pipeline {
	return &Pipeline{pub: pub, lookups: lookups, settings: settings}
}

// Run consumes changes until ctx is done or the channel is closed.
func (p *Pipeline) Run(ctx context.Context, changes <-chan message.Snapshot) {
	slog.Info("clipboard pipeline started")
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-changes:
			if !ok {
				return
			}
			p.Handle(ctx, s)
		}
	}
}

// Handle processes a single clipboard change. It reports whether a lookup
// was submitted.
func (p *Pipeline) Handle(ctx context.Context, s message.Snapshot) bool {
	p.pub.Publish(message.Event{Type: message.TypeTextChanged, Text: s.Text})

	m, ok := extract.Extract(s.Text)
	if !ok {
		slog.Debug("clipboard text has no artist/track split", "text", logging.Preview(s.Text))
		return false
	}
	q := m.Query()
	p.pub.Publish(message.Event{Type: message.TypeParsed, Query: &q})

	if !p.settings.AutoSearch() {
		slog.Debug("auto search off, not looking up", "query", q.String())
		return false
	}

	_, err := p.lookups.Submit(ctx, q, message.OriginClipboard)
	var ve *message.ValidationError
	switch {
	case err == nil:
		return true
	case errors.As(err, &ve):
		slog.Debug("parsed query rejected", "query", q.String(), "err", err)
	case errors.Is(err, lookup.ErrBusy):
		slog.Debug("lookup busy, clipboard query skipped", "query", q.String())
	default:
		slog.Error("submit clipboard query", "query", q.String(), "err", err)
	}
	return false
}
