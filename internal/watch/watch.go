// Package watch detects clipboard text changes by polling a clip.Source on a
// fixed interval.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.klb.dev/nowplaying/internal/clip"
	"go.klb.dev/nowplaying/internal/logging"
	"go.klb.dev/nowplaying/internal/message"
	"go.klb.dev/nowplaying/internal/prefs"
)

// DefaultInterval is the poll cadence.
const DefaultInterval = 500 * time.Millisecond

// Focus reports whether the host currently has input focus. While it does
// the user may be typing, so the clipboard is left alone.
type Focus interface {
	Focused() bool
}

// Hold is a Focus toggled by the host.
type Hold struct {
	on atomic.Bool
}

func (h *Hold) Focused() bool  { return h.on.Load() }
func (h *Hold) Set(focus bool) { h.on.Store(focus) }

type noFocus struct{}

func (noFocus) Focused() bool { return false }

// Detector owns the last observed clipboard text.
type Detector struct {
	src      clip.Source
	settings prefs.Settings
	focus    Focus
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last string

	changes chan message.Snapshot
}

// Option configures a Detector.
type Option func(*Detector)

// WithFocus sets the focus gate.
func WithFocus(f Focus) Option {
	return func(d *Detector) {
		if f != nil {
			d.focus = f
		}
	}
}

// WithInterval overrides DefaultInterval.
func WithInterval(iv time.Duration) Option {
	return func(d *Detector) {
		if iv > 0 {
			d.interval = iv
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

// New returns a Detector sampling src. It does not start polling.
func New(src clip.Source, settings prefs.Settings, opts ...Option) *Detector {
	d := &Detector{
		src:      src,
		settings: settings,
		focus:    noFocus{},
		interval: DefaultInterval,
		now:      time.Now,
		changes:  make(chan message.Snapshot, 1),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Changes delivers detected changes. If the consumer falls behind, an unread
// change is replaced by the newer one.
func (d *Detector) Changes() <-chan message.Snapshot { return d.changes }

// Observe reports whether s is new text. Nil and empty snapshots are never
// changes and leave the last seen text untouched.
func (d *Detector) Observe(s *message.Snapshot) bool {
	if s == nil || s.Text == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if s.Text == d.last {
		return false
	}
	d.last = s.Text
	return true
}

// Prime records the current clipboard text as already seen, so whatever is
// on the clipboard at start-up is not reported.
func (d *Detector) Prime() {
	if text, ok := d.src.ReadText(); ok {
		d.Observe(&message.Snapshot{Text: text, At: d.now()})
	}
}

// Poll runs one detection cycle. The focus and monitor gates are checked
// before the clipboard is read.
func (d *Detector) Poll() (message.Snapshot, bool) {
	if d.focus.Focused() || !d.settings.MonitorClipboard() {
		return message.Snapshot{}, false
	}
	text, ok := d.src.ReadText()
	if !ok {
		return message.Snapshot{}, false
	}
	s := message.Snapshot{Text: text, At: d.now()}
	if !d.Observe(&s) {
		return message.Snapshot{}, false
	}
	return s, true
}

// Run polls until ctx is done. Call in a goroutine.
func (d *Detector) Run(ctx context.Context) {
	slog.Info("clipboard watcher started", "backend", d.src.Name(), "interval", d.interval)
	t := time.NewTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("clipboard watcher stopped")
			return
		case <-t.C:
			if s, ok := d.Poll(); ok {
				slog.Debug("clipboard changed", "preview", logging.Preview(s.Text))
				d.deliver(s)
			}
		}
	}
}

func (d *Detector) deliver(s message.Snapshot) {
	for {
		select {
		case d.changes <- s:
			return
		default:
		}
		select {
		case stale := <-d.changes:
			slog.Debug("clipboard change superseded", "preview", logging.Preview(stale.Text))
		default:
		}
	}
}
