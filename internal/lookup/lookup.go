// Package lookup turns queries into results. It runs at most one catalog
// request at a time; a newer query supersedes the outstanding one, whose
// eventual answer is dropped on arrival.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.klb.dev/nowplaying/internal/catalog"
	"go.klb.dev/nowplaying/internal/message"
)

// NoteNoImage is the ARTWORK note when a found track has no usable image.
const NoteNoImage = "image not found"

var (
	// ErrBusy rejects a manual query while another lookup is in flight.
	ErrBusy = errors.New("a lookup is already in flight")

	// ErrSuperseded is returned by Wait when a newer query replaced the one
	// being waited on.
	ErrSuperseded = errors.New("lookup superseded by a newer query")
)

// ArtworkFetcher downloads album art for found tracks.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url string) (*message.Artwork, error)
}

// Publisher receives every result and artwork event. Publish must not block.
type Publisher interface {
	Publish(message.Event)
}

// Coordinator owns the current result.
type Coordinator struct {
	catalog       catalog.Looker
	art           ArtworkFetcher
	pub           Publisher
	manualReplace bool
	now           func() time.Time
	newID         func() string

	mu      sync.Mutex
	seq     uint64
	current message.Result
	cancel  context.CancelFunc
	waiters map[uint64][]chan message.Result
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithArtwork enables album art fetching for found tracks.
func WithArtwork(f ArtworkFetcher) Option {
	return func(c *Coordinator) { c.art = f }
}

// WithManualReplace lets manual queries supersede an in-flight lookup
// instead of failing with ErrBusy.
func WithManualReplace() Option {
	return func(c *Coordinator) { c.manualReplace = true }
}

// WithClock overrides the result timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDs overrides the result id generator.
func WithIDs(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

// New returns an idle Coordinator.
func New(looker catalog.Looker, pub Publisher, opts ...Option) *Coordinator {
	c := &Coordinator{
		catalog: looker,
		pub:     pub,
		now:     time.Now,
		newID:   uuid.NewString,
		waiters: make(map[uint64][]chan message.Result),
	}
	for _, o := range opts {
		o(c)
	}
	c.current = message.Result{Kind: message.KindIdle, At: c.now()}
	return c
}

// Current returns the current result.
func (c *Coordinator) Current() message.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the kind of the current result.
func (c *Coordinator) State() message.Kind {
	return c.Current().Kind
}

// Busy reports whether a lookup is in flight. Presentations disable their
// manual search action while it is.
func (c *Coordinator) Busy() bool {
	return c.State() == message.KindInFlight
}

// Submit starts a lookup for q and returns the InFlight result. ctx bounds
// the catalog request, not the call: Submit never blocks on the network.
// Album art fetched after a found result is cancelled only by a newer query
// or Clear.
//
// Invalid queries fail with *message.ValidationError and change nothing.
// A query equal to the one in flight, or a clipboard query equal to the
// current found/not-found result, is suppressed and the current result is
// returned. A manual query while busy fails with ErrBusy unless the
// coordinator was built WithManualReplace.
func (c *Coordinator) Submit(ctx context.Context, q message.Query, origin message.Origin) (message.Result, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return message.Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current
	switch {
	case cur.Kind == message.KindInFlight && cur.Query == q:
		slog.Debug("lookup suppressed, already in flight", "seq", cur.Seq, "query", q.String())
		return cur, nil
	case origin == message.OriginClipboard && cur.Query == q &&
		(cur.Kind == message.KindFound || cur.Kind == message.KindNotFound):
		slog.Debug("lookup suppressed, repeated detection", "seq", cur.Seq, "query", q.String())
		return cur, nil
	case origin == message.OriginManual && cur.Kind == message.KindInFlight && !c.manualReplace:
		return message.Result{}, ErrBusy
	}

	c.supersedeLocked()
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	r := message.Result{
		Kind:   message.KindInFlight,
		Seq:    c.seq,
		ID:     c.newID(),
		Origin: origin,
		Query:  q,
		At:     c.now(),
	}
	c.current = r
	c.pub.Publish(message.ResultEvent(r))

	slog.Info("lookup started", "seq", r.Seq, "id", r.ID, "origin", origin, "query", q.String())
	go c.run(reqCtx, cancel, r)
	return r, nil
}

// Clear drops the current result and returns to Idle. An in-flight lookup is
// cancelled and its answer discarded.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.seq++
	c.current = message.Result{Kind: message.KindIdle, Seq: c.seq, At: c.now()}
	c.pub.Publish(message.ResultEvent(c.current))
}

// Wait blocks until the lookup numbered seq resolves and returns its result.
// It fails with ErrSuperseded if a newer query or Clear replaced it first.
func (c *Coordinator) Wait(ctx context.Context, seq uint64) (message.Result, error) {
	c.mu.Lock()
	if c.current.Seq != seq {
		c.mu.Unlock()
		return message.Result{}, ErrSuperseded
	}
	if c.current.Kind.Terminal() {
		r := c.current
		c.mu.Unlock()
		return r, nil
	}
	ch := make(chan message.Result, 1)
	c.waiters[seq] = append(c.waiters[seq], ch)
	c.mu.Unlock()

	select {
	case r, ok := <-ch:
		if !ok {
			return message.Result{}, ErrSuperseded
		}
		return r, nil
	case <-ctx.Done():
		return message.Result{}, ctx.Err()
	}
}

// supersedeLocked cancels the outstanding request and releases its waiters.
func (c *Coordinator) supersedeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	for seq, chs := range c.waiters {
		for _, ch := range chs {
			close(ch)
		}
		delete(c.waiters, seq)
	}
}

func (c *Coordinator) run(ctx context.Context, cancel context.CancelFunc, r message.Result) {
	defer cancel()

	md, err := c.catalog.LookupTrack(ctx, r.Query)
	res := resolve(r, md, err)
	res.At = c.now()

	c.mu.Lock()
	if c.current.Seq != r.Seq {
		c.mu.Unlock()
		slog.Debug("stale lookup result dropped", "seq", r.Seq, "kind", res.Kind)
		return
	}
	c.current = res
	c.pub.Publish(message.ResultEvent(res))
	for _, ch := range c.waiters[r.Seq] {
		ch <- res
	}
	delete(c.waiters, r.Seq)

	// The art fetch outlives the caller's context; only a newer query or
	// Clear cancels it.
	artCtx, artCancel := context.WithCancel(context.WithoutCancel(ctx))
	defer artCancel()
	c.cancel = artCancel
	c.mu.Unlock()

	slog.Info("lookup finished",
		"seq", res.Seq,
		"id", res.ID,
		"kind", res.Kind,
		"latency", res.At.Sub(r.At),
	)
	if res.Kind == message.KindFound {
		c.fetchArtwork(artCtx, res)
	}
}

// resolve maps a catalog answer onto the in-flight result r.
func resolve(r message.Result, md *message.TrackMetadata, err error) message.Result {
	r.Kind = catalog.Classify(err)
	switch r.Kind {
	case message.KindFound:
		r.Track = md
	case message.KindNotFound:
		r.Message = "Track not found"
	case message.KindAPIError:
		var apiErr *catalog.APIError
		if errors.As(err, &apiErr) {
			r.Code = apiErr.Code
			r.Message = apiErr.Message
		}
	case message.KindTransportError:
		r.Message = err.Error()
	}
	return r
}

func (c *Coordinator) fetchArtwork(ctx context.Context, res message.Result) {
	ev := message.Event{Type: message.TypeArtwork, Seq: res.Seq}
	url := res.Track.ImageURL()
	switch {
	case url == "" || c.art == nil:
		ev.Note = NoteNoImage
	default:
		art, err := c.art.Fetch(ctx, url)
		if err != nil {
			slog.Warn("artwork unavailable", "seq", res.Seq, "url", url, "err", err)
			ev.Note = NoteNoImage
		} else {
			ev.Artwork = art
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current.Seq != res.Seq {
		slog.Debug("stale artwork dropped", "seq", res.Seq)
		return
	}
	c.pub.Publish(ev)
}
