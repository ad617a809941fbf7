//go:build !windows

package ipc

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/nowplaying/internal/hub"
	"go.klb.dev/nowplaying/internal/lookup"
	"go.klb.dev/nowplaying/internal/message"
)

type fakeStatus struct {
	result *message.Result
}

func (f fakeStatus) Latest() (message.Result, bool) {
	if f.result == nil {
		return message.Result{}, false
	}
	return *f.result, true
}

func (fakeStatus) Sinks() []string { return []string{"console", "json"} }

type fakeSearcher struct {
	err error
}

func (f fakeSearcher) Submit(_ context.Context, q message.Query, origin message.Origin) (message.Result, error) {
	if f.err != nil {
		return message.Result{}, f.err
	}
	return message.Result{Kind: message.KindInFlight, Seq: 7, Query: q, Origin: origin}, nil
}

func (fakeSearcher) Wait(_ context.Context, seq uint64) (message.Result, error) {
	return message.Result{
		Kind:  message.KindFound,
		Seq:   seq,
		Track: &message.TrackMetadata{Name: "One More Time"},
	}, nil
}

type fakeFocus struct {
	mu  sync.Mutex
	got []bool
}

func (f *fakeFocus) Set(v bool) {
	f.mu.Lock()
	f.got = append(f.got, v)
	f.mu.Unlock()
}

func (f *fakeFocus) values() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.got...)
}

func socketEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "np.sock")
	t.Setenv("NOWPLAYING_SOCKET", path)
	return path
}

func serve(t *testing.T, srv *Server) {
	t.Helper()
	ln, err := Listen()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx, ln)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = ln.Close()
	})
}

func request(t *testing.T, ev message.Event) (*message.Event, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return Request(ctx, ev)
}

func TestSocketPathOverride(t *testing.T) {
	path := socketEnv(t)
	assert.Equal(t, path, SocketPath())
}

func TestSocketPathRuntimeDir(t *testing.T) {
	t.Setenv("NOWPLAYING_SOCKET", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/nowplaying.sock", SocketPath())
}

func TestSecondListenerIsRejected(t *testing.T) {
	socketEnv(t)
	assert.False(t, IsRunning())

	ln, err := Listen()
	require.NoError(t, err)
	assert.True(t, IsRunning())

	_, err = Listen()
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, ln.Close())
	assert.False(t, IsRunning())

	ln, err = Listen()
	require.NoError(t, err, "lock is released on close")
	_ = ln.Close()
}

func TestStatusRequest(t *testing.T) {
	socketEnv(t)
	serve(t, NewServer(fakeStatus{result: &message.Result{Kind: message.KindNotFound, Seq: 3}}, fakeSearcher{}, &fakeFocus{}))

	resp, err := request(t, message.Event{Type: message.TypeStatus})
	require.NoError(t, err)
	assert.Equal(t, message.TypeStatusResponse, resp.Type)
	require.NotNil(t, resp.Result)
	assert.Equal(t, message.KindNotFound, resp.Result.Kind)
	assert.Equal(t, []string{"console", "json"}, resp.Sinks)
}

func TestSearchRequest(t *testing.T) {
	socketEnv(t)
	serve(t, NewServer(fakeStatus{}, fakeSearcher{}, &fakeFocus{}))

	q := message.Query{Artist: "Daft Punk", Track: "One More Time"}
	resp, err := request(t, message.Event{Type: message.TypeSearch, Query: &q})
	require.NoError(t, err)
	assert.Equal(t, message.TypeResult, resp.Type)
	require.NotNil(t, resp.Result)
	assert.Equal(t, message.KindFound, resp.Result.Kind)
	assert.Equal(t, uint64(7), resp.Result.Seq)
}

func TestSearchRequestBusy(t *testing.T) {
	socketEnv(t)
	serve(t, NewServer(fakeStatus{}, fakeSearcher{err: lookup.ErrBusy}, &fakeFocus{}))

	q := message.Query{MBID: "abc"}
	_, err := request(t, message.Event{Type: message.TypeSearch, Query: &q})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, lookup.ErrBusy.Error(), re.Message)
}

func TestFocusRequest(t *testing.T) {
	socketEnv(t)
	focus := &fakeFocus{}
	serve(t, NewServer(fakeStatus{}, fakeSearcher{}, focus))

	on := true
	resp, err := request(t, message.Event{Type: message.TypeFocus, Focus: &on})
	require.NoError(t, err)
	require.NotNil(t, resp.Focus)
	assert.True(t, *resp.Focus)
	assert.Equal(t, []bool{true}, focus.values())

	_, err = request(t, message.Event{Type: message.TypeFocus})
	assert.Error(t, err)
}

func TestUnsupportedRequest(t *testing.T) {
	socketEnv(t)
	serve(t, NewServer(fakeStatus{}, fakeSearcher{}, &fakeFocus{}))

	_, err := request(t, message.Event{Type: message.TypeArtwork})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Message, "unsupported")
}

type albumLooker struct{}

func (albumLooker) LookupTrack(_ context.Context, q message.Query) (*message.TrackMetadata, error) {
	return &message.TrackMetadata{
		Name:   q.Track,
		Artist: message.Artist{Name: q.Artist},
		Album:  &message.Album{Title: "Discovery", ImageURL: "http://img/xl.png"},
	}, nil
}

// slowArt fails if its context is cancelled before the download finishes.
type slowArt struct{}

func (slowArt) Fetch(ctx context.Context, url string) (*message.Artwork, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(50 * time.Millisecond):
		return &message.Artwork{URL: url, Width: 300, Height: 300}, nil
	}
}

type artSink struct {
	mu  sync.Mutex
	art []message.Event
}

func (s *artSink) ID() string { return "art" }

func (s *artSink) Send(ev message.Event) {
	if ev.Type != message.TypeArtwork {
		return
	}
	s.mu.Lock()
	s.art = append(s.art, ev)
	s.mu.Unlock()
}

func (s *artSink) events() []message.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]message.Event(nil), s.art...)
}

func TestSearchRequestKeepsArtworkAfterReply(t *testing.T) {
	socketEnv(t)
	h := hub.New()
	sink := &artSink{}
	h.Register(sink)
	coord := lookup.New(albumLooker{}, h, lookup.WithArtwork(slowArt{}))
	serve(t, NewServer(h, coord, &fakeFocus{}))

	q := message.Query{Artist: "Daft Punk", Track: "One More Time"}
	resp, err := request(t, message.Event{Type: message.TypeSearch, Query: &q})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, message.KindFound, resp.Result.Kind)

	require.Eventually(t, func() bool { return len(sink.events()) == 1 }, time.Second, 5*time.Millisecond)
	ev := sink.events()[0]
	require.NotNil(t, ev.Artwork, "note: %s", ev.Note)
	assert.Equal(t, "http://img/xl.png", ev.Artwork.URL)
	assert.Equal(t, resp.Result.Seq, ev.Seq)
}
