package hub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/nowplaying/internal/message"
)

type recorder struct {
	id string

	mu     sync.Mutex
	events []message.Event
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) Send(ev message.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) got() []message.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]message.Event(nil), r.events...)
}

func TestPublishFansOut(t *testing.T) {
	h := New()
	a, b := &recorder{id: "a"}, &recorder{id: "b"}
	h.Register(a)
	h.Register(b)

	h.Publish(message.Event{Type: message.TypeTextChanged, Text: "x"})
	assert.Len(t, a.got(), 1)
	assert.Len(t, b.got(), 1)

	h.Unregister(b)
	h.Publish(message.Event{Type: message.TypeTextChanged, Text: "y"})
	assert.Len(t, a.got(), 2)
	assert.Len(t, b.got(), 1)
	assert.Equal(t, []string{"a"}, h.Sinks())
}

func TestRegisterReplaysCurrentResultAndArtwork(t *testing.T) {
	h := New()
	h.Publish(message.ResultEvent(message.Result{Kind: message.KindFound, Seq: 2}))
	h.Publish(message.Event{Type: message.TypeArtwork, Seq: 2, Note: "image not found"})

	late := &recorder{id: "late"}
	h.Register(late)
	evs := late.got()
	require.Len(t, evs, 2)
	assert.Equal(t, message.TypeResult, evs[0].Type)
	assert.Equal(t, message.TypeArtwork, evs[1].Type)
}

func TestStaleArtworkIsNotRemembered(t *testing.T) {
	h := New()
	h.Publish(message.ResultEvent(message.Result{Kind: message.KindInFlight, Seq: 3}))
	h.Publish(message.Event{Type: message.TypeArtwork, Seq: 2})

	late := &recorder{id: "late"}
	h.Register(late)
	require.Len(t, late.got(), 1)

	cur, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(3), cur.Seq)
	assert.Equal(t, message.KindInFlight, cur.Kind)
}

func TestLatestEmpty(t *testing.T) {
	_, ok := New().Latest()
	assert.False(t, ok)
}
