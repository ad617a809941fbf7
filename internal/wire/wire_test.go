package wire

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/nowplaying/internal/message"
)

func pipe(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	a, b := net.Pipe()
	ca, cb := New(a), New(b)
	t.Cleanup(func() {
		_ = ca.Close()
		_ = cb.Close()
	})
	return ca, cb
}

func TestRoundTrip(t *testing.T) {
	client, server := pipe(t)
	q := message.Query{Artist: "Daft Punk", Track: "One More Time"}

	errc := make(chan error, 1)
	go func() {
		errc <- client.WriteEvent(message.Event{Type: message.TypeSearch, Query: &q})
	}()

	ev, err := server.ReadEvent()
	require.NoError(t, err)
	require.NoError(t, <-errc)
	assert.Equal(t, message.TypeSearch, ev.Type)
	require.NotNil(t, ev.Query)
	assert.Equal(t, q, *ev.Query)
}

func TestReadRejectsOversizedLine(t *testing.T) {
	a, b := net.Pipe()
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	go func() {
		_, _ = a.Write([]byte(strings.Repeat("x", MaxMessageSize+10) + "\n"))
	}()

	_, err := New(b).ReadEvent()
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestReadRejectsGarbage(t *testing.T) {
	a, b := net.Pipe()
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	go func() { _, _ = a.Write([]byte("not json\n")) }()

	_, err := New(b).ReadEvent()
	assert.Error(t, err)
}
