// Package wire reads and writes newline-delimited JSON events over a
// net.Conn.
//
// Wire format:
//
//	<json>\n
//
// Every line is exactly one message.Event.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"

	"go.klb.dev/nowplaying/internal/message"
)

const (
	// MaxMessageSize is the largest line we will read (1 MiB).
	MaxMessageSize = 1 << 20

	writeDeadline = 5 * time.Second
)

// ErrTooLarge is returned when a peer sends a line over MaxMessageSize.
var ErrTooLarge = errors.New("message too large")

// Conn wraps a net.Conn with buffered newline-delimited JSON framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// New wraps conn.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
	}
}

// SetReadDeadline sets or clears the read deadline.
func (c *Conn) SetReadDeadline(d time.Duration) {
	if d == 0 {
		_ = c.conn.SetReadDeadline(time.Time{})
	} else {
		_ = c.conn.SetReadDeadline(time.Now().Add(d))
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// WriteEvent serialises ev and writes it followed by a newline.
func (c *Conn) WriteEvent(ev message.Event) error {
	raw, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if len(raw) >= MaxMessageSize {
		return fmt.Errorf("%w (%d bytes)", ErrTooLarge, len(raw))
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(append(raw, '\n'))
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadEvent reads one newline-terminated line and decodes it. Lines longer
// than MaxMessageSize fail with ErrTooLarge without being buffered whole.
func (c *Conn) ReadEvent() (*message.Event, error) {
	var line []byte
	for {
		chunk, err := c.br.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > MaxMessageSize {
			return nil, fmt.Errorf("%w (over %d bytes)", ErrTooLarge, MaxMessageSize)
		}
		if err == nil {
			break
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return nil, err
		}
	}
	return message.Decode(line[:len(line)-1])
}
