package ipc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.klb.dev/nowplaying/internal/message"
	"go.klb.dev/nowplaying/internal/wire"
)

// RemoteError is an ERROR reply from the daemon.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return "daemon: " + e.Message }

// Request sends req to the running daemon and returns its reply. ERROR
// replies are returned as *RemoteError.
func Request(ctx context.Context, req message.Event) (*message.Event, error) {
	conn, err := Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// unblock the read when ctx is cancelled without a deadline
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	wc := wire.New(conn)
	if err := wc.WriteEvent(req); err != nil {
		return nil, fmt.Errorf("send %s: %w", req.Type, err)
	}
	resp, err := wc.ReadEvent()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Join(ctxErr, err)
		}
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if resp.Type == message.TypeError {
		return nil, &RemoteError{Message: resp.Error}
	}
	return resp, nil
}
