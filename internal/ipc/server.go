package ipc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"go.klb.dev/nowplaying/internal/message"
	"go.klb.dev/nowplaying/internal/wire"
)

const (
	requestTimeout = 5 * time.Second
	searchTimeout  = 2 * time.Minute
)

// Status reports the daemon's current result and sinks. *hub.Hub
// implements it.
type Status interface {
	Latest() (message.Result, bool)
	Sinks() []string
}

// Searcher runs manual queries. *lookup.Coordinator implements it.
type Searcher interface {
	Submit(ctx context.Context, q message.Query, origin message.Origin) (message.Result, error)
	Wait(ctx context.Context, seq uint64) (message.Result, error)
}

// FocusSetter toggles the focus gate. *watch.Hold implements it.
type FocusSetter interface {
	Set(focus bool)
}

// Server answers IPC requests from the CLI.
type Server struct {
	status   Status
	searcher Searcher
	focus    FocusSetter
}

// NewServer returns a Server.
func NewServer(status Status, searcher Searcher, focus FocusSetter) *Server {
	return &Server{status: status, searcher: searcher, focus: focus}
}

// Serve accepts connections until ln is closed or ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				slog.Warn("IPC accept failed", "err", err)
			}
			return
		}
		go s.Handle(ctx, conn)
	}
}

// Handle answers the single request on conn and closes it.
func (s *Server) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	wc.SetReadDeadline(requestTimeout)
	req, err := wc.ReadEvent()
	if err != nil {
		slog.Debug("IPC read failed", "err", err)
		return
	}
	wc.SetReadDeadline(0)

	resp := s.reply(ctx, req)
	if err := wc.WriteEvent(resp); err != nil {
		slog.Debug("IPC write failed", "type", resp.Type, "err", err)
	}
}

func (s *Server) reply(ctx context.Context, req *message.Event) message.Event {
	switch req.Type {
	case message.TypeStatus:
		resp := message.Event{Type: message.TypeStatusResponse, Sinks: s.status.Sinks()}
		if r, ok := s.status.Latest(); ok {
			resp.Seq = r.Seq
			resp.Result = &r
		}
		return resp

	case message.TypeSearch:
		if req.Query == nil {
			return errorEvent("search request without a query")
		}
		ctx, cancel := context.WithTimeout(ctx, searchTimeout)
		defer cancel()
		r, err := s.searcher.Submit(ctx, *req.Query, message.OriginManual)
		if err != nil {
			return errorEvent(err.Error())
		}
		slog.Debug("IPC search submitted", "seq", r.Seq, "query", r.Query.String())
		final, err := s.searcher.Wait(ctx, r.Seq)
		if err != nil {
			return errorEvent(err.Error())
		}
		return message.ResultEvent(final)

	case message.TypeFocus:
		if req.Focus == nil {
			return errorEvent("focus request without a value")
		}
		s.focus.Set(*req.Focus)
		slog.Info("focus changed", "focused", *req.Focus)
		return message.Event{Type: message.TypeFocus, Focus: req.Focus}

	default:
		return errorEvent("unsupported request " + string(req.Type))
	}
}

func errorEvent(msg string) message.Event {
	return message.Event{Type: message.TypeError, Error: msg}
}
