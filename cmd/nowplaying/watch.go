package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arunsworld/nursery"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/nowplaying/internal/artwork"
	"go.klb.dev/nowplaying/internal/clip"
	"go.klb.dev/nowplaying/internal/console"
	"go.klb.dev/nowplaying/internal/hub"
	"go.klb.dev/nowplaying/internal/ipc"
	"go.klb.dev/nowplaying/internal/logging"
	"go.klb.dev/nowplaying/internal/lookup"
	"go.klb.dev/nowplaying/internal/pipeline"
	"go.klb.dev/nowplaying/internal/prefs"
	"go.klb.dev/nowplaying/internal/watch"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the clipboard and look up copied tracks",
		Long: `Runs the nowplaying daemon.

The clipboard is polled every --interval. Whenever its text changes and splits
into an artist and a track, the track is looked up in the catalog and the
result is printed. Manual queries can be typed on stdin, one per line, as
"artist - track" or "mbid:<id>"; "clear" resets the display.

Other sub-commands (search, status, focus) reach the daemon over a local
socket at $NOWPLAYING_SOCKET, $XDG_RUNTIME_DIR/nowplaying.sock or
$TMPDIR/nowplaying.sock. Only one daemon may run per socket.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runWatch(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.Duration("interval", watch.DefaultInterval, "clipboard poll interval")
	f.Bool("json", false, "print events as JSON lines instead of tables")
	f.Bool("no-color", false, "disable coloured output")
	f.Bool("echo", false, "also print every clipboard change and parse")
	f.Bool("stdin", true, "accept manual queries on stdin")
	f.Bool("manual-replace", false, "let manual queries replace an in-flight lookup instead of being rejected")
	addCatalogFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runWatch(parent context.Context, v *viper.Viper) error {
	setupLogging(v)
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("nowplaying starting",
		"version", Version,
		"catalog", v.GetString("catalog-url"),
		"config", v.ConfigFileUsed(),
	)

	// IPC first so a second daemon fails before touching the clipboard.
	ln, err := ipc.Listen()
	switch {
	case errors.Is(err, ipc.ErrAlreadyRunning):
		return fmt.Errorf("%w (socket %s)", err, ipc.SocketPath())
	case err != nil:
		slog.Warn("IPC socket unavailable", "err", err)
	default:
		defer ln.Close()
		slog.Info("IPC socket listening", "path", ln.Path())
	}

	src := clip.New()
	defer src.Close()
	slog.Info("clipboard backend", "name", src.Name())

	settings := prefs.New(v)
	settings.Watch()

	cat, err := newCatalog(v)
	if err != nil {
		return err
	}

	h := hub.New()
	sink := newSink(v)
	h.Register(sink)
	defer sink.Close()
	defer h.Unregister(sink)

	opts := []lookup.Option{lookup.WithArtwork(artwork.New(cat.HTTPClient()))}
	if v.GetBool("manual-replace") {
		opts = append(opts, lookup.WithManualReplace())
	}
	coord := lookup.New(cat, h, opts...)

	hold := &watch.Hold{}
	det := watch.New(src, settings,
		watch.WithFocus(hold),
		watch.WithInterval(v.GetDuration("interval")),
	)
	det.Prime()

	// stdin reads cannot be interrupted, so the reader is left out of the
	// nursery and dies with the process.
	if v.GetBool("stdin") {
		go readManual(ctx, os.Stdin, coord)
	}

	srv := ipc.NewServer(h, coord, hold)
	err = nursery.RunConcurrently(
		func(context.Context, chan error) { det.Run(ctx) },
		func(context.Context, chan error) { pipeline.New(h, coord, settings).Run(ctx, det.Changes()) },
		func(context.Context, chan error) {
			if ln != nil {
				srv.Serve(ctx, ln)
			}
		},
	)
	slog.Info("nowplaying stopped")
	return err
}

type closingSink interface {
	hub.Sink
	Close()
}

func newSink(v *viper.Viper) closingSink {
	if v.GetBool("json") {
		return console.NewJSON(os.Stdout)
	}
	opts := []console.TableOption{
		console.WithNoColor(v.GetBool("no-color") || !logging.IsTTY(os.Stdout)),
	}
	if v.GetBool("echo") {
		opts = append(opts, console.WithClipboardEcho())
	}
	return console.NewTable(os.Stdout, opts...)
}
