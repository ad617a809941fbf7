package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/nowplaying/internal/console"
	"go.klb.dev/nowplaying/internal/hub"
	"go.klb.dev/nowplaying/internal/ipc"
	"go.klb.dev/nowplaying/internal/logging"
	"go.klb.dev/nowplaying/internal/lookup"
	"go.klb.dev/nowplaying/internal/message"
)

func newSearchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "search [artist - track | mbid:<id>]",
		Short: "Look up a track",
		Long: `Looks up a track in the catalog and prints the result.

The query is either free text split the same way clipboard text is, or given
with --track and --artist, or a MusicBrainz id with --mbid. Flags override the
fields parsed from the text.

If a daemon is running the search goes through it, so its display updates
too. Pass --local to query the catalog directly.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), v, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.String("track", "", "track name")
	f.String("artist", "", "artist name")
	f.String("mbid", "", "MusicBrainz track id")
	f.Bool("json", false, "output the result as JSON")
	f.Bool("no-color", false, "disable coloured output")
	f.Bool("local", false, "query the catalog directly even if a daemon is running")
	addCatalogFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runSearch(ctx context.Context, w io.Writer, v *viper.Viper, text string) error {
	setupLogging(v)

	q, err := parseManual(text, queryFlags(v.GetString("track"), v.GetString("artist"), v.GetString("mbid")))
	if err != nil {
		return err
	}

	var r message.Result
	if !v.GetBool("local") && ipc.IsRunning() {
		resp, err := ipc.Request(ctx, message.Event{Type: message.TypeSearch, Query: &q})
		if err != nil {
			return err
		}
		if resp.Result == nil {
			return fmt.Errorf("daemon replied %s without a result", resp.Type)
		}
		r = *resp.Result
	} else {
		r, err = searchLocal(ctx, v, q)
		if err != nil {
			return err
		}
	}

	printResult(w, r, v.GetBool("json"), v.GetBool("no-color"))
	switch r.Kind {
	case message.KindAPIError, message.KindTransportError:
		return fmt.Errorf("lookup failed: %s", console.Label(r))
	}
	return nil
}

// searchLocal runs q through a private coordinator and waits for the answer.
func searchLocal(ctx context.Context, v *viper.Viper, q message.Query) (message.Result, error) {
	cat, err := newCatalog(v)
	if err != nil {
		return message.Result{}, err
	}
	coord := lookup.New(cat, hub.New())
	r, err := coord.Submit(ctx, q, message.OriginManual)
	if err != nil {
		return message.Result{}, err
	}
	return coord.Wait(ctx, r.Seq)
}

// printResult writes r as a table, or as one JSON line.
func printResult(w io.Writer, r message.Result, jsonOut, noColor bool) {
	var sink interface {
		Send(message.Event)
		Close()
	}
	if jsonOut {
		sink = console.NewJSON(w)
	} else {
		sink = console.NewTable(w, console.WithNoColor(noColor || !logging.IsTTY(w)))
	}
	sink.Send(message.ResultEvent(r))
	sink.Close()
}
