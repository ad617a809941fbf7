package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"go.klb.dev/nowplaying/internal/extract"
	"go.klb.dev/nowplaying/internal/message"
)

func newParseCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show how clipboard text would be split",
		Long: `Splits text into artist and track exactly as the clipboard watcher does,
without looking anything up.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), strings.Join(args, " "), jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output the parsed query as JSON")
	return cmd
}

func runParse(w io.Writer, text string, jsonOut bool) error {
	m, ok := extract.Extract(text)
	if !ok {
		return fmt.Errorf("no artist/track split in %q", text)
	}
	q := m.Query()
	if jsonOut {
		ev := message.Event{Type: message.TypeParsed, Query: &q}
		b, err := ev.Encode()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRow(table.Row{"Artist", m.Artist})
	tw.AppendRow(table.Row{"Track", m.Track})
	tw.AppendRow(table.Row{"Separator", m.Separator.String()})
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
