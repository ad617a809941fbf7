package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/nowplaying/internal/console"
	"go.klb.dev/nowplaying/internal/ipc"
	"go.klb.dev/nowplaying/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's current result",
		Long: `Asks the running daemon for its current result and the sinks it is
rendering to.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runStatus(cmd.Context(), cmd.OutOrStdout(), v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	f.Bool("no-color", false, "disable coloured output")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(ctx context.Context, w io.Writer, v *viper.Viper) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := ipc.Request(ctx, message.Event{Type: message.TypeStatus})
	if err != nil {
		return fmt.Errorf("no running daemon at %s: %w", ipc.SocketPath(), err)
	}

	if v.GetBool("json") {
		b, err := resp.Encode()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	fmt.Fprintf(w, "Socket:  %s\n", ipc.SocketPath())
	fmt.Fprintf(w, "Sinks:   %s\n", strings.Join(resp.Sinks, ", "))
	if resp.Result == nil {
		fmt.Fprintln(w, "Result:  none yet")
		return nil
	}
	r := resp.Result
	fmt.Fprintf(w, "Result:  %s (%s)\n\n", console.Label(*r), fmtAge(r.At))
	if r.Kind != message.KindIdle {
		printResult(w, *r, false, v.GetBool("no-color"))
	}
	return nil
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}
