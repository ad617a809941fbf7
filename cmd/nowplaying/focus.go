package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go.klb.dev/nowplaying/internal/ipc"
	"go.klb.dev/nowplaying/internal/message"
)

func newFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus on|off",
		Short: "Tell the daemon whether its window has focus",
		Long: `While focus is on the daemon stops reading the clipboard, so text the user
copies while typing a manual query is not picked up. Window managers or editor
plugins call this when the nowplaying window gains or loses focus.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFocus(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func runFocus(ctx context.Context, w io.Writer, arg string) error {
	on, err := parseOnOff(arg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := ipc.Request(ctx, message.Event{Type: message.TypeFocus, Focus: &on})
	if err != nil {
		return err
	}
	if resp.Focus != nil && *resp.Focus {
		fmt.Fprintln(w, "focus on: clipboard paused")
	} else {
		fmt.Fprintln(w, "focus off: clipboard watched")
	}
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}
