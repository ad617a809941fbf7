// nowplaying: look up the track on the clipboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/nowplaying/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "nowplaying",
		Short: "Look up the track on the clipboard",
		Long: `nowplaying watches the system clipboard for "Artist - Track" style text
(as copied from a station's now-playing display), splits it into artist and
track, and looks the track up in the station's catalog service.

Run "nowplaying watch" to start the daemon. Use "nowplaying search/status/focus"
as CLI tools; they talk to a running daemon over a local socket.

Config file search order (first found wins):
  /etc/nowplaying/nowplaying.toml
  $XDG_CONFIG_HOME/nowplaying/nowplaying.toml (~/.config on Linux)
  path supplied via --config

All flags can be set via NOWPLAYING_<FLAG> env vars or config-file keys.
See "nowplaying watch --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newWatchCmd(),
		newSearchCmd(),
		newParseCmd(),
		newStatusCmd(),
		newFocusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nowplaying %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
