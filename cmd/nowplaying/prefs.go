package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/nowplaying/internal/prefs"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted preferences",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetCmd(), newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print the effective settings",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout(), v)
		},
	}
	addCatalogFlags(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runConfigShow(w io.Writer, v *viper.Viper) error {
	file := v.ConfigFileUsed()
	if file == "" {
		file = "(none, using defaults)"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Key", "Value"})
	tw.AppendRow(table.Row{"config file", file})
	for _, k := range []string{"catalog-url", "timeout", "retries"} {
		tw.AppendRow(table.Row{k, v.GetString(k)})
	}
	for _, k := range prefs.Keys {
		tw.AppendRow(table.Row{k, v.GetBool(k)})
	}
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func newConfigSetCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Persist a preference",
		Long: fmt.Sprintf(`Writes a preference to the per-user config file. A running daemon picks the
change up without a restart.

Keys: %s, %s`, prefs.KeyMonitorClipboard, prefs.KeyAutoSearch),
		Args:      cobra.ExactArgs(2),
		ValidArgs: prefs.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), file, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&file, "config", "", "config file to write (default $HOME/.config/nowplaying/nowplaying.toml)")
	return cmd
}

// runConfigSet rewrites only the target file, so flags and env vars of this
// invocation never leak into it.
func runConfigSet(w io.Writer, file, key, value string) error {
	if file == "" {
		file = prefs.DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	p := prefs.New(v)
	if err := p.Set(key, value); err != nil {
		return err
	}
	if err := p.Save(file); err != nil {
		return err
	}
	got, _ := p.Get(key)
	_, err := fmt.Fprintf(w, "%s = %t (%s)\n", key, got, file)
	return err
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the per-user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), prefs.DefaultPath())
			return err
		},
	}
}
