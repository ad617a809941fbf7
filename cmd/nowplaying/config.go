package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/nowplaying/internal/catalog"
	"go.klb.dev/nowplaying/internal/logging"
	"go.klb.dev/nowplaying/internal/prefs"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and NOWPLAYING_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → NOWPLAYING_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("nowplaying")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/nowplaying/")
		v.AddConfigPath(prefs.Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("NOWPLAYING")
	v.AutomaticEnv()
	prefs.SetDefaults(v)

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for service, debug for interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addCatalogFlags adds the catalog service flags to a command.
func addCatalogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("catalog-url", catalog.DefaultBaseURL, "catalog service base URL")
	f.Duration("timeout", 20*time.Second, "per-request timeout for catalog and artwork requests")
	f.Int("retries", 2, "retries for failed catalog requests")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}

// newCatalog builds the catalog client from the catalog flags.
func newCatalog(v *viper.Viper) (*catalog.Client, error) {
	httpClient := catalog.NewHTTPClient(
		v.GetDuration("timeout"),
		v.GetInt("retries"),
		"nowplaying/"+Version,
	)
	c, err := catalog.New(v.GetString("catalog-url"), catalog.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}
