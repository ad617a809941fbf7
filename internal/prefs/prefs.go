// Package prefs holds the persisted preference flags consumed by the
// pipeline. The core only reads them; the config command writes them.
package prefs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	KeyMonitorClipboard = "monitor_clipboard"
	KeyAutoSearch       = "auto_search"
)

// Keys lists every preference key.
var Keys = []string{KeyMonitorClipboard, KeyAutoSearch}

// Settings is the read-only view the core depends on.
type Settings interface {
	MonitorClipboard() bool
	AutoSearch() bool
}

// Static is a fixed Settings value.
type Static struct {
	Monitor bool
	Auto    bool
}

func (s Static) MonitorClipboard() bool { return s.Monitor }
func (s Static) AutoSearch() bool       { return s.Auto }

// Prefs is a viper-backed Settings. Values are cached so the poll loop reads
// them without touching viper.
type Prefs struct {
	v       *viper.Viper
	monitor atomic.Bool
	auto    atomic.Bool
}

var _ Settings = (*Prefs)(nil)

// SetDefaults registers the preference defaults on v. Both default to on.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMonitorClipboard, true)
	v.SetDefault(KeyAutoSearch, true)
}

// New returns preferences read from v.
func New(v *viper.Viper) *Prefs {
	SetDefaults(v)
	p := &Prefs{v: v}
	p.reload()
	return p
}

func (p *Prefs) MonitorClipboard() bool { return p.monitor.Load() }
func (p *Prefs) AutoSearch() bool       { return p.auto.Load() }

func (p *Prefs) reload() {
	p.monitor.Store(p.v.GetBool(KeyMonitorClipboard))
	p.auto.Store(p.v.GetBool(KeyAutoSearch))
}

// Watch reloads the preferences whenever the config file changes. It is a
// no-op when no config file was read.
func (p *Prefs) Watch() {
	if p.v.ConfigFileUsed() == "" {
		return
	}
	p.v.OnConfigChange(func(e fsnotify.Event) {
		p.reload()
		slog.Info("preferences reloaded",
			"file", e.Name,
			KeyMonitorClipboard, p.MonitorClipboard(),
			KeyAutoSearch, p.AutoSearch(),
		)
	})
	p.v.WatchConfig()
}

// Set parses raw as a boolean and stores it under key.
func (p *Prefs) Set(key, raw string) error {
	if !known(key) {
		return fmt.Errorf("unknown preference %q", key)
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("preference %s: %w", key, err)
	}
	p.v.Set(key, b)
	p.reload()
	return nil
}

// Get returns the current value of key.
func (p *Prefs) Get(key string) (bool, error) {
	if !known(key) {
		return false, fmt.Errorf("unknown preference %q", key)
	}
	return p.v.GetBool(key), nil
}

// Save writes the preferences to path, creating its directory.
func (p *Prefs) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	if err := p.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Dir is the per-user config directory, $XDG_CONFIG_HOME/nowplaying
// (~/.config/nowplaying on Linux).
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "nowplaying")
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "nowplaying.toml")
}

func known(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
