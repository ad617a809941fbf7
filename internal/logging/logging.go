// Package logging configures the global slog logger for nowplaying.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// previewLen caps logged clipboard text, in runes.
const previewLen = 120

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// NewHandler builds the handler Setup installs, writing to w.
func NewHandler(w io.Writer, format Format, level slog.Level) slog.Handler {
	useTint := format == FormatText || (format == FormatAuto && IsTTY(w))
	if useTint {
		return tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

// Setup configures the global slog logger on stderr. Call once after
// flag/viper parsing.
func Setup(format Format, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, level)))
}

// Preview shortens clipboard text for debug logs.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLen {
		return text
	}
	r := []rune(text)
	return string(r[:previewLen]) + "…"
}
