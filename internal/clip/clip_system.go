//go:build darwin || windows || linux

package clip

import (
	"log/slog"
	"runtime"
	"unicode/utf8"

	"golang.design/x/clipboard"
)

type systemBackend struct{}

// New returns the system clipboard source, or a headless source when the
// display environment is unavailable (e.g. a server without X11 or Wayland).
// clipboard.Init is called here rather than in init() so that commands that
// never read the clipboard (search, status) don't log spurious warnings.
func New() Source {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return headlessBackend{}
	}
	return systemBackend{}
}

func (systemBackend) Name() string { return runtime.GOOS + " clipboard" }

func (systemBackend) ReadText() (string, bool) {
	return textOf(clipboard.Read(clipboard.FmtText))
}

func (systemBackend) Close() {}

// textOf converts raw clipboard bytes; images and other binary payloads
// never decode as text.
func textOf(b []byte) (string, bool) {
	if len(b) == 0 || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
