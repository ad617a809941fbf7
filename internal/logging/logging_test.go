package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("TINT"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatAuto, ParseFormat("yaml"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewHandlerAutoIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, FormatAuto, slog.LevelInfo))
	log.Debug("hidden")
	log.Info("lookup finished", "seq", 7)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"lookup finished"`)
	assert.Contains(t, out, `"seq":7`)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	long := strings.Repeat("é", previewLen+10)
	p := Preview(long)
	assert.True(t, strings.HasSuffix(p, "…"))
	assert.Equal(t, previewLen+1, len([]rune(p)))
}
