package console

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/nowplaying/internal/message"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{245, "4:05"},
		{60, "1:00"},
		{0, "0:00"},
		{245.5, "4:05.50"},
		{61.25, "1:01.25"},
		{3600, "60:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "%v", tt.seconds)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Searching...", Label(message.Result{Kind: message.KindInFlight}))
	assert.Equal(t, "Found Track", Label(message.Result{Kind: message.KindFound}))
	assert.Equal(t, "Track not found", Label(message.Result{Kind: message.KindNotFound}))
	assert.Equal(t, "Error (10) Invalid API key",
		Label(message.Result{Kind: message.KindAPIError, Code: 10, Message: "Invalid API key"}))
	assert.Equal(t, "Transport error: timeout",
		Label(message.Result{Kind: message.KindTransportError, Message: "timeout"}))
}

func TestRenderTrackFallbacks(t *testing.T) {
	out := RenderTrack(&message.TrackMetadata{
		Name:            "One More Time",
		DurationSeconds: 320,
		Artist:          message.Artist{Name: "Daft Punk"},
	})
	assert.Contains(t, out, "One More Time")
	assert.Contains(t, out, "5:20")
	assert.Contains(t, out, albumNotFound)
	assert.Contains(t, out, imageNotFound)
	assert.Contains(t, out, "╭", "rounded style")
}

func TestRenderTrackWithAlbum(t *testing.T) {
	out := RenderTrack(&message.TrackMetadata{
		Name:   "One More Time",
		Artist: message.Artist{Name: "Daft Punk"},
		Album:  &message.Album{Title: "Discovery", ImageURL: "http://img/xl.png"},
	})
	assert.Contains(t, out, "Discovery")
	assert.Contains(t, out, "http://img/xl.png")
	assert.NotContains(t, out, albumNotFound)
}

func TestTableRendersResultsWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, WithNoColor(true))

	tbl.Send(message.Event{Type: message.TypeTextChanged, Text: "Daft Punk - One More Time"})
	tbl.Send(message.ResultEvent(message.Result{
		Kind:  message.KindInFlight,
		Query: message.Query{Artist: "Daft Punk", Track: "One More Time"},
	}))
	tbl.Send(message.ResultEvent(message.Result{Kind: message.KindNotFound}))
	tbl.Close()

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "no ANSI escapes")
	assert.NotContains(t, out, "clipboard", "clipboard echo is off by default")
	assert.Contains(t, out, "Searching... Daft Punk - One More Time\n")
	assert.Contains(t, out, "Track not found\n")
}

func TestTableEchoesClipboard(t *testing.T) {
	tbl := &Table{colors: newPalette(true), verbose: true}
	q := message.Query{Artist: "A", Track: "B"}
	assert.Equal(t, "clipboard \"A - B\"\n", tbl.Render(message.Event{Type: message.TypeTextChanged, Text: "A - B"}))
	assert.Equal(t, "parsed A - B\n", tbl.Render(message.Event{Type: message.TypeParsed, Query: &q}))
	assert.Empty(t, tbl.Render(message.ResultEvent(message.Result{Kind: message.KindIdle})))
}

func TestJSONWritesOneEventPerLine(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf)
	j.Send(message.Event{Type: message.TypeTextChanged, Text: "x"})
	j.Send(message.ResultEvent(message.Result{Kind: message.KindFound, Seq: 4}))
	j.Close()

	sc := bufio.NewScanner(strings.NewReader(buf.String()))
	var types []message.Type
	for sc.Scan() {
		ev, err := message.Decode(sc.Bytes())
		require.NoError(t, err)
		types = append(types, ev.Type)
	}
	assert.Equal(t, []message.Type{message.TypeTextChanged, message.TypeResult}, types)
}

func TestMatchNote(t *testing.T) {
	track := &message.TrackMetadata{Name: "One More Time", Artist: message.Artist{Name: "Daft Punk"}}

	assert.Empty(t, MatchNote(message.Query{Artist: "daft punk", Track: "one more time"}, track))
	assert.Equal(t, `corrected from "Daft Pnuk - One More Tim"`,
		MatchNote(message.Query{Artist: "Daft Pnuk", Track: "One More Tim"}, track))
	assert.Equal(t, `closest match for "Justice - Genesis"`,
		MatchNote(message.Query{Artist: "Justice", Track: "Genesis"}, track))
	assert.Empty(t, MatchNote(message.Query{MBID: "abc"}, track))
	assert.Empty(t, MatchNote(message.Query{Artist: "a", Track: "b"}, nil))
}
