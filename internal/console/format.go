// Package console renders events for a terminal, either as human-readable
// tables or as JSON lines.
package console

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"go.klb.dev/nowplaying/internal/message"
)

const (
	albumNotFound = "Album not found"
	imageNotFound = "Image not found"
)

// FormatDuration renders seconds as m:ss, or m:ss.ff when the seconds are
// fractional.
func FormatDuration(seconds float64) string {
	md := message.TrackMetadata{DurationSeconds: seconds}
	m, s := md.SplitDuration()
	if s == math.Trunc(s) {
		return fmt.Sprintf("%d:%02d", m, int(s))
	}
	return fmt.Sprintf("%d:%05.2f", m, s)
}

// Label is the status line for a result.
func Label(r message.Result) string {
	switch r.Kind {
	case message.KindInFlight:
		return "Searching..."
	case message.KindFound:
		return "Found Track"
	case message.KindNotFound:
		return "Track not found"
	case message.KindAPIError:
		return fmt.Sprintf("Error (%d) %s", r.Code, r.Message)
	case message.KindTransportError:
		return "Transport error: " + r.Message
	default:
		return "Idle"
	}
}

// palette colours status labels. A disabled palette returns text as is.
type palette struct {
	ok, warn, bad, busy, dim *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		ok:   color.New(color.FgGreen, color.Bold),
		warn: color.New(color.FgYellow),
		bad:  color.New(color.FgRed, color.Bold),
		busy: color.New(color.FgCyan),
		dim:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.busy, p.dim} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

func (p palette) label(r message.Result) string {
	l := Label(r)
	switch r.Kind {
	case message.KindFound:
		return p.ok.Sprint(l)
	case message.KindNotFound:
		return p.warn.Sprint(l)
	case message.KindAPIError, message.KindTransportError:
		return p.bad.Sprint(l)
	case message.KindInFlight:
		return p.busy.Sprint(l)
	default:
		return p.dim.Sprint(l)
	}
}

// RenderTrack renders found track metadata as a rounded two-column table.
func RenderTrack(t *message.TrackMetadata) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})

	tw.AppendRow(table.Row{"Track", withURL(t.Name, t.URL)})
	tw.AppendRow(table.Row{"Artist", withURL(t.Artist.Name, t.Artist.URL)})
	tw.AppendRow(table.Row{"Duration", FormatDuration(t.DurationSeconds)})

	album, image := albumNotFound, imageNotFound
	if t.Album != nil {
		album = withURL(t.Album.Title, t.Album.URL)
	}
	if u := t.ImageURL(); u != "" {
		image = u
	}
	tw.AppendRow(table.Row{"Album", album})
	tw.AppendRow(table.Row{"Image", image})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 80},
	})
	return tw.Render()
}

func withURL(name, url string) string {
	if url == "" {
		return name
	}
	return name + "\n" + url
}

// MatchNote describes how the catalog's answer differs from what was asked
// for: "" when the names match, a spelling correction when they are close,
// a closest match otherwise. MBID lookups never get a note.
func MatchNote(q message.Query, t *message.TrackMetadata) string {
	if t == nil || q.MBID != "" {
		return ""
	}
	asked := strings.ToLower(q.Artist + " - " + q.Track)
	got := strings.ToLower(t.Artist.Name + " - " + t.Name)
	d := levenshtein.ComputeDistance(asked, got)
	switch {
	case d == 0:
		return ""
	case d*4 <= utf8.RuneCountInString(asked):
		return fmt.Sprintf("corrected from %q", q.String())
	default:
		return fmt.Sprintf("closest match for %q", q.String())
	}
}
