package catalog

import (
	"bytes"
	"strconv"
	"strings"

	"go.klb.dev/nowplaying/internal/message"
)

type trackResponse struct {
	Message *string       `json:"message"`
	Error   errorCode     `json:"error"`
	Track   *trackPayload `json:"track"`
}

type trackPayload struct {
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Duration number        `json:"duration"` // milliseconds
	Artist   artistPayload `json:"artist"`
	Album    *albumPayload `json:"album"`
}

type artistPayload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type albumPayload struct {
	Title string         `json:"title"`
	URL   string         `json:"url"`
	Image []imagePayload `json:"image"` // ascending size
}

type imagePayload struct {
	Text string `json:"#text"`
	Size string `json:"size"`
}

func (t *trackPayload) metadata() *message.TrackMetadata {
	md := &message.TrackMetadata{
		Name:            t.Name,
		URL:             t.URL,
		DurationSeconds: float64(t.Duration) / 1000,
		Artist: message.Artist{
			Name: t.Artist.Name,
			URL:  t.Artist.URL,
		},
	}
	if t.Album != nil {
		md.Album = &message.Album{
			Title: t.Album.Title,
			URL:   t.Album.URL,
		}
		// the last entry is the largest size
		if n := len(t.Album.Image); n > 0 {
			md.Album.ImageURL = strings.TrimSpace(t.Album.Image[n-1].Text)
		}
	}
	return md
}

// number decodes a JSON number or a numeric string. Empty strings and null
// decode as zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if strings.TrimSpace(s) == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// errorCode is the service's numeric error code. A value that is not a
// number decodes as 0 so the accompanying message survives.
type errorCode int

func (c *errorCode) UnmarshalJSON(b []byte) error {
	var n number
	if err := n.UnmarshalJSON(b); err != nil {
		*c = 0
		return nil
	}
	*c = errorCode(n)
	return nil
}
