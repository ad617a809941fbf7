package message

import (
	"math"
	"time"
)

// Kind tags a Result.
type Kind string

const (
	KindIdle           Kind = "idle"
	KindInFlight       Kind = "in_flight"
	KindFound          Kind = "found"
	KindNotFound       Kind = "not_found"
	KindAPIError       Kind = "api_error"
	KindTransportError Kind = "transport_error"
)

// Terminal reports whether k is a resolved outcome of a lookup.
func (k Kind) Terminal() bool {
	switch k {
	case KindFound, KindNotFound, KindAPIError, KindTransportError:
		return true
	}
	return false
}

// Artist is the performing artist of a track.
type Artist struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Album is optional on a track; ImageURL may be empty.
type Album struct {
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TrackMetadata is the canonical catalog record for a track.
type TrackMetadata struct {
	Name            string  `json:"name"`
	URL             string  `json:"url,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	Artist          Artist  `json:"artist"`
	Album           *Album  `json:"album,omitempty"`
}

// SplitDuration converts the duration into whole minutes and the remaining
// seconds, which keep any fractional part.
func (t TrackMetadata) SplitDuration() (minutes int, seconds float64) {
	m := math.Floor(t.DurationSeconds / 60)
	return int(m), t.DurationSeconds - m*60
}

// ImageURL returns the album image url, or "" when there is none.
func (t TrackMetadata) ImageURL() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.ImageURL
}

// Result is the outcome of a lookup. Exactly one Result is current at any
// time; Seq orders results so stale ones can be dropped.
type Result struct {
	Kind    Kind           `json:"kind"`
	Seq     uint64         `json:"seq"`
	ID      string         `json:"id,omitempty"`
	Origin  Origin         `json:"origin,omitempty"`
	Query   Query          `json:"query"`
	Track   *TrackMetadata `json:"track,omitempty"`
	Code    int            `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	At      time.Time      `json:"at"`
}

// Artwork is decoded album art, re-encoded as a PNG thumbnail.
type Artwork struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    []byte `json:"png,omitempty"`
}
