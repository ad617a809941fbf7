package message

import (
	"net/url"
	"strings"
)

// Origin records which path produced a query.
type Origin string

const (
	OriginClipboard Origin = "clipboard"
	OriginManual    Origin = "manual"
)

// Query is a lookup request: a track and artist pair, or an opaque
// MusicBrainz id.
type Query struct {
	Track  string `json:"track,omitempty"`
	Artist string `json:"artist,omitempty"`
	MBID   string `json:"mbid,omitempty"`
}

// ValidationError reports a query with no usable fields. It never reaches
// the network layer.
type ValidationError struct {
	Query Query
}

func (e *ValidationError) Error() string {
	return "either a track and artist or a musicbrainz id are required"
}

// Normalize returns q with surrounding whitespace removed from every field.
func (q Query) Normalize() Query {
	return Query{
		Track:  strings.TrimSpace(q.Track),
		Artist: strings.TrimSpace(q.Artist),
		MBID:   strings.TrimSpace(q.MBID),
	}
}

// Validate accepts a query with an MBID, or with both a track and an artist.
func (q Query) Validate() error {
	n := q.Normalize()
	if n.MBID != "" || (n.Track != "" && n.Artist != "") {
		return nil
	}
	return &ValidationError{Query: q}
}

// Values returns the non-empty subset of track, artist and mbid.
func (q Query) Values() url.Values {
	n := q.Normalize()
	v := url.Values{}
	if n.Track != "" {
		v.Set("track", n.Track)
	}
	if n.Artist != "" {
		v.Set("artist", n.Artist)
	}
	if n.MBID != "" {
		v.Set("mbid", n.MBID)
	}
	return v
}

func (q Query) String() string {
	n := q.Normalize()
	if n.MBID != "" {
		return "mbid:" + n.MBID
	}
	return n.Artist + " - " + n.Track
}
