// Package message defines the nowplaying data model and the events the core
// emits to presentation sinks.
//
// Events double as the IPC protocol: every event is encoded as exactly one
// line of JSON, <json>\n, by the wire package.
package message

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Type identifies the kind of event.
type Type string

const (
	TypeTextChanged    Type = "TEXT_CHANGED"
	TypeParsed         Type = "PARSED"
	TypeResult         Type = "RESULT"
	TypeArtwork        Type = "ARTWORK"
	TypeStatus         Type = "STATUS"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeSearch         Type = "SEARCH"
	TypeFocus          Type = "FOCUS"
	TypeError          Type = "ERROR"
)

// Snapshot is a single read of the clipboard text.
type Snapshot struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Event is the envelope delivered to sinks and carried over IPC.
type Event struct {
	Type Type   `json:"type"`
	Seq  uint64 `json:"seq,omitempty"`

	// TEXT_CHANGED
	Text string `json:"text,omitempty"`

	// PARSED, SEARCH
	Query *Query `json:"query,omitempty"`

	// RESULT, STATUS_RESPONSE
	Result *Result `json:"result,omitempty"`

	// ARTWORK. A nil Artwork with a Note means the image is unavailable.
	Artwork *Artwork `json:"artwork,omitempty"`
	Note    string   `json:"note,omitempty"`

	// FOCUS
	Focus *bool `json:"focus,omitempty"`

	// STATUS_RESPONSE
	Sinks []string `json:"sinks,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the event to JSON without a trailing newline.
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode deserialises an event from raw JSON bytes.
func Decode(b []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("event decode: %w", err)
	}
	return &e, nil
}

// ResultEvent wraps r in a RESULT event.
func ResultEvent(r Result) Event {
	return Event{Type: TypeResult, Seq: r.Seq, Result: &r}
}
