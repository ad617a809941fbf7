package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"go.klb.dev/nowplaying/internal/extract"
	"go.klb.dev/nowplaying/internal/lookup"
	"go.klb.dev/nowplaying/internal/message"
)

const mbidPrefix = "mbid:"

var errNoSplit = errors.New(`expected "artist - track" or "mbid:<id>"`)

// parseManual turns a typed query into a Query. Flags, when set, override
// the fields parsed from text.
func parseManual(text string, override message.Query) (message.Query, error) {
	var q message.Query
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(strings.ToLower(text), mbidPrefix):
		q.MBID = strings.TrimSpace(text[len(mbidPrefix):])
	case text != "":
		m, ok := extract.Extract(text)
		if !ok {
			if override == (message.Query{}) {
				return message.Query{}, errNoSplit
			}
		} else {
			q = m.Query()
		}
	}

	if override.Track != "" {
		q.Track = override.Track
	}
	if override.Artist != "" {
		q.Artist = override.Artist
	}
	if override.MBID != "" {
		q.MBID = override.MBID
	}
	q = q.Normalize()
	return q, q.Validate()
}

// readManual submits one manual query per input line until r is exhausted
// or ctx is done. A line reading "clear" resets the current result.
func readManual(ctx context.Context, r io.Reader, c *lookup.Coordinator) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "clear":
			c.Clear()
			continue
		}

		q, err := parseManual(line, message.Query{})
		if err != nil {
			slog.Warn("manual query ignored", "input", line, "err", err)
			continue
		}
		if _, err := c.Submit(ctx, q, message.OriginManual); err != nil {
			slog.Warn("manual query rejected", "query", q.String(), "err", err)
		}
	}
	if err := sc.Err(); err != nil {
		slog.Debug("stdin closed", "err", err)
	}
}

func queryFlags(track, artist, mbid string) message.Query {
	return message.Query{Track: track, Artist: artist, MBID: mbid}
}
