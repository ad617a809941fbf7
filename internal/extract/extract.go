// Package extract splits "now playing" captions into artist and track.
//
// Players disagree on caption layout, so the split is a heuristic:
//
//	Artist - Track      hyphen: artist first
//	Track • Artist      glyph (bullet, pipe, dash glyphs...): track first
//	Track<TAB>Artist    line break or tab: track first
//
// The inverted order of the glyph and break forms is kept as-is.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"go.klb.dev/nowplaying/internal/message"
)

// MaxTextLen is the longest input, in runes, treated as a caption.
const MaxTextLen = 512

// Separator identifies which separator produced a Match.
type Separator int

const (
	SeparatorHyphen Separator = iota + 1
	SeparatorGlyph
	SeparatorBreak
)

func (s Separator) String() string {
	switch s {
	case SeparatorHyphen:
		return "hyphen"
	case SeparatorGlyph:
		return "glyph"
	case SeparatorBreak:
		return "break"
	default:
		return "none"
	}
}

// Match is a successful split.
type Match struct {
	Artist    string
	Track     string
	Separator Separator
}

// Query converts m to a lookup query.
func (m Match) Query() message.Query {
	return message.Query{Track: m.Track, Artist: m.Artist}
}

var (
	hyphenRE = regexp.MustCompile(`\s*-+\s*`)
	// Brackets, quotes and sentence punctuation occur inside titles and are
	// never separators.
	glyphRE = regexp.MustCompile(`\s*[^\s\p{L}\p{N}\p{M}_\-\p{Ps}\p{Pe}\p{Pi}\p{Pf}'"!?.,&:;]+\s*`)
	breakRE = regexp.MustCompile(` *[^\S ]+\s*`)
)

// Extract splits text into artist and track. It reports false when no
// separator matches; callers must not look anything up in that case.
func Extract(text string) (Match, bool) {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" || utf8.RuneCountInString(text) > MaxTextLen {
		return Match{}, false
	}

	if before, after, ok := lastSplit(text, hyphenRE); ok {
		return Match{Artist: before, Track: after, Separator: SeparatorHyphen}, true
	}
	if before, after, ok := lastSplit(text, glyphRE); ok {
		return Match{Artist: after, Track: before, Separator: SeparatorGlyph}, true
	}
	if before, after, ok := lastSplit(text, breakRE); ok {
		return Match{Artist: after, Track: before, Separator: SeparatorBreak}, true
	}
	return Match{}, false
}

// lastSplit cuts text at the last separator that touches whitespace and
// leaves non-empty text on both sides.
func lastSplit(text string, re *regexp.Regexp) (before, after string, ok bool) {
	locs := re.FindAllStringIndex(text, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		start, end := locs[i][0], locs[i][1]
		if !strings.ContainsFunc(text[start:end], unicode.IsSpace) {
			continue
		}
		before = strings.TrimSpace(text[:start])
		after = strings.TrimSpace(text[end:])
		if before != "" && after != "" {
			return before, after, true
		}
	}
	return "", "", false
}
