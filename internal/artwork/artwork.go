// Package artwork fetches album art and turns it into a PNG thumbnail.
package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoders for whatever the catalog serves
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/nfnt/resize"

	"go.klb.dev/nowplaying/internal/message"
)

const (
	// MaxSide bounds both thumbnail dimensions.
	MaxSide = 300

	maxImageSize = 8 << 20
)

// ErrUndecodable means the bytes were fetched but are not a usable image.
var ErrUndecodable = errors.New("image not decodable")

// Fetcher downloads album art.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher using client, or http.DefaultClient when nil.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch downloads url and returns its thumbnail.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*message.Artwork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch artwork: HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("read artwork: %w", err)
	}
	art, err := Thumbnail(data)
	if err != nil {
		return nil, err
	}
	art.URL = url
	return art, nil
}

// Thumbnail decodes data and scales it to fit MaxSide×MaxSide, keeping the
// aspect ratio. Smaller images are kept at their size.
func Thumbnail(data []byte) (*message.Artwork, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrUndecodable)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds", ErrUndecodable)
	}

	thumb := resize.Thumbnail(MaxSide, MaxSide, img, resize.Lanczos3)

	var out bytes.Buffer
	if err := png.Encode(&out, thumb); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	tb := thumb.Bounds()
	return &message.Artwork{
		Width:  tb.Dx(),
		Height: tb.Dy(),
		PNG:    out.Bytes(),
	}, nil
}
