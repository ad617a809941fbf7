package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestThumbnailScalesDown(t *testing.T) {
	art, err := Thumbnail(jpegOf(t, 600, 400))
	require.NoError(t, err)
	assert.Equal(t, 300, art.Width)
	assert.Equal(t, 200, art.Height)

	decoded, format, err := image.Decode(bytes.NewReader(art.PNG))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 300, decoded.Bounds().Dx())
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	art, err := Thumbnail(jpegOf(t, 64, 64))
	require.NoError(t, err)
	assert.Equal(t, 64, art.Width)
	assert.Equal(t, 64, art.Height)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUndecodable)
	_, err = Thumbnail(nil)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestFetch(t *testing.T) {
	img := jpegOf(t, 120, 90)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(img)
	}))
	t.Cleanup(server.Close)

	f := New(server.Client())
	art, err := f.Fetch(context.Background(), server.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/cover.jpg", art.URL)
	assert.Equal(t, 120, art.Width)

	_, err = f.Fetch(context.Background(), server.URL+"/missing.jpg")
	assert.Error(t, err)
}
