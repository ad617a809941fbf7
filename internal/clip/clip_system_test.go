//go:build darwin || windows || linux

package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextOf(t *testing.T) {
	s, ok := textOf([]byte("Daft Punk - One More Time"))
	assert.True(t, ok)
	assert.Equal(t, "Daft Punk - One More Time", s)

	_, ok = textOf(nil)
	assert.False(t, ok, "empty clipboard")

	_, ok = textOf([]byte{0x89, 'P', 'N', 'G', 0xff, 0xfe})
	assert.False(t, ok, "binary payload")
}
