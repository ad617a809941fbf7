package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadlessNeverHasText(t *testing.T) {
	var s Source = headlessBackend{}
	_, ok := s.ReadText()
	assert.False(t, ok)
	assert.Equal(t, "headless (no-op)", s.Name())
}

func TestFuncSource(t *testing.T) {
	var s Source = Func(func() (string, bool) { return "x", true })
	got, ok := s.ReadText()
	assert.True(t, ok)
	assert.Equal(t, "x", got)
}
