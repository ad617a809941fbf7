package prefs

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreOn(t *testing.T) {
	p := New(viper.New())
	assert.True(t, p.MonitorClipboard())
	assert.True(t, p.AutoSearch())
}

func TestSetUpdatesCachedValue(t *testing.T) {
	p := New(viper.New())
	require.NoError(t, p.Set(KeyAutoSearch, "false"))
	assert.False(t, p.AutoSearch())
	assert.True(t, p.MonitorClipboard())

	got, err := p.Get(KeyAutoSearch)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestSetRejectsUnknownKeyAndBadValue(t *testing.T) {
	p := New(viper.New())
	assert.Error(t, p.Set("volume", "true"))
	assert.Error(t, p.Set(KeyMonitorClipboard, "sometimes"))
	_, err := p.Get("volume")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "nowplaying.toml")

	p := New(viper.New())
	require.NoError(t, p.Set(KeyMonitorClipboard, "false"))
	require.NoError(t, p.Save(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	loaded := New(v)
	assert.False(t, loaded.MonitorClipboard())
	assert.True(t, loaded.AutoSearch())
}

func TestStatic(t *testing.T) {
	var s Settings = Static{Monitor: true}
	assert.True(t, s.MonitorClipboard())
	assert.False(t, s.AutoSearch())
}

func TestDefaultPathIsUnderConfigDir(t *testing.T) {
	assert.Equal(t, "nowplaying.toml", filepath.Base(DefaultPath()))
	assert.Equal(t, Dir(), filepath.Dir(DefaultPath()))
	assert.Equal(t, "nowplaying", filepath.Base(Dir()))
}
