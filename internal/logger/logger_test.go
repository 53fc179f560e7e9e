package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/config"
)

func TestNew_SplitsErrorFile(t *testing.T) {
	dir := t.TempDir()
	m, err := New(&config.Config{LogDirectory: dir, LogLevel: "debug"})
	require.NoError(t, err)

	m.Logger().Info().Msg("hello")
	m.Logger().Error().Msg("broken")
	require.NoError(t, m.Close())

	info, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "hello")
	assert.Contains(t, string(info), "broken")

	errs, err := os.ReadFile(filepath.Join(dir, "app.error.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(errs), "hello")
	assert.Contains(t, string(errs), "broken")
}

func TestGlobalFallbackAndSet(t *testing.T) {
	require.NoError(t, Close())
	assert.NotNil(t, L())

	var buf bytes.Buffer
	SetGlobal(NewWithWriter(&buf, zerolog.InfoLevel))
	t.Cleanup(func() { SetGlobal(nil) })

	Debug().Msg("hidden")
	Info().Str("video_id", "1").Msg("selected")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"video_id":"1"`)
}
