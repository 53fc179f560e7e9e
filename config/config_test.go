package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewManager(path)

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, time.Second, cfg.FetchLatency)
	assert.Equal(t, time.Second, cfg.CommentLatency)
	assert.Equal(t, "high", cfg.DefaultQuality)
	assert.True(t, cfg.DefaultSubtitles)
	assert.False(t, cfg.DefaultAutoplay)
	assert.Equal(t, "simulated", cfg.MediaBackend)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "@every 1s", cfg.ClockSchedule)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")

	reloaded, err := m.Reload()
	require.NoError(t, err)
	assert.Equal(t, cfg.FetchLatency, reloaded.FetchLatency)
	assert.True(t, reloaded.DefaultSubtitles)
}

func TestManager_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
latency:
  fetch: 250ms
  comment: bogus
preferences:
  autoplay: true
  quality: low
  subtitles: false
storage:
  backend: SQLite
catalog:
  - id: "7"
    title: Custom
    duration: "1:00"
    published_at: "2026-10-01"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 250*time.Millisecond, cfg.FetchLatency)
	assert.Equal(t, time.Second, cfg.CommentLatency, "invalid duration falls back to default")
	assert.True(t, cfg.DefaultAutoplay)
	assert.Equal(t, "low", cfg.DefaultQuality)
	assert.False(t, cfg.DefaultSubtitles)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	require.Len(t, cfg.Catalog, 1)
	assert.Equal(t, "Custom", cfg.Catalog[0].Title)
}

func TestManager_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewManager(path)

	require.Error(t, m.Update(map[string]interface{}{"latency.fetch": "1s"}), "update before load")

	_, err := m.Load()
	require.NoError(t, err)

	require.NoError(t, m.Update(map[string]interface{}{
		"latency.fetch":   "50ms",
		"media.backend":   "http",
		"logging.level":   "debug",
		"media.fail_play": true,
	}))
	assert.Equal(t, 50*time.Millisecond, m.Get().FetchLatency)

	cfg, err := NewManager(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.FetchLatency)
	assert.Equal(t, "http", cfg.MediaBackend)
	assert.True(t, cfg.MediaFailPlay)

	assert.Error(t, m.Update(map[string]interface{}{"nope": 1}))
}

func TestManager_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0644))

	_, err := NewManager(path).Load()
	assert.Error(t, err)
}
