package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { config.SetManager(nil) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	path := writeConfig(t, "logging:\n  dir: "+t.TempDir()+"\n")

	out, err := runCLI(t, "catalog", "--config", path, "--sort", "rating")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Advanced React")
	assert.Contains(t, lines[1], "2.3K views")
	assert.Contains(t, lines[3], "Intro to Testing")
}

func TestCatalogCommand_SearchAndFilter(t *testing.T) {
	path := writeConfig(t, `catalog:
  - id: a
    title: Go Concurrency
    duration: "8:00"
    tags: [go]
    view_count: 5000
    rating: 4.9
    published_at: "2024-01-10"
  - id: b
    title: Go Generics
    duration: "6:30"
    tags: [go]
    view_count: 900
    rating: 4.1
    published_at: "2024-02-01"
`)

	out, err := runCLI(t, "catalog", "--config", path, "--search", "GO", "--filter", "popular")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Concurrency")
	assert.NotContains(t, out, "Go Generics")
}

func TestCatalogCommand_InvalidSort(t *testing.T) {
	path := writeConfig(t, "")
	_, err := runCLI(t, "catalog", "--config", path, "--sort", "views")
	assert.Error(t, err)
}

func TestNewApp_Backends(t *testing.T) {
	cfg := &config.Config{
		StorageBackend: "sqlite",
		MediaBackend:   "simulated",
		DefaultQuality: "medium",
	}
	a, err := newApp(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "medium", string(a.session.Preferences.Get().Quality))

	_, err = newApp(&config.Config{StorageBackend: "postgres", MediaBackend: "simulated", DefaultQuality: "high"})
	assert.Error(t, err)

	_, err = newApp(&config.Config{StorageBackend: "memory", MediaBackend: "vlc", DefaultQuality: "high"})
	assert.Error(t, err)
}
