package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/config"
)

func TestSeed(t *testing.T) {
	videos := Seed()
	require.Len(t, videos, 3)
	assert.Equal(t, "Intro to Testing", videos[2].Title)
	assert.Equal(t, 1800, videos[2].ViewCount)

	// Each call hands out independent slices.
	videos[0].Tags[0] = "changed"
	assert.Equal(t, "react", Seed()[0].Tags[0])
}

func TestFromConfig(t *testing.T) {
	videos, err := FromConfig(nil)
	require.NoError(t, err)
	assert.Len(t, videos, 3)

	videos, err = FromConfig([]config.CatalogEntry{{
		ID:          "9",
		Title:       "Go Generics",
		Duration:    "8:00",
		Tags:        []string{"go"},
		ViewCount:   10,
		Rating:      4,
		PublishedAt: "2026-10-01",
	}})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, 2026, videos[0].PublishedAt.Year())

	_, err = FromConfig([]config.CatalogEntry{{ID: "1", PublishedAt: "yesterday"}})
	assert.Error(t, err)

	_, err = FromConfig([]config.CatalogEntry{{ID: "1", PublishedAt: "2026-01-01", Rating: 6}})
	assert.Error(t, err)
}
