package catalog

import (
	"fmt"
	"time"

	"tinyflix/config"
	"tinyflix/internal/domain"
)

// FromConfig converts configured catalog entries into videos. It returns the
// compiled-in seed when entries is empty.
func FromConfig(entries []config.CatalogEntry) ([]domain.Video, error) {
	if len(entries) == 0 {
		return Seed(), nil
	}

	videos := make([]domain.Video, 0, len(entries))
	for _, e := range entries {
		published, err := time.Parse(time.DateOnly, e.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %s: published_at: %w", e.ID, err)
		}
		if e.ViewCount < 0 {
			return nil, fmt.Errorf("catalog entry %s: negative view_count", e.ID)
		}
		if e.Rating < 0 || e.Rating > 5 {
			return nil, fmt.Errorf("catalog entry %s: rating %.1f out of range", e.ID, e.Rating)
		}
		videos = append(videos, domain.Video{
			ID:           e.ID,
			Title:        e.Title,
			Description:  e.Description,
			Duration:     e.Duration,
			ThumbnailURL: e.Thumbnail,
			Tags:         append([]string(nil), e.Tags...),
			ViewCount:    e.ViewCount,
			Rating:       e.Rating,
			PublishedAt:  published,
		})
	}
	return videos, nil
}
