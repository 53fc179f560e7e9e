package memory

import (
	"fmt"
	"sync"

	"tinyflix/internal/domain"
)

// CatalogRepository is an in-memory, read-only implementation of CatalogRepository
type CatalogRepository struct {
	mu     sync.RWMutex
	videos []domain.Video
	byID   map[string]int
}

// NewCatalogRepository creates a catalog from seed records. IDs must be unique.
func NewCatalogRepository(seed []domain.Video) (*CatalogRepository, error) {
	r := &CatalogRepository{
		videos: make([]domain.Video, 0, len(seed)),
		byID:   make(map[string]int, len(seed)),
	}
	for _, video := range seed {
		if video.ID == "" {
			return nil, fmt.Errorf("catalog video %q has no id", video.Title)
		}
		if _, exists := r.byID[video.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id %s", video.ID)
		}
		r.byID[video.ID] = len(r.videos)
		r.videos = append(r.videos, video.Clone())
	}
	return r, nil
}

// List returns copies of all videos in catalog order
func (r *CatalogRepository) List() ([]domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Video, 0, len(r.videos))
	for _, video := range r.videos {
		out = append(out, video.Clone())
	}
	return out, nil
}

// GetByID returns a copy of the video, or nil if it does not exist
func (r *CatalogRepository) GetByID(id string) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[id]
	if !exists {
		return nil, nil
	}
	video := r.videos[idx].Clone()
	return &video, nil
}
