package memory

import (
	"sync"
	"time"

	"tinyflix/internal/domain"
)

// BookmarkRepository is an in-memory implementation of BookmarkRepository
type BookmarkRepository struct {
	mu        sync.RWMutex
	bookmarks []domain.Bookmark
	now       func() time.Time
}

// NewBookmarkRepository creates a new in-memory bookmark repository
func NewBookmarkRepository() *BookmarkRepository {
	return &BookmarkRepository{now: time.Now}
}

// List returns all bookmarks in insertion order
func (r *BookmarkRepository) List() ([]domain.Bookmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.Bookmark(nil), r.bookmarks...), nil
}

// ExistsForVideo reports whether any bookmark references videoID
func (r *BookmarkRepository) ExistsForVideo(videoID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookmarks {
		if b.VideoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

// Save appends a bookmark
func (r *BookmarkRepository) Save(bookmark *domain.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bookmark.ID == "" {
		bookmark.ID = generateID()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = r.now()
	}
	r.bookmarks = append(r.bookmarks, *bookmark)
	return nil
}

// Delete removes the bookmark with the given ID
func (r *BookmarkRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.bookmarks {
		if b.ID == id {
			r.bookmarks = append(r.bookmarks[:i:i], r.bookmarks[i+1:]...)
			return nil
		}
	}
	return domain.ErrBookmarkNotFound
}
