package usecase

import (
	"fmt"
	"sync"

	"tinyflix/internal/domain"
	"tinyflix/internal/logger"
)

// BookmarkService manages the session's bookmark list.
type BookmarkService struct {
	repo   domain.BookmarkRepository
	mu     sync.Locker
	notify func()
}

// NewBookmarkService creates a bookmark service. A nil locker gives the
// service its own mutex.
func NewBookmarkService(repo domain.BookmarkRepository, mu sync.Locker) *BookmarkService {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &BookmarkService{repo: repo, mu: mu, notify: func() {}}
}

// List returns bookmarks in insertion order.
func (s *BookmarkService) List() ([]domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.List()
}

// Add appends a bookmark. Duplicates are permitted.
func (s *BookmarkService) Add(videoID string, timestamp float64, title string) (domain.Bookmark, error) {
	s.mu.Lock()
	b, err := s.addLocked(domain.Bookmark{VideoID: videoID, Timestamp: timestamp, Title: title})
	s.mu.Unlock()
	if err != nil {
		return domain.Bookmark{}, err
	}
	s.notify()
	return b, nil
}

func (s *BookmarkService) addLocked(b domain.Bookmark) (domain.Bookmark, error) {
	if err := s.repo.Save(&b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("save bookmark: %w", err)
	}
	logger.Debug().Str("bookmark_id", b.ID).Str("video_id", b.VideoID).Float64("timestamp", b.Timestamp).Msg("bookmark added")
	return b, nil
}

// BookmarkVideo bookmarks a whole video at its start. It fails with
// ErrDuplicateBookmark if any bookmark already references the video.
func (s *BookmarkService) BookmarkVideo(video domain.Video) (domain.Bookmark, error) {
	s.mu.Lock()
	b, err := s.bookmarkVideoLocked(video)
	s.mu.Unlock()
	if err != nil {
		return domain.Bookmark{}, err
	}
	s.notify()
	return b, nil
}

func (s *BookmarkService) bookmarkVideoLocked(video domain.Video) (domain.Bookmark, error) {
	exists, err := s.repo.ExistsForVideo(video.ID)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("check bookmarks for %s: %w", video.ID, err)
	}
	if exists {
		return domain.Bookmark{}, domain.ErrDuplicateBookmark
	}
	return s.addLocked(domain.Bookmark{VideoID: video.ID, Title: video.Title})
}

// Delete removes exactly one bookmark by id.
func (s *BookmarkService) Delete(id string) error {
	s.mu.Lock()
	err := s.repo.Delete(id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}
