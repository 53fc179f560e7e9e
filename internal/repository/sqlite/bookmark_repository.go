package sqlite

import (
	"database/sql"
	"time"

	"tinyflix/internal/domain"
)

// BookmarkRepository is a SQLite implementation of domain.BookmarkRepository.
type BookmarkRepository struct {
	db *sql.DB
}

// NewBookmarkRepository creates a new BookmarkRepository backed by SQLite.
func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// List returns all bookmarks in insertion order.
func (r *BookmarkRepository) List() ([]domain.Bookmark, error) {
	rows, err := r.db.Query(`SELECT id, video_id, position, title, created_at
		FROM bookmarks ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.VideoID, &b.Timestamp, &b.Title, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// ExistsForVideo reports whether any bookmark references the video.
func (r *BookmarkRepository) ExistsForVideo(videoID string) (bool, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE video_id = ?`, videoID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save appends a bookmark.
func (r *BookmarkRepository) Save(bookmark *domain.Bookmark) error {
	if bookmark.ID == "" {
		bookmark.ID = generateID()
	}
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(`INSERT INTO bookmarks (id, video_id, position, title, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		bookmark.ID, bookmark.VideoID, bookmark.Timestamp, bookmark.Title, bookmark.CreatedAt.UTC())
	return err
}

// Delete removes exactly one bookmark.
func (r *BookmarkRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrBookmarkNotFound
	}
	return nil
}
