package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"tinyflix/internal/domain"
)

// CommentRepository is a SQLite implementation of domain.CommentRepository.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new CommentRepository backed by SQLite.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByVideo returns the video's comments, with replies, in insertion order.
func (r *CommentRepository) ListByVideo(videoID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(`SELECT id, video_id, body, likes, created_at
		FROM comments WHERE video_id = ? ORDER BY seq ASC`, videoID)
	if err != nil {
		return nil, err
	}

	var comments []domain.Comment
	index := make(map[string]int)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.VideoID, &c.Text, &c.Likes, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		index[c.ID] = len(comments)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(comments) == 0 {
		return nil, nil
	}

	replyRows, err := r.db.Query(`SELECT r.comment_id, r.id, r.body, r.likes, r.created_at
		FROM replies r JOIN comments c ON c.id = r.comment_id
		WHERE c.video_id = ? ORDER BY r.seq ASC`, videoID)
	if err != nil {
		return nil, err
	}
	defer replyRows.Close()

	for replyRows.Next() {
		var (
			commentID string
			reply     domain.Reply
		)
		if err := replyRows.Scan(&commentID, &reply.ID, &reply.Text, &reply.Likes, &reply.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[commentID]; ok {
			comments[i].Replies = append(comments[i].Replies, reply)
		}
	}
	return comments, replyRows.Err()
}

// Save appends a comment. Replies carried on the comment are ignored; use AddReply.
func (r *CommentRepository) Save(comment *domain.Comment) error {
	if comment.ID == "" {
		comment.ID = generateID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(`INSERT INTO comments (id, video_id, body, likes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.VideoID, comment.Text, comment.Likes, comment.CreatedAt.UTC())
	return err
}

// LikeComment increments a comment's likes.
func (r *CommentRepository) LikeComment(commentID string) error {
	return r.increment(`UPDATE comments SET likes = likes + 1 WHERE id = ?`, commentID, domain.ErrCommentNotFound)
}

// LikeReply increments a reply's likes.
func (r *CommentRepository) LikeReply(replyID string) error {
	return r.increment(`UPDATE replies SET likes = likes + 1 WHERE id = ?`, replyID, domain.ErrReplyNotFound)
}

// AddReply appends a reply to a comment.
func (r *CommentRepository) AddReply(commentID string, reply *domain.Reply) error {
	var exists int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE id = ?`, commentID).Scan(&exists); err != nil {
		return fmt.Errorf("lookup comment: %w", err)
	}
	if exists == 0 {
		return domain.ErrCommentNotFound
	}

	if reply.ID == "" {
		reply.ID = generateID()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(`INSERT INTO replies (id, comment_id, body, likes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		reply.ID, commentID, reply.Text, reply.Likes, reply.CreatedAt.UTC())
	return err
}

func (r *CommentRepository) increment(query, id string, notFound error) error {
	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
