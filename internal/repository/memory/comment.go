package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tinyflix/internal/domain"
)

// CommentRepository is an in-memory implementation of CommentRepository.
// Comments for every video live in one list; reads filter by video.
type CommentRepository struct {
	mu       sync.RWMutex
	comments []*domain.Comment
	now      func() time.Time
}

// NewCommentRepository creates a new in-memory comment repository
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{now: time.Now}
}

// ListByVideo returns copies of the video's comments in insertion order
func (r *CommentRepository) ListByVideo(videoID string) ([]domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// Save appends a comment
func (r *CommentRepository) Save(comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = generateID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = r.now()
	}
	stored := comment.Clone()
	r.comments = append(r.comments, &stored)
	return nil
}

// LikeComment increments the likes of a comment
func (r *CommentRepository) LikeComment(commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.find(commentID)
	if c == nil {
		return domain.ErrCommentNotFound
	}
	c.Likes++
	return nil
}

// AddReply appends a reply to a comment
func (r *CommentRepository) AddReply(commentID string, reply *domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.find(commentID)
	if c == nil {
		return domain.ErrCommentNotFound
	}
	if reply.ID == "" {
		reply.ID = generateID()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = r.now()
	}
	c.Replies = append(c.Replies, *reply)
	return nil
}

// LikeReply increments the likes of a reply
func (r *CommentRepository) LikeReply(replyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.comments {
		for i := range c.Replies {
			if c.Replies[i].ID == replyID {
				c.Replies[i].Likes++
				return nil
			}
		}
	}
	return domain.ErrReplyNotFound
}

func (r *CommentRepository) find(id string) *domain.Comment {
	for _, c := range r.comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// generateID returns a time-ordered UUID
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
