package domain

import "time"

// Bookmark marks a position in a video. Duplicates are allowed.
type Bookmark struct {
	// ID identifies the bookmark for deletion
	ID string

	// VideoID references Video.ID
	VideoID string

	// Timestamp is the bookmarked position in seconds
	Timestamp float64

	// Title is the display label
	Title string

	// CreatedAt is when the bookmark was added
	CreatedAt time.Time
}

// Comment is a top-level comment on a video.
type Comment struct {
	// ID is unique and ordered by creation time
	ID string

	// VideoID references Video.ID
	VideoID string

	// Text is the trimmed, validated comment body
	Text string

	// CreatedAt is when the comment was posted
	CreatedAt time.Time

	// Likes only ever increases
	Likes int

	// Replies are kept in the order they were added
	Replies []Reply
}

// Clone returns a deep copy of c.
func (c Comment) Clone() Comment {
	out := c
	if c.Replies != nil {
		out.Replies = append([]Reply(nil), c.Replies...)
	}
	return out
}

// Reply is owned by its parent comment.
type Reply struct {
	ID        string
	Text      string
	CreatedAt time.Time
	Likes     int
}

// BookmarkRepository defines bookmark storage operations
type BookmarkRepository interface {
	// List returns all bookmarks in insertion order
	List() ([]Bookmark, error)

	// ExistsForVideo reports whether any bookmark references the video
	ExistsForVideo(videoID string) (bool, error)

	// Save appends a bookmark, assigning ID and CreatedAt when empty
	Save(bookmark *Bookmark) error

	// Delete removes exactly one bookmark, or returns ErrBookmarkNotFound
	Delete(id string) error
}

// CommentRepository defines comment storage operations
type CommentRepository interface {
	// ListByVideo returns the video's comments in insertion order
	ListByVideo(videoID string) ([]Comment, error)

	// Save appends a comment, assigning ID and CreatedAt when empty
	Save(comment *Comment) error

	// LikeComment increments a comment's likes, or returns ErrCommentNotFound
	LikeComment(commentID string) error

	// AddReply appends a reply to a comment, or returns ErrCommentNotFound
	AddReply(commentID string, reply *Reply) error

	// LikeReply increments a reply's likes, or returns ErrReplyNotFound
	LikeReply(replyID string) error
}
