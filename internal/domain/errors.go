package domain

import "errors"

// User-facing failures. Each one is recovered by the component that raises
// it and surfaced as a message on the matching state slice.
var (
	// ErrVideoNotFound is returned when a selected id is absent from the catalog
	ErrVideoNotFound = errors.New("Video not found")

	// ErrPlaybackLoad is raised when the media source fails to load
	ErrPlaybackLoad = errors.New("Error loading video. Please try again later.")

	// ErrPlaybackStart is raised when a play attempt is rejected
	ErrPlaybackStart = errors.New("Failed to play video. Please check your internet connection.")

	// ErrDuplicateBookmark is raised when the video already has a bookmark
	ErrDuplicateBookmark = errors.New("Video already bookmarked")

	// ErrCommentPost is raised when the comment backend rejects a post
	ErrCommentPost = errors.New("Failed to post comment. Please try again.")

	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrReplyNotFound     = errors.New("reply not found")
	ErrNoMedia           = errors.New("no media loaded")
	ErrNotReady          = errors.New("media is not ready")
	ErrInvalidRate       = errors.New("unsupported playback rate")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrInvalidFilter     = errors.New("invalid filter mode")
	ErrInvalidSort       = errors.New("invalid sort mode")
)

// ValidationKind classifies a rejected comment or reply text.
type ValidationKind string

const (
	ValidationEmpty    ValidationKind = "empty"
	ValidationTooShort ValidationKind = "too_short"
	ValidationTooLong  ValidationKind = "too_long"
)

// ValidationError reports why comment text was rejected.
type ValidationError struct {
	Kind ValidationKind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ValidationEmpty:
		return "Comment cannot be empty"
	case ValidationTooShort:
		return "Comment must be at least 3 characters long"
	case ValidationTooLong:
		return "Comment must be less than 500 characters"
	}
	return "invalid comment"
}

// IsValidationKind reports whether err is a ValidationError of the given kind.
func IsValidationKind(err error, kind ValidationKind) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) && vErr.Kind == kind
}
