package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"tinyflix/internal/domain"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/logger"
)

const (
	minCommentLength = 3
	maxCommentLength = 500
)

// CommentForm is the state of the comment entry form.
type CommentForm struct {
	IsSubmitting bool
	Error        string
}

// CommentService posts, likes and replies to comments.
type CommentService struct {
	repo    domain.CommentRepository
	catalog domain.CatalogRepository
	waiter  latency.Waiter
	now     func() time.Time
	mu      sync.Locker

	form    CommentForm
	pending int
	notify  func()
}

// NewCommentService creates a comment service. Posts complete after
// waiter.Wait returns.
func NewCommentService(repo domain.CommentRepository, catalog domain.CatalogRepository, waiter latency.Waiter, mu sync.Locker) *CommentService {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if waiter == nil {
		waiter = latency.Instant{}
	}
	return &CommentService{
		repo:    repo,
		catalog: catalog,
		waiter:  waiter,
		now:     time.Now,
		mu:      mu,
		notify:  func() {},
	}
}

// ValidateComment trims text and checks its length in characters.
func ValidateComment(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		return "", &domain.ValidationError{Kind: domain.ValidationEmpty}
	case n < minCommentLength:
		return "", &domain.ValidationError{Kind: domain.ValidationTooShort}
	case n > maxCommentLength:
		return "", &domain.ValidationError{Kind: domain.ValidationTooLong}
	}
	return trimmed, nil
}

// Form returns the comment form state.
func (s *CommentService) Form() CommentForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// List returns a video's comments, newest first.
func (s *CommentService) List(videoID string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(videoID)
}

func (s *CommentService) listLocked(videoID string) ([]domain.Comment, error) {
	comments, err := s.repo.ListByVideo(videoID)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", videoID, err)
	}
	slices.SortStableFunc(comments, func(a, b domain.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return comments, nil
}

// Post validates text and, after the simulated backend delay, appends a new
// comment to the video. Failures are also recorded as the form error.
func (s *CommentService) Post(ctx context.Context, videoID, text string) (domain.Comment, error) {
	body, err := ValidateComment(text)
	if err == nil {
		err = s.checkVideo(videoID)
	}
	if err != nil {
		s.mu.Lock()
		s.form.Error = err.Error()
		s.mu.Unlock()
		s.notify()
		return domain.Comment{}, err
	}

	s.mu.Lock()
	s.pending++
	s.form.IsSubmitting = true
	s.form.Error = ""
	s.mu.Unlock()
	s.notify()

	waitErr := s.waiter.Wait(ctx)

	s.mu.Lock()
	comment, err := s.completeLocked(videoID, body, waitErr)
	s.mu.Unlock()
	s.notify()
	return comment, err
}

func (s *CommentService) checkVideo(videoID string) error {
	v, err := s.catalog.GetByID(videoID)
	if err != nil {
		return fmt.Errorf("look up video %s: %w", videoID, err)
	}
	if v == nil {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (s *CommentService) completeLocked(videoID, body string, waitErr error) (domain.Comment, error) {
	s.pending--
	s.form.IsSubmitting = s.pending > 0

	if waitErr != nil {
		s.form.Error = domain.ErrCommentPost.Error()
		logger.Warn().Err(waitErr).Str("video_id", videoID).Msg("comment post did not complete")
		return domain.Comment{}, fmt.Errorf("%w: %w", domain.ErrCommentPost, waitErr)
	}

	comment := domain.Comment{
		VideoID:   videoID,
		Text:      body,
		CreatedAt: s.now(),
		Replies:   []domain.Reply{},
	}
	if err := s.repo.Save(&comment); err != nil {
		s.form.Error = domain.ErrCommentPost.Error()
		logger.Error().Err(err).Str("video_id", videoID).Msg("failed to save comment")
		return domain.Comment{}, fmt.Errorf("%w: %w", domain.ErrCommentPost, err)
	}
	logger.Info().Str("comment_id", comment.ID).Str("video_id", videoID).Msg("comment posted")
	return comment, nil
}

// Like increments a comment's likes.
func (s *CommentService) Like(commentID string) error {
	return s.mutate(func() error { return s.repo.LikeComment(commentID) })
}

// LikeReply increments a reply's likes.
func (s *CommentService) LikeReply(replyID string) error {
	return s.mutate(func() error { return s.repo.LikeReply(replyID) })
}

// Reply appends a reply to a comment. Blank text is ignored.
func (s *CommentService) Reply(commentID, text string) (*domain.Reply, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, nil
	}
	reply := &domain.Reply{Text: body, CreatedAt: s.now()}
	if err := s.mutate(func() error { return s.repo.AddReply(commentID, reply) }); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *CommentService) mutate(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}
