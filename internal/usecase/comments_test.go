package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/internal/domain"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/repository/memory"
)

func newCommentService(t *testing.T, waiter latency.Waiter) *CommentService {
	t.Helper()
	s := NewCommentService(memory.NewCommentRepository(), newCatalog(t), waiter, nil)
	s.now = stepClock(time.Date(2024, time.March, 25, 9, 0, 0, 0, time.UTC))
	return s
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind domain.ValidationKind
		want string
	}{
		{name: "empty", in: "", kind: domain.ValidationEmpty},
		{name: "whitespace", in: "  \t\n ", kind: domain.ValidationEmpty},
		{name: "too short", in: "ab", kind: domain.ValidationTooShort},
		{name: "too short after trim", in: "  ab  ", kind: domain.ValidationTooShort},
		{name: "too long", in: strings.Repeat("a", 501), kind: domain.ValidationTooLong},
		{name: "minimum", in: "abc", want: "abc"},
		{name: "maximum", in: strings.Repeat("a", 500), want: strings.Repeat("a", 500)},
		{name: "multibyte", in: " 日本語 ", want: "日本語"},
		{name: "valid", in: "valid text", want: "valid text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateComment(tt.in)
			if tt.kind != "" {
				assert.True(t, domain.IsValidationKind(err, tt.kind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommentService_Post(t *testing.T) {
	s := newCommentService(t, latency.Instant{})
	ctx := context.Background()

	_, err := s.Post(ctx, "1", "   ")
	assert.True(t, domain.IsValidationKind(err, domain.ValidationEmpty))
	assert.Equal(t, "Comment cannot be empty", s.Form().Error)

	_, err = s.Post(ctx, "1", "ab")
	assert.True(t, domain.IsValidationKind(err, domain.ValidationTooShort))

	_, err = s.Post(ctx, "1", strings.Repeat("a", 501))
	assert.True(t, domain.IsValidationKind(err, domain.ValidationTooLong))

	before, err := s.List("1")
	require.NoError(t, err)

	c, err := s.Post(ctx, "1", "  valid text ")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "valid text", c.Text)
	assert.Zero(t, c.Likes)
	assert.Empty(t, c.Replies)
	assert.Empty(t, s.Form().Error, "a successful post clears the form error")

	after, err := s.List("1")
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	other, err := s.List("2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCommentService_PostUnknownVideo(t *testing.T) {
	s := newCommentService(t, latency.Instant{})
	_, err := s.Post(context.Background(), "404", "hello there")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestCommentService_PostSubmitting(t *testing.T) {
	gate := latency.NewGate()
	s := newCommentService(t, gate)

	done := make(chan error, 1)
	go func() {
		_, err := s.Post(context.Background(), "1", "first!")
		done <- err
	}()
	gate.AwaitArrivals(1)
	assert.True(t, s.Form().IsSubmitting)

	gate.Release(0, nil)
	require.NoError(t, <-done)
	assert.False(t, s.Form().IsSubmitting)
}

func TestCommentService_PostFailure(t *testing.T) {
	gate := latency.NewGate()
	s := newCommentService(t, gate)

	done := make(chan error, 1)
	go func() {
		_, err := s.Post(context.Background(), "1", "will fail")
		done <- err
	}()
	gate.AwaitArrivals(1)
	gate.Release(0, errors.New("backend unavailable"))

	err := <-done
	assert.ErrorIs(t, err, domain.ErrCommentPost)

	form := s.Form()
	assert.False(t, form.IsSubmitting)
	assert.Equal(t, "Failed to post comment. Please try again.", form.Error)

	comments, err := s.List("1")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentService_NewestFirst(t *testing.T) {
	s := newCommentService(t, latency.Instant{})
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Post(ctx, "1", text)
		require.NoError(t, err)
	}

	comments, err := s.List("1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "three", comments[0].Text)
	assert.Equal(t, "one", comments[2].Text)
}

func TestCommentService_TiesKeepInsertionOrder(t *testing.T) {
	s := newCommentService(t, latency.Instant{})
	fixed := time.Date(2024, time.March, 25, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	for _, text := range []string{"first", "second"} {
		_, err := s.Post(context.Background(), "1", text)
		require.NoError(t, err)
	}

	comments, err := s.List("1")
	require.NoError(t, err)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestCommentService_LikesAndReplies(t *testing.T) {
	s := newCommentService(t, latency.Instant{})
	c, err := s.Post(context.Background(), "1", "great video")
	require.NoError(t, err)

	require.NoError(t, s.Like(c.ID))
	require.NoError(t, s.Like(c.ID))
	assert.ErrorIs(t, s.Like("missing"), domain.ErrCommentNotFound)

	reply, err := s.Reply(c.ID, "  agreed  ")
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "agreed", reply.Text)

	blank, err := s.Reply(c.ID, "   ")
	require.NoError(t, err)
	assert.Nil(t, blank)

	_, err = s.Reply("missing", "hello")
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	require.NoError(t, s.LikeReply(reply.ID))
	assert.ErrorIs(t, s.LikeReply("missing"), domain.ErrReplyNotFound)

	comments, err := s.List("1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 2, comments[0].Likes)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, 1, comments[0].Replies[0].Likes)
}
