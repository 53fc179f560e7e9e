package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/internal/domain"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/repository/memory"
)

var sessionNow = time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*Session, *fakeMedia) {
	t.Helper()
	m := &fakeMedia{}
	s, err := NewSession(Options{
		Catalog:       newCatalog(t),
		Bookmarks:     memory.NewBookmarkRepository(),
		Comments:      memory.NewCommentRepository(),
		Media:         m,
		FetchWaiter:   latency.Instant{},
		CommentWaiter: latency.Instant{},
		MediaBaseURL:  "https://media.test/",
		Now:           func() time.Time { return sessionNow },
	})
	require.NoError(t, err)
	return s, m
}

func TestNewSession_RequiresRepositories(t *testing.T) {
	_, err := NewSession(Options{})
	assert.Error(t, err)
}

func TestSession_Defaults(t *testing.T) {
	s, _ := newTestSession(t)

	vm, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultQueryState(), vm.Query)
	assert.Equal(t, domain.DefaultPreferences(), vm.Preferences)
	assert.Equal(t, domain.PhaseIdle, vm.Playback.Phase)
	assert.Nil(t, vm.Selection.Video)
	require.Len(t, vm.Visible, 3)
	assert.Equal(t, "Advanced React", vm.Visible[0].Video.Title)
	assert.Equal(t, "2.3K views", vm.Visible[0].ViewsLabel)
}

func TestSession_Query(t *testing.T) {
	s, _ := newTestSession(t)

	// 2024-04-01: videos published on 2024-03-15 and 2024-03-20 are recent.
	require.NoError(t, s.SetFilter("recent"))
	visible, err := s.Visible()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, ids(visible))

	require.NoError(t, s.SetFilter("popular"))
	visible, err = s.Visible()
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(visible))

	require.NoError(t, s.SetFilter("all"))
	require.NoError(t, s.SetSort("rating"))
	s.SetSearch("testing")
	visible, err = s.Visible()
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(visible))

	assert.ErrorIs(t, s.SetFilter("weekly"), domain.ErrInvalidFilter)
	assert.ErrorIs(t, s.SetSort("views"), domain.ErrInvalidSort)
	assert.Equal(t, domain.SortRating, s.Query().Sort)
}

func TestSession_SelectionResetsPlayback(t *testing.T) {
	s, m := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.SelectVideo(ctx, "1"))
	pb := s.Player.State()
	assert.Equal(t, domain.PhaseMetadataPending, pb.Phase)
	assert.Equal(t, "https://media.test/1.mp4", pb.Source)

	s.MetadataLoaded("1", 630)
	require.NoError(t, s.Play(ctx))
	s.TimeUpdate("1", 120)
	require.Equal(t, 120.0, s.Player.State().CurrentTime)

	require.NoError(t, s.SelectVideo(ctx, "2"))
	pb = s.Player.State()
	assert.Equal(t, "2", pb.VideoID)
	assert.Equal(t, domain.PhaseMetadataPending, pb.Phase)
	assert.Zero(t, pb.CurrentTime)
	assert.Zero(t, pb.Duration)
	assert.False(t, pb.IsPlaying)
	assert.Len(t, m.loads, 2)

	// A failed selection keeps the current video and its playback.
	s.MetadataLoaded("2", 945)
	require.Error(t, s.SelectVideo(ctx, "404"))
	vm, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "Video not found", vm.Selection.Error)
	assert.False(t, vm.Selection.IsLoading)
	assert.Equal(t, domain.PhaseReady, vm.Playback.Phase)
	assert.Len(t, m.loads, 2)
}

func TestSession_Bookmarks(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.AddBookmark()
	assert.ErrorIs(t, err, domain.ErrNoMedia)

	require.NoError(t, s.SelectVideo(ctx, "1"))
	s.MetadataLoaded("1", 630)
	require.NoError(t, s.Seek(75))

	b, err := s.AddBookmark()
	require.NoError(t, err)
	assert.Equal(t, "React Basics at 1:15", b.Title)

	// The card path rejects a video that already has any bookmark.
	_, err = s.BookmarkVideo("1")
	assert.ErrorIs(t, err, domain.ErrDuplicateBookmark)

	vm, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "Video already bookmarked", vm.Banner)
	require.Len(t, vm.Bookmarks, 1)
	assert.Equal(t, "1:15", vm.Bookmarks[0].TimeLabel)

	card, err := s.BookmarkVideo("2")
	require.NoError(t, err)
	_, err = s.BookmarkVideo("404")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)

	vm, err = s.View()
	require.NoError(t, err)
	assert.Empty(t, vm.Banner)
	assert.Len(t, vm.Bookmarks, 2)

	require.NoError(t, s.DeleteBookmark(card.ID))
	vm, err = s.View()
	require.NoError(t, err)
	require.Len(t, vm.Bookmarks, 1)
	assert.Equal(t, b.ID, vm.Bookmarks[0].Bookmark.ID)

	s.DismissBanner()
	vm, err = s.View()
	require.NoError(t, err)
	assert.Empty(t, vm.Banner)
}

func TestSession_CommentsForSelection(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.PostComment(ctx, "1", "nice intro")
	require.NoError(t, err)
	_, err = s.PostComment(ctx, "2", "too advanced")
	require.NoError(t, err)

	vm, err := s.View()
	require.NoError(t, err)
	assert.Empty(t, vm.Comments, "no selection, no comments")

	require.NoError(t, s.SelectVideo(ctx, "1"))
	vm, err = s.View()
	require.NoError(t, err)
	require.Len(t, vm.Comments, 1)
	assert.Equal(t, "nice intro", vm.Comments[0].Text)

	_, err = s.PostComment(ctx, "1", "x")
	assert.Error(t, err)
	vm, err = s.View()
	require.NoError(t, err)
	assert.Equal(t, "Comment must be at least 3 characters long", vm.CommentForm.Error)
}

func TestSession_AutoplayPreference(t *testing.T) {
	s, m := newTestSession(t)

	_, err := s.SetPreference(domain.PreferenceAutoplay, true)
	require.NoError(t, err)

	require.NoError(t, s.SelectVideo(context.Background(), "3"))
	s.MetadataLoaded("3", 740)

	assert.Equal(t, domain.PhasePlaying, s.Player.State().Phase)
	assert.Equal(t, 1, m.plays)
}

func TestSession_Subscribe(t *testing.T) {
	s, _ := newTestSession(t)

	var (
		mu    sync.Mutex
		views []ViewModel
	)
	cancel := s.Subscribe(func(vm ViewModel) {
		mu.Lock()
		defer mu.Unlock()
		views = append(views, vm)
	})

	s.SetSearch("react")
	s.ToggleMute()

	mu.Lock()
	require.Len(t, views, 2)
	assert.Equal(t, "react", views[0].Query.SearchText)
	assert.False(t, views[0].Playback.IsMuted)
	assert.True(t, views[1].Playback.IsMuted)
	mu.Unlock()

	cancel()
	s.RefreshView()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, views, 2)
}
