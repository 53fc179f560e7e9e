package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tinyflix/internal/domain"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/infrastructure/media"
	"tinyflix/internal/logger"
)

// Options wires a Session.
type Options struct {
	Catalog   domain.CatalogRepository
	Bookmarks domain.BookmarkRepository
	Comments  domain.CommentRepository
	Media     domain.MediaElement

	// FetchWaiter delays video selection; CommentWaiter delays comment posts
	FetchWaiter   latency.Waiter
	CommentWaiter latency.Waiter

	Preferences  domain.Preferences
	MediaBaseURL string

	// Now defaults to time.Now
	Now func() time.Time
}

// VideoCard is a visible catalog entry with display labels.
type VideoCard struct {
	Video      domain.Video
	ViewsLabel string
	Bookmarked bool
}

// BookmarkItem is a bookmark with its m:ss label.
type BookmarkItem struct {
	Bookmark  domain.Bookmark
	TimeLabel string
}

// ViewModel is an immutable snapshot of the application state.
type ViewModel struct {
	Query       domain.QueryState
	Visible     []VideoCard
	Selection   SelectionState
	Playback    domain.PlaybackState
	Bookmarks   []BookmarkItem
	Comments    []domain.Comment
	CommentForm CommentForm
	Preferences domain.Preferences

	// Banner is the global error message, e.g. a duplicate bookmark
	Banner string
}

// Session owns the application state. Every component operates on its own
// slice under one lock, and each change publishes a fresh ViewModel to
// subscribers.
type Session struct {
	mu      sync.Mutex
	catalog domain.CatalogRepository
	now     func() time.Time

	query  domain.QueryState
	banner string

	Selection   *SelectionController
	Player      *Player
	Bookmarks   *BookmarkService
	Comments    *CommentService
	Preferences *PreferenceService

	pubMu       sync.Mutex
	subscribers map[int]func(ViewModel)
	nextSub     int
}

// NewSession composes the components over the given repositories.
func NewSession(opts Options) (*Session, error) {
	if opts.Catalog == nil || opts.Bookmarks == nil || opts.Comments == nil {
		return nil, errors.New("session requires catalog, bookmark and comment repositories")
	}
	if opts.Media == nil {
		opts.Media = media.NewSimulated(latency.Instant{}, false)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Preferences == (domain.Preferences{}) {
		opts.Preferences = domain.DefaultPreferences()
	}

	s := &Session{
		catalog:     opts.Catalog,
		now:         opts.Now,
		query:       domain.DefaultQueryState(),
		subscribers: make(map[int]func(ViewModel)),
	}

	base := opts.MediaBaseURL
	s.Selection = NewSelectionController(opts.Catalog, opts.FetchWaiter, &s.mu)
	s.Player = NewPlayer(opts.Media, func(id string) string { return media.SourceURL(base, id) }, &s.mu)
	s.Bookmarks = NewBookmarkService(opts.Bookmarks, &s.mu)
	s.Comments = NewCommentService(opts.Comments, opts.Catalog, opts.CommentWaiter, &s.mu)
	s.Comments.now = opts.Now
	s.Preferences = NewPreferenceService(opts.Preferences, &s.mu)

	s.Selection.onSelect = s.Player.loadLocked
	s.Player.autoplay = func() bool { return s.Preferences.getLocked().Autoplay }

	s.Selection.notify = s.publish
	s.Player.notify = s.publish
	s.Bookmarks.notify = s.publish
	s.Comments.notify = s.publish
	s.Preferences.notify = s.publish

	return s, nil
}

// Subscribe registers fn to receive every published ViewModel. fn runs
// synchronously and must not issue intents. The returned function removes
// the subscription.
func (s *Session) Subscribe(fn func(ViewModel)) (cancel func()) {
	s.pubMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.pubMu.Unlock()

	return func() {
		s.pubMu.Lock()
		delete(s.subscribers, id)
		s.pubMu.Unlock()
	}
}

func (s *Session) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if len(s.subscribers) == 0 {
		return
	}
	vm, err := s.View()
	if err != nil {
		logger.Error().Err(err).Msg("failed to build view model")
		return
	}
	for _, fn := range s.subscribers {
		fn(vm)
	}
}

// View builds a snapshot of the current state.
func (s *Session) View() (ViewModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	videos, err := s.catalog.List()
	if err != nil {
		return ViewModel{}, fmt.Errorf("list catalog: %w", err)
	}
	bookmarks, err := s.Bookmarks.repo.List()
	if err != nil {
		return ViewModel{}, fmt.Errorf("list bookmarks: %w", err)
	}

	bookmarked := make(map[string]bool, len(bookmarks))
	items := make([]BookmarkItem, 0, len(bookmarks))
	for _, b := range bookmarks {
		bookmarked[b.VideoID] = true
		items = append(items, BookmarkItem{Bookmark: b, TimeLabel: domain.FormatTimestamp(b.Timestamp)})
	}

	visible := ComputeVisible(videos, s.query, s.now())
	cards := make([]VideoCard, 0, len(visible))
	for _, v := range visible {
		cards = append(cards, VideoCard{
			Video:      v,
			ViewsLabel: domain.FormatViewCount(v.ViewCount),
			Bookmarked: bookmarked[v.ID],
		})
	}

	vm := ViewModel{
		Query:       s.query,
		Visible:     cards,
		Selection:   s.Selection.stateLocked(),
		Playback:    s.Player.state,
		Bookmarks:   items,
		CommentForm: s.Comments.form,
		Preferences: s.Preferences.getLocked(),
		Banner:      s.banner,
	}
	if vm.Selection.Video != nil {
		if vm.Comments, err = s.Comments.listLocked(vm.Selection.Video.ID); err != nil {
			return ViewModel{}, err
		}
	}
	return vm, nil
}

// Query returns the current search, filter and sort.
func (s *Session) Query() domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Visible returns the filtered and ordered catalog.
func (s *Session) Visible() ([]domain.Video, error) {
	s.mu.Lock()
	q := s.query
	s.mu.Unlock()

	videos, err := s.catalog.List()
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return ComputeVisible(videos, q, s.now()), nil
}

// SetSearch replaces the search text.
func (s *Session) SetSearch(text string) {
	s.updateQuery(func(q *domain.QueryState) { q.SearchText = text })
}

// SetFilter replaces the filter mode.
func (s *Session) SetFilter(mode string) error {
	f, err := domain.ParseFilterMode(mode)
	if err != nil {
		return err
	}
	s.updateQuery(func(q *domain.QueryState) { q.Filter = f })
	return nil
}

// SetSort replaces the sort mode.
func (s *Session) SetSort(mode string) error {
	m, err := domain.ParseSortMode(mode)
	if err != nil {
		return err
	}
	s.updateQuery(func(q *domain.QueryState) { q.Sort = m })
	return nil
}

func (s *Session) updateQuery(fn func(q *domain.QueryState)) {
	s.mu.Lock()
	fn(&s.query)
	s.mu.Unlock()
	s.publish()
}

// RefreshView republishes the view so time-dependent filters roll over.
func (s *Session) RefreshView() {
	s.publish()
}

// SelectVideo fetches a video and, when its identity changes, loads it into
// the player.
func (s *Session) SelectVideo(ctx context.Context, id string) error {
	return s.Selection.Select(ctx, id)
}

// Play starts playback of the loaded video.
func (s *Session) Play(ctx context.Context) error {
	return s.Player.Play(ctx)
}

// Pause stops playback.
func (s *Session) Pause() {
	s.Player.Pause()
}

// Seek moves the playback position.
func (s *Session) Seek(t float64) error {
	return s.Player.Seek(t)
}

// SetVolume sets the volume.
func (s *Session) SetVolume(v float64) {
	s.Player.SetVolume(v)
}

// ToggleMute flips the mute flag.
func (s *Session) ToggleMute() {
	s.Player.ToggleMute()
}

// SetRate sets the playback rate.
func (s *Session) SetRate(r float64) error {
	return s.Player.SetRate(r)
}

// MetadataLoaded reports that the media element knows the duration.
func (s *Session) MetadataLoaded(videoID string, duration float64) {
	s.Player.MetadataLoaded(videoID, duration)
}

// TimeUpdate reports the media element position.
func (s *Session) TimeUpdate(videoID string, t float64) {
	s.Player.TimeUpdate(videoID, t)
}

// LoadFailed reports a media load error.
func (s *Session) LoadFailed(videoID string, err error) {
	s.Player.LoadFailed(videoID, err)
}

// Advance ticks the media clock.
func (s *Session) Advance(elapsed time.Duration) {
	s.Player.Advance(elapsed)
}

// AddBookmark bookmarks the loaded video at the current position.
func (s *Session) AddBookmark() (domain.Bookmark, error) {
	s.mu.Lock()
	b, err := s.Player.bookmarkLocked()
	if err == nil {
		b, err = s.Bookmarks.addLocked(b)
	}
	s.mu.Unlock()
	if err != nil {
		return domain.Bookmark{}, err
	}
	s.publish()
	return b, nil
}

// BookmarkVideo bookmarks a catalog video as a whole. A duplicate is
// reported on the banner.
func (s *Session) BookmarkVideo(videoID string) (domain.Bookmark, error) {
	video, err := s.catalog.GetByID(videoID)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("look up video %s: %w", videoID, err)
	}
	if video == nil {
		return domain.Bookmark{}, domain.ErrVideoNotFound
	}

	s.mu.Lock()
	b, err := s.Bookmarks.bookmarkVideoLocked(*video)
	if errors.Is(err, domain.ErrDuplicateBookmark) {
		s.banner = err.Error()
	} else if err == nil {
		s.banner = ""
	}
	s.mu.Unlock()
	s.publish()
	return b, err
}

// DismissBanner clears the global error message.
func (s *Session) DismissBanner() {
	s.mu.Lock()
	s.banner = ""
	s.mu.Unlock()
	s.publish()
}

// DeleteBookmark removes one bookmark.
func (s *Session) DeleteBookmark(id string) error {
	return s.Bookmarks.Delete(id)
}

// PostComment posts to the given video.
func (s *Session) PostComment(ctx context.Context, videoID, text string) (domain.Comment, error) {
	return s.Comments.Post(ctx, videoID, text)
}

// LikeComment adds a like to a comment.
func (s *Session) LikeComment(id string) error {
	return s.Comments.Like(id)
}

// LikeReply adds a like to a reply.
func (s *Session) LikeReply(id string) error {
	return s.Comments.LikeReply(id)
}

// Reply answers a comment.
func (s *Session) Reply(commentID, text string) (*domain.Reply, error) {
	return s.Comments.Reply(commentID, text)
}

// SetPreference validates and stores one preference.
func (s *Session) SetPreference(key string, value any) (domain.Preferences, error) {
	return s.Preferences.Set(key, value)
}
