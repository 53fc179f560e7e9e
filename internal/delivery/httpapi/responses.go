package httpapi

import (
	"time"

	"tinyflix/internal/domain"
	"tinyflix/internal/usecase"
)

type videoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     string    `json:"duration"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Tags         []string  `json:"tags"`
	ViewCount    int       `json:"view_count"`
	Rating       float64   `json:"rating"`
	PublishedAt  time.Time `json:"published_at"`
}

func toVideoResponse(video domain.Video) *videoResponse {
	return &videoResponse{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		Duration:     video.Duration,
		ThumbnailURL: video.ThumbnailURL,
		Tags:         video.Tags,
		ViewCount:    video.ViewCount,
		Rating:       video.Rating,
		PublishedAt:  video.PublishedAt,
	}
}

type cardResponse struct {
	videoResponse
	ViewsLabel string `json:"views_label"`
	Bookmarked bool   `json:"bookmarked"`
}

func toCardResponses(cards []usecase.VideoCard) []cardResponse {
	resp := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, cardResponse{
			videoResponse: *toVideoResponse(c.Video),
			ViewsLabel:    c.ViewsLabel,
			Bookmarked:    c.Bookmarked,
		})
	}
	return resp
}

type selectionResponse struct {
	Video     *videoResponse `json:"video"`
	IsLoading bool           `json:"is_loading"`
	Error     string         `json:"error,omitempty"`
}

func toSelectionResponse(state usecase.SelectionState) selectionResponse {
	resp := selectionResponse{IsLoading: state.IsLoading, Error: state.Error}
	if state.Video != nil {
		resp.Video = toVideoResponse(*state.Video)
	}
	return resp
}

type bookmarkResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	Timestamp float64   `json:"timestamp"`
	TimeLabel string    `json:"time_label"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookmarkResponse(b domain.Bookmark) *bookmarkResponse {
	return &bookmarkResponse{
		ID:        b.ID,
		VideoID:   b.VideoID,
		Timestamp: b.Timestamp,
		TimeLabel: domain.FormatTimestamp(b.Timestamp),
		Title:     b.Title,
		CreatedAt: b.CreatedAt,
	}
}

func toBookmarkItemResponses(items []usecase.BookmarkItem) []*bookmarkResponse {
	resp := make([]*bookmarkResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toBookmarkResponse(item.Bookmark))
	}
	return resp
}

type replyResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
}

func toReplyResponse(r domain.Reply) replyResponse {
	return replyResponse{ID: r.ID, Text: r.Text, CreatedAt: r.CreatedAt, Likes: r.Likes}
}

type commentResponse struct {
	ID        string          `json:"id"`
	VideoID   string          `json:"video_id"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"created_at"`
	Likes     int             `json:"likes"`
	Replies   []replyResponse `json:"replies"`
}

func toCommentResponse(c domain.Comment) *commentResponse {
	resp := &commentResponse{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Likes:     c.Likes,
		Replies:   make([]replyResponse, 0, len(c.Replies)),
	}
	for _, r := range c.Replies {
		resp.Replies = append(resp.Replies, toReplyResponse(r))
	}
	return resp
}

func toCommentResponses(comments []domain.Comment) []*commentResponse {
	resp := make([]*commentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentResponse(c))
	}
	return resp
}

type queryResponse struct {
	SearchText string `json:"search_text"`
	Filter     string `json:"filter"`
	Sort       string `json:"sort"`
}

type commentFormResponse struct {
	IsSubmitting bool   `json:"is_submitting"`
	Error        string `json:"error,omitempty"`
}

type stateResponse struct {
	Query       queryResponse        `json:"query"`
	Visible     []cardResponse       `json:"visible"`
	Selection   selectionResponse    `json:"selection"`
	Playback    domain.PlaybackState `json:"playback"`
	Bookmarks   []*bookmarkResponse  `json:"bookmarks"`
	Comments    []*commentResponse   `json:"comments"`
	CommentForm commentFormResponse  `json:"comment_form"`
	Preferences domain.Preferences   `json:"preferences"`
	Banner      string               `json:"banner,omitempty"`
}

func toStateResponse(vm usecase.ViewModel) *stateResponse {
	return &stateResponse{
		Query: queryResponse{
			SearchText: vm.Query.SearchText,
			Filter:     string(vm.Query.Filter),
			Sort:       string(vm.Query.Sort),
		},
		Visible:     toCardResponses(vm.Visible),
		Selection:   toSelectionResponse(vm.Selection),
		Playback:    vm.Playback,
		Bookmarks:   toBookmarkItemResponses(vm.Bookmarks),
		Comments:    toCommentResponses(vm.Comments),
		CommentForm: commentFormResponse{IsSubmitting: vm.CommentForm.IsSubmitting, Error: vm.CommentForm.Error},
		Preferences: vm.Preferences,
		Banner:      vm.Banner,
	}
}
