package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tinyflix/config"
	"tinyflix/internal/domain"
	"tinyflix/internal/logger"
	"tinyflix/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the session as JSON intents and view-model snapshots for a
// browser presentation layer.
type Server struct {
	cfg     *config.Config
	session *usecase.Session
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Config, session *usecase.Session) *Server {
	s := &Server{
		cfg:     cfg,
		session: session,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/banner", s.handleDismissBanner).Methods(http.MethodDelete)

	api.HandleFunc("/videos", s.handleVideos).Methods(http.MethodGet)
	api.HandleFunc("/query", s.handleQuery).Methods(http.MethodPut)
	api.HandleFunc("/videos/{id}/select", s.handleSelect).Methods(http.MethodPost)
	api.HandleFunc("/videos/{id}/bookmark", s.handleBookmarkVideo).Methods(http.MethodPost)
	api.HandleFunc("/videos/{id}/comments", s.handleListComments).Methods(http.MethodGet)
	api.HandleFunc("/videos/{id}/comments", s.handlePostComment).Methods(http.MethodPost)

	api.HandleFunc("/comments/{id}/like", s.handleLikeComment).Methods(http.MethodPost)
	api.HandleFunc("/comments/{id}/replies", s.handleReply).Methods(http.MethodPost)
	api.HandleFunc("/replies/{id}/like", s.handleLikeReply).Methods(http.MethodPost)

	api.HandleFunc("/bookmarks", s.handleListBookmarks).Methods(http.MethodGet)
	api.HandleFunc("/bookmarks/{id}", s.handleDeleteBookmark).Methods(http.MethodDelete)

	api.HandleFunc("/player", s.handlePlayback).Methods(http.MethodGet)
	player := api.PathPrefix("/player").Subrouter()
	player.HandleFunc("/play", s.handlePlay).Methods(http.MethodPost)
	player.HandleFunc("/pause", s.handlePause).Methods(http.MethodPost)
	player.HandleFunc("/mute", s.handleToggleMute).Methods(http.MethodPost)
	player.HandleFunc("/bookmark", s.handleAddBookmark).Methods(http.MethodPost)
	player.HandleFunc("/seek", s.handleSeek).Methods(http.MethodPut)
	player.HandleFunc("/volume", s.handleVolume).Methods(http.MethodPut)
	player.HandleFunc("/rate", s.handleRate).Methods(http.MethodPut)
	player.HandleFunc("/events/metadata", s.handleMetadataEvent).Methods(http.MethodPost)
	player.HandleFunc("/events/timeupdate", s.handleTimeUpdateEvent).Methods(http.MethodPost)
	player.HandleFunc("/events/error", s.handleErrorEvent).Methods(http.MethodPost)

	api.HandleFunc("/preferences", s.handleGetPreferences).Methods(http.MethodGet)
	api.HandleFunc("/preferences", s.handlePatchPreferences).Methods(http.MethodPatch)

	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	s.handler = cors(loggingMiddleware(r))

	s.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP requests until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.ServerPort == "" {
		return fmt.Errorf("server port is not configured")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.server.Addr).Msg("HTTP API server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	logger.Info().Msg("Shutting down HTTP API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, http.StatusOK)
}

func (s *Server) handleDismissBanner(w http.ResponseWriter, r *http.Request) {
	s.session.DismissBanner()
	s.respondState(w, http.StatusOK)
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	vm, err := s.session.View()
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCardResponses(vm.Visible))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SearchText *string `json:"search_text"`
		Filter     *string `json:"filter"`
		Sort       *string `json:"sort"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate both modes before applying anything.
	if payload.Filter != nil {
		if _, err := domain.ParseFilterMode(*payload.Filter); err != nil {
			respondErr(w, err)
			return
		}
	}
	if payload.Sort != nil {
		if _, err := domain.ParseSortMode(*payload.Sort); err != nil {
			respondErr(w, err)
			return
		}
	}

	if payload.SearchText != nil {
		s.session.SetSearch(*payload.SearchText)
	}
	if payload.Filter != nil {
		_ = s.session.SetFilter(*payload.Filter)
	}
	if payload.Sort != nil {
		_ = s.session.SetSort(*payload.Sort)
	}
	s.handleVideos(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.session.SelectVideo(r.Context(), id); err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() == nil {
			respondError(w, http.StatusConflict, "selection superseded by a newer request")
			return
		}
		respondErr(w, err)
		return
	}
	s.respondState(w, http.StatusOK)
}

func (s *Server) handleBookmarkVideo(w http.ResponseWriter, r *http.Request) {
	b, err := s.session.BookmarkVideo(mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.session.Comments.List(mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCommentResponses(comments))
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := s.session.PostComment(r.Context(), mux.Vars(r)["id"], payload.Text)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (s *Server) handleLikeComment(w http.ResponseWriter, r *http.Request) {
	if err := s.session.LikeComment(mux.Vars(r)["id"]); err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.session.Reply(mux.Vars(r)["id"], payload.Text)
	if err != nil {
		respondErr(w, err)
		return
	}
	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusCreated, toReplyResponse(*reply))
}

func (s *Server) handleLikeReply(w http.ResponseWriter, r *http.Request) {
	if err := s.session.LikeReply(mux.Vars(r)["id"]); err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	vm, err := s.session.View()
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookmarkItemResponses(vm.Bookmarks))
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteBookmark(mux.Vars(r)["id"]); err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.session.Player.State())
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Play(r.Context()); err != nil {
		respondErr(w, err)
		return
	}
	s.handlePlayback(w, r)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.session.Pause()
	s.handlePlayback(w, r)
}

func (s *Server) handleToggleMute(w http.ResponseWriter, r *http.Request) {
	s.session.ToggleMute()
	s.handlePlayback(w, r)
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	b, err := s.session.AddBookmark()
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Time *float64 `json:"time"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.Time == nil {
		respondError(w, http.StatusBadRequest, "time is required")
		return
	}
	if err := s.session.Seek(*payload.Time); err != nil {
		respondErr(w, err)
		return
	}
	s.handlePlayback(w, r)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Volume *float64 `json:"volume"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.Volume == nil {
		respondError(w, http.StatusBadRequest, "volume is required")
		return
	}
	s.session.SetVolume(*payload.Volume)
	s.handlePlayback(w, r)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Rate *float64 `json:"rate"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.Rate == nil {
		respondError(w, http.StatusBadRequest, "rate is required")
		return
	}
	if err := s.session.SetRate(*payload.Rate); err != nil {
		respondErr(w, err)
		return
	}
	s.handlePlayback(w, r)
}

func (s *Server) handleMetadataEvent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		VideoID  string  `json:"video_id"`
		Duration float64 `json:"duration"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.session.MetadataLoaded(payload.VideoID, payload.Duration)
	s.handlePlayback(w, r)
}

func (s *Server) handleTimeUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		VideoID     string  `json:"video_id"`
		CurrentTime float64 `json:"current_time"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.session.TimeUpdate(payload.VideoID, payload.CurrentTime)
	s.handlePlayback(w, r)
}

func (s *Server) handleErrorEvent(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		VideoID string `json:"video_id"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.session.LoadFailed(payload.VideoID, errors.New(payload.Message))
	s.handlePlayback(w, r)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.session.Preferences.Get())
}

func (s *Server) handlePatchPreferences(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate every key against a scratch copy so a bad key changes nothing.
	next := s.session.Preferences.Get()
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		var err error
		if next, err = next.Set(key, payload[key]); err != nil {
			respondErr(w, err)
			return
		}
	}

	for _, key := range keys {
		if _, err := s.session.SetPreference(key, payload[key]); err != nil {
			respondErr(w, err)
			return
		}
	}
	s.handleGetPreferences(w, r)
}

func (s *Server) respondState(w http.ResponseWriter, status int) {
	vm, err := s.session.View()
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, status, toStateResponse(vm))
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps domain failures onto status codes. The body carries the
// user-facing message.
func respondErr(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidPreference),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidSort):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrBookmarkNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrReplyNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateBookmark),
		errors.Is(err, domain.ErrNoMedia),
		errors.Is(err, domain.ErrNotReady),
		errors.Is(err, domain.ErrPlaybackStart):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCommentPost):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
