package main

import (
	"database/sql"
	"fmt"

	"tinyflix/config"
	"tinyflix/internal/catalog"
	"tinyflix/internal/domain"
	httpclient "tinyflix/internal/infrastructure/http"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/infrastructure/media"
	"tinyflix/internal/logger"
	"tinyflix/internal/repository/memory"
	sqliterepo "tinyflix/internal/repository/sqlite"
	"tinyflix/internal/usecase"
)

// app holds the wired session and the resources it owns.
type app struct {
	session *usecase.Session
	db      *sql.DB
}

func newApp(cfg *config.Config) (*app, error) {
	videos, err := catalog.FromConfig(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalogRepo, err := memory.NewCatalogRepository(videos)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	a := &app{}
	var (
		bookmarks domain.BookmarkRepository
		comments  domain.CommentRepository
	)
	switch cfg.StorageBackend {
	case "memory":
		bookmarks = memory.NewBookmarkRepository()
		comments = memory.NewCommentRepository()
	case "sqlite":
		db, err := sqliterepo.Open(cfg.StorageName)
		if err != nil {
			return nil, fmt.Errorf("open annotation store: %w", err)
		}
		a.db = db
		bookmarks = sqliterepo.NewBookmarkRepository(db)
		comments = sqliterepo.NewCommentRepository(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	var element domain.MediaElement
	switch cfg.MediaBackend {
	case "simulated":
		element = media.NewSimulated(latency.NewTimer(cfg.FetchLatency), cfg.MediaFailPlay)
	case "http":
		element = media.NewHTTPProbe(httpclient.NewHTTPClient(cfg))
	default:
		a.Close()
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}

	prefs, err := initialPreferences(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	session, err := usecase.NewSession(usecase.Options{
		Catalog:       catalogRepo,
		Bookmarks:     bookmarks,
		Comments:      comments,
		Media:         element,
		FetchWaiter:   latency.NewTimer(cfg.FetchLatency),
		CommentWaiter: latency.NewTimer(cfg.CommentLatency),
		Preferences:   prefs,
		MediaBaseURL:  cfg.MediaBaseURL,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}
	a.session = session

	logger.Info().Int("videos", len(videos)).Msg("Catalog loaded")
	return a, nil
}

func initialPreferences(cfg *config.Config) (domain.Preferences, error) {
	quality, err := domain.ParseQuality(cfg.DefaultQuality)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("preferences.quality: %w", err)
	}
	return domain.Preferences{
		Autoplay:  cfg.DefaultAutoplay,
		Quality:   quality,
		Subtitles: cfg.DefaultSubtitles,
	}, nil
}

// Close releases the annotation store.
func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close annotation store")
	}
}
