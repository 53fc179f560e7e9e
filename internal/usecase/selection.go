package usecase

import (
	"context"
	"fmt"
	"sync"

	"tinyflix/internal/domain"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/logger"
)

// SelectionState is the video-details fetch lifecycle.
type SelectionState struct {
	Video     *domain.Video
	IsLoading bool
	Error     string
}

// SelectionController loads the details of a chosen video through a
// simulated fetch. The most recent Select call is authoritative: results of
// superseded calls are discarded.
type SelectionController struct {
	catalog domain.CatalogRepository
	waiter  latency.Waiter
	mu      sync.Locker

	state      SelectionState
	generation uint64
	cancel     context.CancelFunc

	// onSelect runs with mu held whenever the selected video changes identity
	onSelect func(video domain.Video)
	notify   func()
}

// NewSelectionController creates a controller. A nil locker gives the
// controller its own mutex.
func NewSelectionController(catalog domain.CatalogRepository, waiter latency.Waiter, mu sync.Locker) *SelectionController {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if waiter == nil {
		waiter = latency.Instant{}
	}
	return &SelectionController{
		catalog: catalog,
		waiter:  waiter,
		mu:      mu,
		notify:  func() {},
	}
}

// State returns a copy of the current selection state.
func (c *SelectionController) State() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *SelectionController) stateLocked() SelectionState {
	out := c.state
	if c.state.Video != nil {
		v := c.state.Video.Clone()
		out.Video = &v
	}
	return out
}

// Select fetches the video with the given id. It blocks for the simulated
// latency and returns ErrVideoNotFound when the id is absent. When a newer
// Select supersedes this one, the result is dropped and ctx error or nil is
// returned without touching the state.
func (c *SelectionController) Select(ctx context.Context, id string) error {
	gen, fetchCtx := c.begin(ctx)

	waitErr := c.waiter.Wait(fetchCtx)

	var (
		video  *domain.Video
		getErr error
	)
	if waitErr == nil {
		video, getErr = c.catalog.GetByID(id)
		if getErr == nil && video == nil {
			getErr = domain.ErrVideoNotFound
		}
	}

	return c.finish(gen, id, video, waitErr, getErr)
}

func (c *SelectionController) begin(ctx context.Context) (uint64, context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state.IsLoading = true
	c.state.Error = ""
	c.mu.Unlock()

	c.notify()
	return gen, fetchCtx
}

func (c *SelectionController) finish(gen uint64, id string, video *domain.Video, waitErr, getErr error) error {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logger.Debug().Str("video_id", id).Msg("discarding superseded video fetch")
		return waitErr
	}

	defer func() {
		c.state.IsLoading = false
		c.cancel()
		c.cancel = nil
		c.mu.Unlock()
		c.notify()
	}()

	switch {
	case waitErr != nil:
		return fmt.Errorf("fetch video %s: %w", id, waitErr)
	case getErr != nil:
		c.state.Error = getErr.Error()
		logger.Info().Str("video_id", id).Err(getErr).Msg("video selection failed")
		return getErr
	}

	previous := c.state.Video
	c.state.Video = video
	c.state.Error = ""
	logger.Info().Str("video_id", id).Str("title", video.Title).Msg("video selected")

	if (previous == nil || previous.ID != video.ID) && c.onSelect != nil {
		c.onSelect(video.Clone())
	}
	return nil
}
