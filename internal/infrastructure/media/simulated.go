package media

import (
	"context"
	"fmt"

	"tinyflix/internal/domain"
	"tinyflix/internal/infrastructure/latency"
	"tinyflix/internal/logger"
)

// Simulated is an in-process media element. Metadata comes from the catalog
// duration after a simulated load delay.
type Simulated struct {
	waiter   latency.Waiter
	failPlay bool
}

// NewSimulated creates a simulated element. When failPlay is set every play
// attempt is rejected, mirroring an unreachable media host.
func NewSimulated(waiter latency.Waiter, failPlay bool) *Simulated {
	if waiter == nil {
		waiter = latency.Instant{}
	}
	return &Simulated{waiter: waiter, failPlay: failPlay}
}

// Load implements domain.MediaElement.
func (s *Simulated) Load(ctx context.Context, video domain.Video, src string, events domain.MediaEvents) {
	go func() {
		if err := s.waiter.Wait(ctx); err != nil {
			// Source replaced before it finished loading.
			return
		}
		duration, err := domain.ParseDuration(video.Duration)
		if err != nil {
			logger.Warn().Err(err).Str("video_id", video.ID).Str("src", src).Msg("media metadata unavailable")
			events.LoadFailed(video.ID, err)
			return
		}
		events.MetadataLoaded(video.ID, duration)
	}()
}

// Play implements domain.MediaElement.
func (s *Simulated) Play(ctx context.Context, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failPlay {
		return fmt.Errorf("play %s: source unreachable", src)
	}
	return nil
}

// Pause implements domain.MediaElement.
func (s *Simulated) Pause() {}
