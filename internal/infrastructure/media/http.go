package media

import (
	"context"
	"fmt"
	"net/http"

	"tinyflix/internal/domain"
	httpclient "tinyflix/internal/infrastructure/http"
	"tinyflix/internal/logger"
)

// Prober checks that a media URL is reachable.
type Prober interface {
	Head(ctx context.Context, url string) (*http.Response, error)
}

// HTTPProbe is a media element that verifies the source with a HEAD request
// before reporting metadata or accepting a play attempt.
type HTTPProbe struct {
	prober Prober
}

// NewHTTPProbe creates an HTTP-probing element from the shared client.
func NewHTTPProbe(client *httpclient.HTTPClient) *HTTPProbe {
	return &HTTPProbe{prober: client}
}

// Load implements domain.MediaElement.
func (p *HTTPProbe) Load(ctx context.Context, video domain.Video, src string, events domain.MediaEvents) {
	go func() {
		if err := p.probe(ctx, src); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn().Err(err).Str("video_id", video.ID).Msg("media load failed")
			events.LoadFailed(video.ID, err)
			return
		}
		duration, err := domain.ParseDuration(video.Duration)
		if err != nil {
			events.LoadFailed(video.ID, err)
			return
		}
		events.MetadataLoaded(video.ID, duration)
	}()
}

// Play implements domain.MediaElement.
func (p *HTTPProbe) Play(ctx context.Context, src string) error {
	return p.probe(ctx, src)
}

// Pause implements domain.MediaElement.
func (p *HTTPProbe) Pause() {}

func (p *HTTPProbe) probe(ctx context.Context, src string) error {
	resp, err := p.prober.Head(ctx, src)
	if err != nil {
		return fmt.Errorf("probe %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe %s: unexpected status %d", src, resp.StatusCode)
	}
	return nil
}
