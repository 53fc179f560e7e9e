package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/config"
	"tinyflix/internal/domain"
	httpclient "tinyflix/internal/infrastructure/http"
	"tinyflix/internal/infrastructure/latency"
)

type recorder struct {
	mu       sync.Mutex
	done     chan struct{}
	videoID  string
	duration float64
	err      error
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{}, 1)} }

func (r *recorder) MetadataLoaded(videoID string, duration float64) {
	r.mu.Lock()
	r.videoID, r.duration = videoID, duration
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) LoadFailed(videoID string, err error) {
	r.mu.Lock()
	r.videoID, r.err = videoID, err
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("no media event")
	}
}

func TestSourceURL(t *testing.T) {
	assert.Equal(t, "https://example.com/videos/1.mp4", SourceURL("https://example.com/videos/", "1"))
}

func TestSimulated_LoadReportsDuration(t *testing.T) {
	rec := newRecorder()
	s := NewSimulated(latency.Instant{}, false)
	s.Load(context.Background(), domain.Video{ID: "1", Duration: "10:30"}, "src", rec)
	rec.wait(t)

	assert.Equal(t, "1", rec.videoID)
	assert.Equal(t, 630.0, rec.duration)
	assert.NoError(t, s.Play(context.Background(), "src"))
}

func TestSimulated_BadDurationFails(t *testing.T) {
	rec := newRecorder()
	NewSimulated(nil, false).Load(context.Background(), domain.Video{ID: "2", Duration: "soon"}, "src", rec)
	rec.wait(t)
	assert.Error(t, rec.err)
}

func TestSimulated_FailPlay(t *testing.T) {
	assert.Error(t, NewSimulated(nil, true).Play(context.Background(), "src"))
}

func TestHTTPProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/1.mp4" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := httpclient.NewHTTPClient(&config.Config{MaxIdleConns: 1, MaxConnsPerHost: 1, HTTPClientTimeout: time.Second})
	p := NewHTTPProbe(client)

	rec := newRecorder()
	p.Load(context.Background(), domain.Video{ID: "1", Duration: "1:00"}, SourceURL(srv.URL, "1"), rec)
	rec.wait(t)
	require.NoError(t, rec.err)
	assert.Equal(t, 60.0, rec.duration)

	missing := newRecorder()
	p.Load(context.Background(), domain.Video{ID: "2", Duration: "1:00"}, SourceURL(srv.URL, "2"), missing)
	missing.wait(t)
	assert.Error(t, missing.err)

	assert.NoError(t, p.Play(context.Background(), SourceURL(srv.URL, "1")))
	assert.Error(t, p.Play(context.Background(), SourceURL(srv.URL, "2")))
}
