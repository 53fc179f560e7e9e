package usecase

import (
	"context"
	"sync"
	"time"

	"tinyflix/internal/domain"
)

// fakeMedia records calls and never raises events on its own; tests drive
// MetadataLoaded and LoadFailed directly.
type fakeMedia struct {
	mu      sync.Mutex
	loads   []string
	plays   int
	pauses  int
	playErr error
}

func (m *fakeMedia) Load(_ context.Context, video domain.Video, src string, _ domain.MediaEvents) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, video.ID+"|"+src)
}

func (m *fakeMedia) Play(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	return m.playErr
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
}

func (m *fakeMedia) setPlayErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// manualWaiter hands each Wait call to the test and ignores cancellation,
// so a superseded call can still complete late.
type manualWaiter struct {
	calls chan chan error
}

func newManualWaiter() *manualWaiter {
	return &manualWaiter{calls: make(chan chan error)}
}

func (w *manualWaiter) Wait(_ context.Context) error {
	ch := make(chan error)
	w.calls <- ch
	return <-ch
}

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func sourceFor(id string) string {
	return "https://media.test/" + id + ".mp4"
}
