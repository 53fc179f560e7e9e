package cron

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyflix/config"
)

type recordingClock struct {
	mu        sync.Mutex
	advanced  []time.Duration
	refreshes int
}

func (c *recordingClock) Advance(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanced = append(c.advanced, elapsed)
}

func (c *recordingClock) RefreshView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshes++
}

func TestNormalizeSchedule(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "*/2 * * * *", want: "0 */2 * * * *"},
		{in: "0 0 0 * * *", want: "0 0 0 * * *"},
		{in: "@every 1s", want: "@every 1s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeSchedule(tt.in))
	}
}

func TestScheduler_TickUsesElapsedTime(t *testing.T) {
	clock := &recordingClock{}
	s := NewScheduler(&config.Config{}, clock)

	now := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.lastTick = now

	now = now.Add(1500 * time.Millisecond)
	s.tickJob()
	now = now.Add(time.Second)
	s.tickJob()
	// A clock that has not moved produces no advance.
	s.tickJob()

	assert.Equal(t, []time.Duration{1500 * time.Millisecond, time.Second}, clock.advanced)
}

func TestScheduler_StartAndStop(t *testing.T) {
	clock := &recordingClock{}
	cfg := &config.Config{ClockSchedule: "@every 1s", RefreshSchedule: "0 0 * * *"}
	s := NewScheduler(cfg, clock)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&config.Config{ClockSchedule: "not a schedule", RefreshSchedule: "@daily"}, &recordingClock{})
	assert.Error(t, s.Start())
}
