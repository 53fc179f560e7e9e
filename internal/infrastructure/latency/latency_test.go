package latency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_Waits(t *testing.T) {
	start := time.Now()
	require.NoError(t, NewTimer(20*time.Millisecond).Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTimer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewTimer(time.Hour).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTimer_NonPositiveDelay(t *testing.T) {
	assert.Equal(t, time.Millisecond, NewTimer(0).Delay)
}

func TestGate_ReleaseOrder(t *testing.T) {
	g := NewGate()
	boom := errors.New("boom")
	results := make(chan error, 2)

	go func() { results <- g.Wait(context.Background()) }()
	g.AwaitArrivals(1)
	go func() { results <- g.Wait(context.Background()) }()
	g.AwaitArrivals(1)
	assert.Equal(t, 2, g.Pending())

	g.Release(1, boom)
	assert.ErrorIs(t, <-results, boom)
	g.Release(0, nil)
	assert.NoError(t, <-results)
}

func TestInstant(t *testing.T) {
	assert.NoError(t, Instant{}.Wait(context.Background()))
}
