// Package latency provides the asynchronous boundary that stands in for
// network round trips. Production code waits on a timer; tests inject a
// Gate or Instant to control completion.
package latency

import (
	"context"
	"sync"
	"time"
)

// Waiter blocks until a simulated call completes or ctx is done.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Timer completes after a fixed delay.
type Timer struct {
	Delay time.Duration
}

// NewTimer returns a Timer. Non-positive delays fall back to one millisecond
// so completion is always asynchronous.
func NewTimer(delay time.Duration) Timer {
	if delay <= 0 {
		delay = time.Millisecond
	}
	return Timer{Delay: delay}
}

// Wait implements Waiter.
func (t Timer) Wait(ctx context.Context) error {
	timer := time.NewTimer(t.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant completes immediately unless ctx is already done.
type Instant struct{}

// Wait implements Waiter.
func (Instant) Wait(ctx context.Context) error {
	return ctx.Err()
}

// Gate holds every waiter until the test releases it. Waiters are released
// in the order the test chooses, which makes interleavings deterministic.
type Gate struct {
	mu      sync.Mutex
	pending []chan error
	arrived chan struct{}
}

// NewGate creates an empty Gate.
func NewGate() *Gate {
	return &Gate{arrived: make(chan struct{}, 64)}
}

// Wait implements Waiter.
func (g *Gate) Wait(ctx context.Context) error {
	ch := make(chan error, 1)
	g.mu.Lock()
	g.pending = append(g.pending, ch)
	g.mu.Unlock()
	g.arrived <- struct{}{}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitArrivals blocks until n waiters have entered Wait since the last call.
func (g *Gate) AwaitArrivals(n int) {
	for i := 0; i < n; i++ {
		<-g.arrived
	}
}

// Release completes the i-th waiter (in arrival order) with err.
func (g *Gate) Release(i int, err error) {
	g.mu.Lock()
	ch := g.pending[i]
	g.mu.Unlock()
	ch <- err
}

// Pending returns how many waiters have arrived in total.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}
