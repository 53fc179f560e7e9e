package cron

import (
	"fmt"
	"strings"
	"sync"
	"time"

	cron "github.com/robfig/cron/v3"

	"tinyflix/config"
	"tinyflix/internal/logger"
)

// Clock is the part of the session the scheduler drives.
type Clock interface {
	// Advance moves a playing video forward by elapsed wall time
	Advance(elapsed time.Duration)

	// RefreshView republishes time-dependent state
	RefreshView()
}

// Scheduler manages cron jobs for the application
type Scheduler struct {
	cron   *cron.Cron
	config *config.Config
	clock  Clock
	now    func() time.Time

	mu       sync.Mutex
	lastTick time.Time
}

// NewScheduler creates a new cron scheduler
func NewScheduler(cfg *config.Config, clock Clock) *Scheduler {
	// Create cron with seconds support
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:   c,
		config: cfg,
		clock:  clock,
		now:    time.Now,
	}
}

// Start starts the cron scheduler
func (s *Scheduler) Start() error {
	clockSchedule := normalizeSchedule(s.config.ClockSchedule)
	clockJobID, err := s.cron.AddFunc(clockSchedule, s.tickJob)
	if err != nil {
		return fmt.Errorf("failed to schedule media clock job: %w", err)
	}
	logger.Info().Int("job_id", int(clockJobID)).Str("schedule", clockSchedule).Msg("Scheduled media clock job")

	refreshSchedule := normalizeSchedule(s.config.RefreshSchedule)
	refreshJobID, err := s.cron.AddFunc(refreshSchedule, s.refreshJob)
	if err != nil {
		return fmt.Errorf("failed to schedule view refresh job: %w", err)
	}
	logger.Info().Int("job_id", int(refreshJobID)).Str("schedule", refreshSchedule).Msg("Scheduled view refresh job")

	s.mu.Lock()
	s.lastTick = s.now()
	s.mu.Unlock()

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")
	return nil
}

// Stop stops the cron scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	<-s.cron.Stop().Done()
	logger.Info().Msg("Cron scheduler stopped")
}

// tickJob advances the media clock by the wall time since the last tick
func (s *Scheduler) tickJob() {
	s.mu.Lock()
	now := s.now()
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	s.mu.Unlock()

	if elapsed <= 0 {
		return
	}
	s.clock.Advance(elapsed)
}

// refreshJob recomputes the visible list so the recent window rolls over
func (s *Scheduler) refreshJob() {
	logger.Debug().Msg("Refreshing view")
	s.clock.RefreshView()
}

// normalizeSchedule ensures cron expressions are compatible with cron.WithSeconds
func normalizeSchedule(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) == 5 {
		return "0 " + expr
	}
	return expr
}
