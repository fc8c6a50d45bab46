package escalation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweeperConfig configures the SLA expiry sweeper.
type SweeperConfig struct {
	// Schedule is a standard cron expression for the sweep cadence.
	//
	// Common expressions:
	//   - "* * * * *"    - Every minute
	//   - "*/5 * * * *"  - Every 5 minutes
	//
	// If empty, the sweeper does nothing.
	Schedule string
}

// DefaultSweeperConfig returns a SweeperConfig with default values.
func DefaultSweeperConfig() *SweeperConfig {
	return &SweeperConfig{Schedule: "* * * * *"}
}

// Sweeper periodically expires overdue tickets. Expiry never blocks queue
// operations; each run is a bounded pass over the current tickets, and runs
// that overlap with claims or resolutions simply skip tickets that moved on.
type Sweeper struct {
	queue   *Queue
	config  *SweeperConfig
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewSweeper creates an SLA sweeper for the queue.
func NewSweeper(queue *Queue, config *SweeperConfig) *Sweeper {
	if config == nil {
		config = DefaultSweeperConfig()
	}
	return &Sweeper{
		queue:  queue,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "escalation.sweeper"),
	}
}

// Start begins scheduled sweeping. Sweeping stops when ctx is cancelled or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("sla sweeper started", "schedule", s.config.Schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one expiry pass.
func (s *Sweeper) runSweep(ctx context.Context) {
	expired, err := s.queue.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("sla sweep interrupted", "expired_count", expired, "error", err)
		return
	}

	if expired > 0 {
		s.logger.Warn("sla sweep expired tickets", "expired_count", expired)
	} else {
		s.logger.Debug("sla sweep completed, no overdue tickets")
	}
}

// Stop stops the sweeper and waits for a running sweep to complete.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("sla sweeper stopped")
	}
}

// IsRunning returns true if the sweeper is running.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
