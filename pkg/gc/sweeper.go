package gc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/relayhq/originproxy/pkg/cspreports"
	"github.com/relayhq/originproxy/pkg/ratelimit"
	"github.com/relayhq/originproxy/pkg/telemetry/logging"
)

// Sweeper runs the retention sweep on a cron schedule.
type Sweeper struct {
	store         *cspreports.Store
	limiter       *ratelimit.Limiter
	retention     time.Duration
	schedule      string
	logger        *logging.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// New creates a Sweeper. retentionDays and schedule come from
// config.CSPConfig.RetentionDays and config.CSPConfig.PruneSchedule.
func New(store *cspreports.Store, limiter *ratelimit.Limiter, retentionDays int, schedule string, logger *logging.Logger) *Sweeper {
	return &Sweeper{
		store:     store,
		limiter:   limiter,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start schedules the sweep and returns immediately; the sweep itself runs
// on cron's own goroutine until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("gc: prune schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("gc: invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("gc: schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("gc: sweeper started", "schedule", s.schedule, "retention", s.retention.String())

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := timeNow().Add(-s.retention)

	deleted, err := s.store.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Error("gc: csp report prune failed", "error", err)
	} else if deleted > 0 {
		s.logger.Info("gc: csp reports pruned", "deleted", deleted)
	}

	s.logger.Info("gc: rate limiter queue depth", "entries", s.limiter.Len())
}

// Stop stops the sweeper and waits for any running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.running = false
		s.logger.Info("gc: sweeper stopped")
	}
}

// IsRunning reports whether the sweeper's cron loop is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
