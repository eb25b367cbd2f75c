package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Runner performs one full update run. RunOnce returns ErrRunInProgress when
// a run started elsewhere has not finished.
type Runner interface {
	RunOnce(ctx context.Context) (RunResult, error)
}

// Scheduler triggers update runs on a cron schedule
type Scheduler struct {
	spec   string
	runner Runner
	cron   *cron.Cron
	ctx    context.Context
}

// NewScheduler creates a new scheduler instance. A run that is still going
// when the next one is due makes the next one skip.
func NewScheduler(spec string, runner Runner) *Scheduler {
	logger := cron.PrintfLogger(&log.Logger)
	return &Scheduler{
		spec:   spec,
		runner: runner,
		cron:   cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
	}
}

// Start starts the scheduler. Scheduled runs use ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")
	s.ctx = ctx

	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Time("next_run", s.Next()).
		Msg("Refresh scheduled")

	return nil
}

func (s *Scheduler) run() {
	log.Info().Msg("Running scheduled refresh...")
	_, err := s.runner.RunOnce(s.ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		log.Info().Msg("Scheduled refresh skipped, a manual run is in progress")
	case err != nil:
		log.Error().Err(err).Msg("Scheduled refresh failed")
	}
}

// Next returns the next scheduled run time, zero before Start
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}
