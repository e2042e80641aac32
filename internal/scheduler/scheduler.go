// Package scheduler fires generation runs on a cron schedule. Runs never
// overlap: a tick that arrives while a run is still going is skipped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one independent run.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger
}

// New parses spec (standard five-field syntax or descriptors like "@every 1m").
func New(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid RUN_SCHEDULE %q: %w", spec, err)
	}

	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{cron: c, spec: spec, job: job, logger: logger}, nil
}

// Run schedules the job and blocks until ctx is done, then waits for an
// in-flight run to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.job(ctx); err != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.spec)

	<-ctx.Done()

	s.logger.Info("scheduler stopping")
	<-s.cron.Stop().Done()
	return ctx.Err()
}

// cronLogger routes cron's own logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
