package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"happeningvibe/internal/domain"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic maintenance on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// NewScheduler returns a scheduler that evaluates schedules in loc.
func NewScheduler(logger *slog.Logger, loc *time.Location, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{logger})),
		logger:  logger,
		timeout: timeout,
	}
}

// Cleanup deletes expired one-time auth codes.
type Cleanup struct {
	codes  domain.AuthCodeRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewCleanup(codes domain.AuthCodeRepository, logger *slog.Logger) *Cleanup {
	return &Cleanup{codes: codes, logger: logger, now: time.Now}
}

// Run removes every code expired at the current instant.
func (c *Cleanup) Run(ctx context.Context) error {
	n, err := c.codes.DeleteExpired(ctx, c.now().UTC())
	if err != nil {
		return fmt.Errorf("delete expired auth codes: %w", err)
	}
	if n > 0 {
		c.logger.InfoContext(ctx, "expired auth codes deleted", "count", n)
	}
	return nil
}

// Add registers run on the cron schedule. Each invocation gets its own timeout.
func (s *Scheduler) Add(name, schedule string, run func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := run(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled job failed", "job", name, "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, schedule, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for running jobs or ctx, whichever is first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}
