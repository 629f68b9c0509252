package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/timeutil"
)

// CaptureRunner is the trigger surface of the capture service.
type CaptureRunner interface {
	RunDailyCapture(ctx context.Context, targetDate time.Time) (models.CaptureReport, error)
}

// CaptureScheduler fires the daily capture at a fixed local time. It is
// driven through the injected clock so the wait arithmetic is testable.
// Overlap with a manual trigger is harmless: the per-device idempotency
// guard absorbs duplicate runs.
type CaptureScheduler struct {
	runner  CaptureRunner
	clock   timeutil.Clock
	hour    int
	minute  int
	loc     *time.Location
	onStart bool
	logger  *zap.Logger
}

func NewCaptureScheduler(
	runner CaptureRunner,
	clock timeutil.Clock,
	hour, minute int,
	loc *time.Location,
	onStart bool,
	logger *zap.Logger,
) *CaptureScheduler {
	return &CaptureScheduler{
		runner:  runner,
		clock:   clock,
		hour:    hour,
		minute:  minute,
		loc:     loc,
		onStart: onStart,
		logger:  logger,
	}
}

// Start blocks until the context is cancelled.
func (s *CaptureScheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting capture scheduler",
		zap.String("run_at", timeOfDay(s.hour, s.minute)),
		zap.String("timezone", s.loc.String()),
	)

	if s.onStart {
		s.run(ctx)
	}

	for {
		now := s.clock.Now().In(s.loc)
		next := s.nextRun(now)
		timer := s.clock.Timer(next.Sub(now))

		s.logger.Info("Next capture scheduled",
			zap.Time("next_run", next),
			zap.Duration("wait_duration", next.Sub(now)),
		)

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.Chan():
			s.run(ctx)
		}
	}
}

// nextRun is the first hh:mm in s.loc strictly after now.
func (s *CaptureScheduler) nextRun(now time.Time) time.Time {
	now = now.In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (s *CaptureScheduler) run(ctx context.Context) {
	if _, err := s.runner.RunDailyCapture(ctx, s.clock.Now()); err != nil {
		s.logger.Error("Scheduled capture failed", zap.Error(err))
	}
}

func timeOfDay(hour, minute int) string {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
}
