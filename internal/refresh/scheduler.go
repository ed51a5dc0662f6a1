// Package refresh re-fetches server grids on a cron schedule.
package refresh

import (
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs a refresh function on a schedule
type Scheduler struct {
	scheduler *cron.Cron
	entry     cron.EntryID
	runs      atomic.Int64
	logger    *zap.Logger
}

// Validate reports whether spec is a standard cron expression or a
// descriptor such as "@every 30s"
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return nil
}

// Start schedules refresh and starts the scheduler
func Start(spec string, refresh func(), logger *zap.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{scheduler: cron.New(), logger: logger.Named("refresh")}
	s.entry = s.scheduler.Schedule(schedule, cron.FuncJob(func() {
		s.runs.Add(1)
		s.logger.Debug("scheduled refresh")
		refresh()
	}))
	s.scheduler.Start()
	s.logger.Info("refresh scheduled", zap.String("schedule", spec))
	return s, nil
}

// Runs counts the refreshes triggered so far
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Stop halts the schedule and waits for a running refresh to return
func (s *Scheduler) Stop() {
	ctx := s.scheduler.Stop()
	<-ctx.Done()
}
