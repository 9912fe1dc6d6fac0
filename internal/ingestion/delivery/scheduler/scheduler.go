package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-newsdigest/internal/entity"
	"golang-stock-newsdigest/internal/ingestion/service"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers a batch run every time the cron expression fires.
type Scheduler struct {
	batchSvc service.BatchService
	schedule cron.Schedule
	baseOpts service.BatchOptions
	clock    utils.Clock
	logger   *logger.Logger
}

// NewScheduler parses expression (standard five fields or a descriptor such as @daily).
func NewScheduler(batchSvc service.BatchService, expression string, baseOpts service.BatchOptions, clock utils.Clock, log *logger.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expression, err)
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	baseOpts.Trigger = entity.RunTriggerCron
	return &Scheduler{
		batchSvc: batchSvc,
		schedule: schedule,
		baseOpts: baseOpts,
		clock:    clock,
		logger:   log,
	}, nil
}

// NextRun returns the first activation strictly after t.
func (s *Scheduler) NextRun(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start blocks, running the batch at each activation until ctx is done. Runs never overlap
// within this process; the batch lock covers other processes.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		next := s.NextRun(s.clock.Now())
		s.logger.Info("Next news digest batch scheduled", logger.StringField("at", next.Format(time.RFC3339)))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler stopping")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one scheduled batch and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	report, err := s.batchSvc.Run(ctx, s.baseOpts)
	switch {
	case errors.Is(err, service.ErrBatchInProgress):
		s.logger.Warn("Skipping scheduled batch, previous run still in progress")
	case err != nil:
		s.logger.Error("Scheduled batch failed", logger.ErrorField(err))
	default:
		s.logger.Info("Scheduled batch completed",
			logger.Field("run_id", report.RunID),
			logger.IntField("processed", report.Processed),
			logger.IntField("failed", report.Failed),
		)
	}
}
