package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-stock-newsdigest/internal/entity"
	"golang-stock-newsdigest/internal/ingestion/dto"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/telegram"
	"golang-stock-newsdigest/pkg/utils"
)

// ErrBatchInProgress is returned when another batch run holds the lock.
var ErrBatchInProgress = errors.New("a news digest batch is already running")

// BatchOptions tunes one batch run. Zero values fall back to the configured defaults.
type BatchOptions struct {
	Trigger       entity.RunTrigger
	Symbol        string
	DryRun        bool
	Delay         *time.Duration
	MaxSecurities int
	MaxNewsItems  *int
	MaxEvents     *int
	SkipCleanup   bool
}

// BatchService refreshes the news digests of watchlisted securities.
type BatchService interface {
	Run(ctx context.Context, opts BatchOptions) (*dto.BatchReport, error)
	History(ctx context.Context, limit int) ([]entity.IngestionRun, error)
}

// BatchDependencies groups the collaborators of the batch service. Lock, Favicons, Events and
// Notifier are optional.
type BatchDependencies struct {
	Ingestion IngestionService
	AI        repository.AIRepository
	Runs      repository.IngestionRunRepository
	Lock      repository.BatchLockRepository
	Favicons  repository.FaviconRepository
	Events    repository.DigestEventRepository
	Notifier  telegram.Notifier
}

type batchService struct {
	deps         BatchDependencies
	defaultDelay time.Duration
	clock        utils.Clock
	sleep        func(ctx context.Context, d time.Duration) error
	logger       *logger.Logger
}

// NewBatchService creates a new BatchService.
func NewBatchService(deps BatchDependencies, defaultDelay time.Duration, clock utils.Clock, log *logger.Logger) BatchService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &batchService{
		deps:         deps,
		defaultDelay: defaultDelay,
		clock:        clock,
		sleep:        sleepContext,
		logger:       log,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// History returns the most recent batch runs, newest first.
func (s *batchService) History(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.deps.Runs.FindLatest(ctx, limit)
}

// Run refreshes each selected security in turn. A failing security is recorded in the report
// and does not stop the run; cancelling ctx stops it between securities.
func (s *batchService) Run(ctx context.Context, opts BatchOptions) (*dto.BatchReport, error) {
	if opts.Trigger == "" {
		opts.Trigger = entity.RunTriggerManual
	}

	if s.deps.Lock != nil {
		release, ok, err := s.deps.Lock.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrBatchInProgress
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				s.logger.Warn("Failed to release batch lock", logger.ErrorField(err))
			}
		}()
	}

	securities, err := s.selectSecurities(ctx, opts)
	if err != nil {
		return nil, err
	}

	run := &entity.IngestionRun{
		Trigger:   opts.Trigger,
		Status:    entity.RunStatusRunning,
		DryRun:    opts.DryRun,
		StartedAt: s.clock.Now(),
	}
	if err := s.deps.Runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create ingestion run: %w", err)
	}

	delay := s.defaultDelay
	if opts.Delay != nil {
		delay = *opts.Delay
	}

	s.logger.Info("Starting news digest batch",
		logger.Field("run_id", run.ID),
		logger.IntField("securities", len(securities)),
		logger.Field("dry_run", opts.DryRun),
		logger.StringField("trigger", string(opts.Trigger)),
	)

	report := &dto.BatchReport{RunID: run.ID, DryRun: opts.DryRun, Results: make([]dto.SecurityResult, 0, len(securities))}
	var runErr error
	for i := range securities {
		if !utils.ShouldContinue(ctx, s.logger) {
			runErr = ctx.Err()
			break
		}

		result := s.processSecurity(ctx, &securities[i], opts)
		report.Results = append(report.Results, result)
		if result.IsSuccess {
			report.Processed++
		} else {
			report.Failed++
		}

		if i < len(securities)-1 {
			if err := s.sleep(ctx, delay); err != nil {
				runErr = err
				break
			}
		}
	}

	s.finishRun(run, report, runErr)

	s.logger.Info("Finished news digest batch",
		logger.Field("run_id", run.ID),
		logger.IntField("processed", report.Processed),
		logger.IntField("failed", report.Failed),
	)

	if !opts.DryRun && s.deps.Notifier != nil {
		parts := telegram.FormatBatchReportForTelegram(*report, s.clock.Now())
		if err := telegram.SendMessages(s.deps.Notifier, parts); err != nil {
			s.logger.Error("Failed to send batch report to Telegram", logger.ErrorField(err))
		}
	}

	return report, runErr
}

func (s *batchService) selectSecurities(ctx context.Context, opts BatchOptions) ([]entity.Security, error) {
	if symbol := strings.TrimSpace(opts.Symbol); symbol != "" {
		security, err := s.deps.Ingestion.FindSecurityBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("security %s: %w", strings.ToUpper(symbol), err)
		}
		return []entity.Security{*security}, nil
	}

	securities, err := s.deps.Ingestion.ListWatchlistedSecurities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlisted securities: %w", err)
	}
	if opts.MaxSecurities > 0 && len(securities) > opts.MaxSecurities {
		securities = securities[:opts.MaxSecurities]
	}
	return securities, nil
}

func (s *batchService) processSecurity(ctx context.Context, security *entity.Security, opts BatchOptions) dto.SecurityResult {
	result := dto.SecurityResult{Symbol: security.Symbol}
	fail := func(err error) dto.SecurityResult {
		s.logger.Error("Failed to refresh news digest", logger.StringField("symbol", security.Symbol), logger.ErrorField(err))
		result.Error = err.Error()
		return result
	}

	analysis, err := s.deps.AI.GetStockAnalysis(ctx, security.Symbol)
	if err != nil {
		return fail(fmt.Errorf("analysis failed: %w", err))
	}
	if missing := analysis.MissingContent(); len(missing) > 0 {
		return fail(fmt.Errorf("incomplete analysis, missing %s", strings.Join(missing, ", ")))
	}

	s.enrichFavicons(ctx, analysis)

	result.Sentiment = analysis.OverallSentiment.Sentiment
	result.Highlights = len(analysis.KeyHighlights)

	if opts.DryRun {
		if err := analysis.Validate(); err != nil {
			return fail(err)
		}
		result.IsSuccess = true
		result.Skipped = true
		result.NewsItems = len(analysis.RecentNews)
		result.Events = len(analysis.UpcomingEvents)
		return result
	}

	ingested, err := s.deps.Ingestion.Ingest(ctx, security, analysis, IngestOptions{
		MaxNewsItems: opts.MaxNewsItems,
		MaxEvents:    opts.MaxEvents,
		SkipCleanup:  opts.SkipCleanup,
	})
	if err != nil {
		return fail(err)
	}

	result.IsSuccess = true
	result.NewsItems = ingested.NewsInserted
	result.Events = ingested.EventsInserted

	if s.deps.Events != nil {
		event := dto.DigestUpdatedEvent{Symbol: security.Symbol, SummaryID: ingested.Summary.ID}
		if err := s.deps.Events.PublishDigestUpdated(ctx, event); err != nil {
			s.logger.Warn("Failed to publish digest update", logger.StringField("symbol", security.Symbol), logger.ErrorField(err))
		}
	}
	return result
}

// enrichFavicons fills in missing favicons. Lookup failures leave the field empty.
func (s *batchService) enrichFavicons(ctx context.Context, analysis *dto.StockAnalysis) {
	if s.deps.Favicons == nil {
		return
	}
	for i := range analysis.RecentNews {
		item := &analysis.RecentNews[i]
		if item.Favicon != "" || item.URL == "" {
			continue
		}
		icon, err := s.deps.Favicons.ResolveFavicon(ctx, item.URL)
		if err != nil {
			s.logger.Debug("Favicon lookup failed", logger.StringField("url", item.URL), logger.ErrorField(err))
			continue
		}
		item.Favicon = icon
	}
}

func (s *batchService) finishRun(run *entity.IngestionRun, report *dto.BatchReport, runErr error) {
	run.Processed = report.Processed
	run.Failed = report.Failed
	run.CompletedAt = sql.NullTime{Time: s.clock.Now(), Valid: true}
	run.Status = entity.RunStatusCompleted
	if runErr != nil {
		run.Status = entity.RunStatusFailed
		run.ErrorMessage = sql.NullString{String: runErr.Error(), Valid: true}
	}
	if output, err := json.Marshal(report.Results); err == nil {
		run.Output = output
	}

	// The run row is closed even when the batch context was cancelled.
	if err := s.deps.Runs.Update(context.Background(), run); err != nil {
		s.logger.Error("Failed to update ingestion run", logger.Field("run_id", run.ID), logger.ErrorField(err))
	}
}
