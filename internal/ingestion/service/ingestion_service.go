package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang-stock-newsdigest/internal/entity"
	"golang-stock-newsdigest/internal/ingestion/dto"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IngestionStep names the stage of an ingestion that failed.
type IngestionStep string

const (
	StepValidate          IngestionStep = "validate"
	StepResolveSentiment  IngestionStep = "resolve_sentiment"
	StepUpsertSummary     IngestionStep = "upsert_summary"
	StepReplaceHighlights IngestionStep = "replace_highlights"
	StepMergeNews         IngestionStep = "merge_news"
	StepTrimNews          IngestionStep = "trim_news"
	StepAppendEvents      IngestionStep = "append_events"
	StepTrimEvents        IngestionStep = "trim_events"
	StepTransaction       IngestionStep = "transaction"
)

// IngestionError reports which security and step aborted an ingestion. Nothing from the
// failed call is persisted.
type IngestionError struct {
	Symbol string
	Step   IngestionStep
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s failed at %s: %v", e.Symbol, e.Step, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// IngestOptions overrides the retention caps for one call. A nil cap uses the service default.
type IngestOptions struct {
	MaxNewsItems *int
	MaxEvents    *int
	SkipCleanup  bool
}

// IngestResult is the committed outcome of one ingestion.
type IngestResult struct {
	Summary          *entity.SecurityNewsSummary
	SummaryCreated   bool
	SentimentCreated bool
	NewsInserted     int
	NewsSkipped      int
	NewsTrimmed      int64
	EventsInserted   int
	EventsTrimmed    int64
}

// IngestionService persists analysis results for tracked securities.
type IngestionService interface {
	Ingest(ctx context.Context, security *entity.Security, analysis *dto.StockAnalysis, opts IngestOptions) (*IngestResult, error)
	ListWatchlistedSecurities(ctx context.Context) ([]entity.Security, error)
	FindSecurityBySymbol(ctx context.Context, symbol string) (*entity.Security, error)
}

// IngestionRepositories groups the stores written during an ingestion.
type IngestionRepositories struct {
	Securities repository.SecuritiesRepository
	Sentiments repository.SentimentRepository
	Summaries  repository.NewsSummaryRepository
	Highlights repository.KeyHighlightRepository
	NewsItems  repository.NewsItemRepository
	Events     repository.UpcomingEventRepository
	Retention  repository.RetentionRepository
}

// RetentionDefaults are the per-security caps applied when IngestOptions leaves them unset.
// A cap of zero or less evicts every row of that kind.
type RetentionDefaults struct {
	MaxNewsItems int
	MaxEvents    int
}

type ingestionService struct {
	db       *gorm.DB
	repos    IngestionRepositories
	defaults RetentionDefaults
	clock    utils.Clock
	logger   *logger.Logger
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(db *gorm.DB, repos IngestionRepositories, defaults RetentionDefaults, clock utils.Clock, log *logger.Logger) IngestionService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &ingestionService{
		db:       db,
		repos:    repos,
		defaults: defaults,
		clock:    clock,
		logger:   log,
	}
}

// ListWatchlistedSecurities returns active securities that at least one user watches.
func (s *ingestionService) ListWatchlistedSecurities(ctx context.Context) ([]entity.Security, error) {
	return s.repos.Securities.FindWatchlisted(ctx)
}

// FindSecurityBySymbol returns repository.ErrSecurityNotFound for unknown or inactive symbols.
func (s *ingestionService) FindSecurityBySymbol(ctx context.Context, symbol string) (*entity.Security, error) {
	return s.repos.Securities.FindActiveBySymbol(ctx, symbol)
}

// Ingest writes analysis for security in a single transaction: sentiment, summary,
// highlights, news (then trim) and events (then trim), in that order.
func (s *ingestionService) Ingest(ctx context.Context, security *entity.Security, analysis *dto.StockAnalysis, opts IngestOptions) (*IngestResult, error) {
	if security == nil {
		return nil, &IngestionError{Step: StepValidate, Err: errors.New("security is nil")}
	}
	if err := analysis.Validate(); err != nil {
		return nil, &IngestionError{Symbol: security.Symbol, Step: StepValidate, Err: err}
	}

	maxNews := s.defaults.MaxNewsItems
	if opts.MaxNewsItems != nil {
		maxNews = *opts.MaxNewsItems
	}
	maxEvents := s.defaults.MaxEvents
	if opts.MaxEvents != nil {
		maxEvents = *opts.MaxEvents
	}

	log := s.logger.With(logger.StringField("symbol", security.Symbol))
	log.Info("Starting news digest ingestion",
		logger.IntField("news_items", len(analysis.RecentNews)),
		logger.IntField("events", len(analysis.UpcomingEvents)),
		logger.IntField("highlights", len(analysis.KeyHighlights)),
	)

	var result *IngestResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.ingestTx(ctx, tx, log, security, analysis, maxNews, maxEvents, opts.SkipCleanup)
		return err
	})
	if err != nil {
		var ingestErr *IngestionError
		if !errors.As(err, &ingestErr) {
			ingestErr = &IngestionError{Symbol: security.Symbol, Step: StepTransaction, Err: err}
		}
		log.Error("News digest ingestion rolled back",
			logger.StringField("step", string(ingestErr.Step)),
			logger.ErrorField(ingestErr.Err),
		)
		return nil, ingestErr
	}

	log.Info("Finished news digest ingestion",
		logger.Field("summary_created", result.SummaryCreated),
		logger.IntField("news_inserted", result.NewsInserted),
		logger.IntField("news_skipped", result.NewsSkipped),
		logger.IntField("events_inserted", result.EventsInserted),
		logger.Field("news_trimmed", result.NewsTrimmed),
		logger.Field("events_trimmed", result.EventsTrimmed),
	)
	return result, nil
}

func (s *ingestionService) ingestTx(
	ctx context.Context,
	tx *gorm.DB,
	log *logger.Logger,
	security *entity.Security,
	analysis *dto.StockAnalysis,
	maxNews, maxEvents int,
	skipCleanup bool,
) (*IngestResult, error) {
	fail := func(step IngestionStep, err error) (*IngestResult, error) {
		return nil, &IngestionError{Symbol: security.Symbol, Step: step, Err: err}
	}
	result := &IngestResult{}

	sentiment := &entity.OverallSentiment{
		Sentiment: analysis.OverallSentiment.Sentiment,
		Rationale: analysis.OverallSentiment.Rationale,
	}
	if level := analysis.OverallSentiment.ConfidenceLevel; level != "" {
		sentiment.ConfidenceLevel = &level
	}
	created, err := s.repos.Sentiments.WithTx(tx).GetOrCreate(ctx, sentiment)
	if err != nil {
		return fail(StepResolveSentiment, err)
	}
	result.SentimentCreated = created
	if !created {
		log.Debug("Reusing existing overall sentiment", logger.Field("sentiment_id", sentiment.ID))
	}

	metrics := map[string]string(analysis.KeyMetrics)
	if metrics == nil {
		metrics = map[string]string{}
	}
	summary := &entity.SecurityNewsSummary{
		SecurityID:         security.ID,
		ExecutiveSummary:   analysis.ExecutiveSummary,
		Summary:            analysis.Summary,
		PositiveCatalysts:  analysis.PositiveCatalysts,
		RiskFactors:        analysis.RiskFactors,
		OverallSentimentID: sentiment.ID,
		KeyMetrics:         datatypes.NewJSONType(metrics),
		Disclaimer:         analysis.Disclaimer,
	}
	summaryCreated, err := s.repos.Summaries.WithTx(tx).Upsert(ctx, summary)
	if err != nil {
		return fail(StepUpsertSummary, err)
	}
	result.SummaryCreated = summaryCreated

	highlights, err := s.repos.Highlights.WithTx(tx).Replace(ctx, summary.ID, analysis.KeyHighlights)
	if err != nil {
		return fail(StepReplaceHighlights, err)
	}
	summary.KeyHighlights = highlights
	summary.OverallSentiment = sentiment
	result.Summary = summary

	inserted, skipped, err := s.mergeNews(ctx, tx, log, security.ID, analysis.RecentNews)
	if err != nil {
		return fail(StepMergeNews, err)
	}
	result.NewsInserted, result.NewsSkipped = inserted, skipped

	retention := s.repos.Retention.WithTx(tx)
	if !skipCleanup {
		if result.NewsTrimmed, err = retention.TrimExcess(ctx, entity.RetentionKindNewsItem, security.ID, maxNews); err != nil {
			return fail(StepTrimNews, err)
		}
	}

	events := make([]entity.UpcomingEvent, 0, len(analysis.UpcomingEvents))
	now := s.clock.Now()
	for _, ev := range analysis.UpcomingEvents {
		events = append(events, entity.UpcomingEvent{
			SecurityID: security.ID,
			Event:      ev.Event,
			Date:       ev.Date,
			Category:   ev.Category,
			Importance: ev.Importance,
			CreatedAt:  now,
		})
	}
	if err := s.repos.Events.WithTx(tx).CreateBatch(ctx, events); err != nil {
		return fail(StepAppendEvents, err)
	}
	result.EventsInserted = len(events)

	if !skipCleanup {
		if result.EventsTrimmed, err = retention.TrimExcess(ctx, entity.RetentionKindUpcomingEvent, security.ID, maxEvents); err != nil {
			return fail(StepTrimEvents, err)
		}
	}

	return result, nil
}

// mergeNews inserts the items whose URL is not stored yet. Known URLs, including repeats
// within items, are skipped.
func (s *ingestionService) mergeNews(ctx context.Context, tx *gorm.DB, log *logger.Logger, securityID uint, items []dto.NewsItem) (int, int, error) {
	repo := s.repos.NewsItems.WithTx(tx)
	seen := make(map[string]struct{}, len(items))
	today := utils.TruncateToDate(s.clock.Now())
	now := s.clock.Now()

	inserted, skipped := 0, 0
	for _, item := range items {
		url := strings.TrimSpace(item.URL)
		if url == "" {
			log.Debug("Skipping news item without url", logger.StringField("headline", item.Headline))
			skipped++
			continue
		}
		if _, dup := seen[url]; dup {
			skipped++
			continue
		}
		seen[url] = struct{}{}

		exists, err := repo.ExistsByURL(ctx, url)
		if err != nil {
			return inserted, skipped, err
		}
		if exists {
			log.Debug("Skipping already stored news item", logger.StringField("url", url))
			skipped++
			continue
		}

		date, ok := utils.NormalizeDate(item.Date)
		if !ok {
			log.Warn("Unparseable news date, using processing date",
				logger.StringField("url", url),
				logger.StringField("raw_date", item.Date),
			)
			date = today
		}

		created, err := repo.CreateIgnoreConflict(ctx, &entity.NewsItem{
			SecurityID:  securityID,
			Headline:    item.Headline,
			Date:        datatypes.Date(date),
			Source:      item.Source,
			URL:         url,
			Favicon:     item.Favicon,
			ImpactLevel: item.ImpactLevel,
			Summary:     item.Summary,
			CreatedAt:   now,
		})
		if err != nil {
			return inserted, skipped, err
		}
		if !created {
			log.Debug("News item inserted concurrently, skipping", logger.StringField("url", url))
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}
