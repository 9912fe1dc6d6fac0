package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-stock-newsdigest/internal/api/dto"
	"golang-stock-newsdigest/internal/entity"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const watchlistedCacheKey = "watchlisted"

// NewsDigestService serves stored digests, caching each response until it expires or the
// symbol is invalidated.
type NewsDigestService interface {
	GetWatchlistedSecurities(ctx context.Context) ([]dto.SecurityResponse, error)
	GetNewsSummary(ctx context.Context, symbol string) (*dto.NewsSummaryResponse, error)
	GetRecentNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItemResponse, error)
	GetUpcomingEvents(ctx context.Context, symbol string) ([]dto.UpcomingEventResponse, error)
	InvalidateSymbol(symbol string)
}

// NewNewsDigestService creates a new NewsDigestService.
func NewNewsDigestService(
	securitiesRepo repository.SecuritiesRepository,
	summaryRepo repository.NewsSummaryRepository,
	newsRepo repository.NewsItemRepository,
	eventRepo repository.UpcomingEventRepository,
	ttl, cleanupInterval time.Duration,
	log *logger.Logger,
) NewsDigestService {
	return &newsDigestService{
		securitiesRepo: securitiesRepo,
		summaryRepo:    summaryRepo,
		newsRepo:       newsRepo,
		eventRepo:      eventRepo,
		cache:          cache.New(ttl, cleanupInterval),
		logger:         log,
	}
}

type newsDigestService struct {
	securitiesRepo repository.SecuritiesRepository
	summaryRepo    repository.NewsSummaryRepository
	newsRepo       repository.NewsItemRepository
	eventRepo      repository.UpcomingEventRepository
	cache          *cache.Cache
	logger         *logger.Logger
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func symbolKey(kind, symbol string, extra ...string) string {
	parts := append([]string{kind, symbol}, extra...)
	return strings.Join(parts, ":")
}

// GetWatchlistedSecurities lists securities that at least one user watches.
func (s *newsDigestService) GetWatchlistedSecurities(ctx context.Context) ([]dto.SecurityResponse, error) {
	if cached, ok := s.cache.Get(watchlistedCacheKey); ok {
		return cached.([]dto.SecurityResponse), nil
	}

	securities, err := s.securitiesRepo.FindWatchlisted(ctx)
	if err != nil {
		s.logger.Error("Failed to list watchlisted securities", logger.ErrorField(err))
		return nil, err
	}

	resp := make([]dto.SecurityResponse, 0, len(securities))
	for _, sec := range securities {
		resp = append(resp, dto.SecurityResponse{
			Symbol:       sec.Symbol,
			Name:         sec.Name,
			SecurityType: sec.SecurityType,
			Exchange:     sec.Exchange,
			LogoURL:      sec.LogoURL,
		})
	}
	s.cache.SetDefault(watchlistedCacheKey, resp)
	return resp, nil
}

// GetNewsSummary returns repository.ErrSecurityNotFound or repository.ErrNewsSummaryNotFound
// when there is nothing to show.
func (s *newsDigestService) GetNewsSummary(ctx context.Context, symbol string) (*dto.NewsSummaryResponse, error) {
	symbol = normalizeSymbol(symbol)
	key := symbolKey("summary", symbol)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*dto.NewsSummaryResponse), nil
	}

	security, err := s.securitiesRepo.FindActiveBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	summary, err := s.summaryRepo.FindBySecurityID(ctx, security.ID)
	if err != nil {
		return nil, err
	}

	resp := mapNewsSummary(security, summary)
	s.cache.SetDefault(key, resp)
	return resp, nil
}

// GetRecentNews returns up to limit news items, newest publication date first.
func (s *newsDigestService) GetRecentNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItemResponse, error) {
	symbol = normalizeSymbol(symbol)
	key := symbolKey("news", symbol, fmt.Sprint(limit))
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]dto.NewsItemResponse), nil
	}

	security, err := s.securitiesRepo.FindActiveBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	items, err := s.newsRepo.FindRecentBySecurityID(ctx, security.ID, limit)
	if err != nil {
		s.logger.Error("Failed to load news items", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}

	resp := make([]dto.NewsItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.NewsItemResponse{
			Headline:    item.Headline,
			Date:        time.Time(item.Date).Format("2006-01-02"),
			Source:      item.Source,
			URL:         item.URL,
			Favicon:     item.Favicon,
			ImpactLevel: item.ImpactLevel,
			Summary:     item.Summary,
		})
	}
	s.cache.SetDefault(key, resp)
	return resp, nil
}

// GetUpcomingEvents returns the stored events, most important first.
func (s *newsDigestService) GetUpcomingEvents(ctx context.Context, symbol string) ([]dto.UpcomingEventResponse, error) {
	symbol = normalizeSymbol(symbol)
	key := symbolKey("events", symbol)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]dto.UpcomingEventResponse), nil
	}

	security, err := s.securitiesRepo.FindActiveBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.FindBySecurityID(ctx, security.ID)
	if err != nil {
		s.logger.Error("Failed to load upcoming events", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}

	resp := make([]dto.UpcomingEventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, dto.UpcomingEventResponse{
			Event:      ev.Event,
			Date:       ev.Date,
			Category:   ev.Category,
			Importance: ev.Importance,
		})
	}
	s.cache.SetDefault(key, resp)
	return resp, nil
}

// InvalidateSymbol drops every cached response of symbol and the watchlist listing.
func (s *newsDigestService) InvalidateSymbol(symbol string) {
	symbol = normalizeSymbol(symbol)
	for key := range s.cache.Items() {
		parts := strings.SplitN(key, ":", 3)
		if len(parts) >= 2 && parts[1] == symbol {
			s.cache.Delete(key)
		}
	}
	s.cache.Delete(watchlistedCacheKey)
	s.logger.Debug("Invalidated cached digest", logger.StringField("symbol", symbol))
}

func mapNewsSummary(security *entity.Security, summary *entity.SecurityNewsSummary) *dto.NewsSummaryResponse {
	resp := &dto.NewsSummaryResponse{
		Symbol:            security.Symbol,
		Summary:           summary.Summary,
		ExecutiveSummary:  summary.ExecutiveSummary,
		KeyHighlights:     make([]string, 0, len(summary.KeyHighlights)),
		KeyMetrics:        summary.KeyMetrics.Data(),
		PositiveCatalysts: summary.PositiveCatalysts,
		RiskFactors:       summary.RiskFactors,
		Disclaimer:        summary.Disclaimer,
		UpdatedAt:         summary.UpdatedAt,
	}
	if resp.KeyMetrics == nil {
		resp.KeyMetrics = map[string]string{}
	}
	for _, h := range summary.KeyHighlights {
		resp.KeyHighlights = append(resp.KeyHighlights, h.Highlight)
	}
	if summary.OverallSentiment != nil {
		resp.OverallSentiment = dto.SentimentResponse{
			Sentiment: summary.OverallSentiment.Sentiment,
			Rationale: summary.OverallSentiment.Rationale,
		}
		if summary.OverallSentiment.ConfidenceLevel != nil {
			resp.OverallSentiment.ConfidenceLevel = *summary.OverallSentiment.ConfidenceLevel
		}
	}
	return resp
}
