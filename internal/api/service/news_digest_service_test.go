package service

import (
	"context"
	"testing"
	"time"

	"golang-stock-newsdigest/internal/entity"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/internal/testutil"
	"golang-stock-newsdigest/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDigestService(db *gorm.DB) NewsDigestService {
	return NewNewsDigestService(
		repository.NewSecuritiesRepository(db),
		repository.NewNewsSummaryRepository(db),
		repository.NewNewsItemRepository(db),
		repository.NewUpcomingEventRepository(db),
		time.Minute, time.Minute,
		logger.NewNop(),
	)
}

func seedDigest(t *testing.T, db *gorm.DB, security *entity.Security, summaryText string) {
	t.Helper()
	ctx := context.Background()

	sentiment := &entity.OverallSentiment{Sentiment: entity.SentimentBullish, Rationale: "strong earnings"}
	_, err := repository.NewSentimentRepository(db).GetOrCreate(ctx, sentiment)
	require.NoError(t, err)

	summary := &entity.SecurityNewsSummary{
		SecurityID:         security.ID,
		Summary:            summaryText,
		OverallSentimentID: sentiment.ID,
		KeyMetrics:         datatypes.NewJSONType(map[string]string{"P/E": "30x"}),
	}
	_, err = repository.NewNewsSummaryRepository(db).Upsert(ctx, summary)
	require.NoError(t, err)
	_, err = repository.NewKeyHighlightRepository(db).Replace(ctx, summary.ID, []string{"first", "second"})
	require.NoError(t, err)
}

func TestNewsDigestService_GetNewsSummary(t *testing.T) {
	db := testutil.NewDB(t)
	security := testutil.CreateSecurity(t, db, "AAPL")
	seedDigest(t, db, security, "v1")
	svc := newTestDigestService(db)
	ctx := context.Background()

	resp, err := svc.GetNewsSummary(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "v1", resp.Summary)
	assert.Equal(t, []string{"first", "second"}, resp.KeyHighlights)
	assert.Equal(t, "Bullish", resp.OverallSentiment.Sentiment)
	assert.Equal(t, "30x", resp.KeyMetrics["P/E"])

	seedDigest(t, db, security, "v2")

	cached, err := svc.GetNewsSummary(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "v1", cached.Summary, "served from cache")

	svc.InvalidateSymbol("aapl")

	fresh, err := svc.GetNewsSummary(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "v2", fresh.Summary)
}

func TestNewsDigestService_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateSecurity(t, db, "MSFT")
	svc := newTestDigestService(db)
	ctx := context.Background()

	_, err := svc.GetNewsSummary(ctx, "NOPE")
	assert.ErrorIs(t, err, repository.ErrSecurityNotFound)

	_, err = svc.GetNewsSummary(ctx, "MSFT")
	assert.ErrorIs(t, err, repository.ErrNewsSummaryNotFound)
}

func TestNewsDigestService_NewsAndEvents(t *testing.T) {
	db := testutil.NewDB(t)
	security := testutil.CreateSecurity(t, db, "AAPL")
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, url := range []string{"u1", "u2", "u3"} {
		require.NoError(t, db.Create(&entity.NewsItem{
			SecurityID: security.ID, Headline: url, URL: url, ImpactLevel: entity.LevelLow,
			Date: datatypes.Date(base.AddDate(0, 0, i)),
		}).Error)
	}
	require.NoError(t, db.Create(&[]entity.UpcomingEvent{
		{SecurityID: security.ID, Event: "AGM", Date: "May 2025", Category: entity.EventCategoryCorporateActions, Importance: entity.LevelLow},
		{SecurityID: security.ID, Event: "Earnings", Date: "Q2 2025", Category: entity.EventCategoryEarnings, Importance: entity.LevelHigh},
	}).Error)

	svc := newTestDigestService(db)

	news, err := svc.GetRecentNews(ctx, "AAPL", 2)
	require.NoError(t, err)
	require.Len(t, news, 2)
	assert.Equal(t, "u3", news[0].URL)
	assert.Equal(t, "2025-03-03", news[0].Date)

	events, err := svc.GetUpcomingEvents(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Earnings", events[0].Event)
	assert.Equal(t, "Q2 2025", events[0].Date)
}

func TestNewsDigestService_GetWatchlistedSecurities(t *testing.T) {
	db := testutil.NewDB(t)
	aapl := testutil.CreateSecurity(t, db, "AAPL")
	testutil.CreateSecurity(t, db, "MSFT")
	testutil.Watch(t, db, "user-1", aapl)

	svc := newTestDigestService(db)
	securities, err := svc.GetWatchlistedSecurities(context.Background())
	require.NoError(t, err)
	require.Len(t, securities, 1)
	assert.Equal(t, "AAPL", securities[0].Symbol)
}
