package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang-stock-newsdigest/internal/entity"
	"golang-stock-newsdigest/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newNewsItem(securityID uint, url string, createdAt time.Time) *entity.NewsItem {
	return &entity.NewsItem{
		SecurityID:  securityID,
		Headline:    "headline " + url,
		Date:        datatypes.Date(createdAt),
		Source:      "Reuters",
		URL:         url,
		ImpactLevel: entity.LevelMedium,
		CreatedAt:   createdAt,
	}
}

func TestSecuritiesRepository_FindWatchlisted(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	aapl := testutil.CreateSecurity(t, db, "AAPL")
	msft := testutil.CreateSecurity(t, db, "MSFT")
	testutil.CreateSecurity(t, db, "TSLA")
	delisted := testutil.CreateSecurity(t, db, "OLD")
	require.NoError(t, db.Model(delisted).Update("is_active", false).Error)

	testutil.Watch(t, db, "user-1", msft)
	testutil.Watch(t, db, "user-1", aapl)
	testutil.Watch(t, db, "user-2", aapl)
	testutil.Watch(t, db, "user-2", delisted)

	repo := NewSecuritiesRepository(db)
	securities, err := repo.FindWatchlisted(ctx)
	require.NoError(t, err)

	require.Len(t, securities, 2)
	assert.Equal(t, "AAPL", securities[0].Symbol)
	assert.Equal(t, "MSFT", securities[1].Symbol)
}

func TestSecuritiesRepository_FindActiveBySymbol(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	testutil.CreateSecurity(t, db, "AAPL")

	repo := NewSecuritiesRepository(db)

	security, err := repo.FindActiveBySymbol(ctx, " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", security.Symbol)

	_, err = repo.FindActiveBySymbol(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrSecurityNotFound)
}

func TestSentimentRepository_GetOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewSentimentRepository(db)

	high := entity.LevelHigh
	first := &entity.OverallSentiment{Sentiment: entity.SentimentBullish, Rationale: "strong earnings", ConfidenceLevel: &high}
	created, err := repo.GetOrCreate(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second := &entity.OverallSentiment{Sentiment: entity.SentimentBullish, Rationale: "strong earnings"}
	created, err = repo.GetOrCreate(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.ConfidenceLevel)
	assert.Equal(t, entity.LevelHigh, *second.ConfidenceLevel)

	other := &entity.OverallSentiment{Sentiment: entity.SentimentBearish, Rationale: "strong earnings"}
	created, err = repo.GetOrCreate(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)

	var count int64
	require.NoError(t, db.Model(&entity.OverallSentiment{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestNewsSummaryRepository_Upsert(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	security := testutil.CreateSecurity(t, db, "AAPL")

	sentiment := &entity.OverallSentiment{Sentiment: entity.SentimentNeutral, Rationale: "mixed"}
	_, err := NewSentimentRepository(db).GetOrCreate(ctx, sentiment)
	require.NoError(t, err)

	repo := NewNewsSummaryRepository(db)

	summary := &entity.SecurityNewsSummary{
		SecurityID:         security.ID,
		Summary:            "first",
		OverallSentimentID: sentiment.ID,
		KeyMetrics:         datatypes.NewJSONType(map[string]string{"P/E": "30x"}),
	}
	created, err := repo.Upsert(ctx, summary)
	require.NoError(t, err)
	assert.True(t, created)
	firstID := summary.ID

	again := &entity.SecurityNewsSummary{
		SecurityID:         security.ID,
		Summary:            "second",
		Disclaimer:         "not advice",
		OverallSentimentID: sentiment.ID,
		KeyMetrics:         datatypes.NewJSONType(map[string]string{"P/E": "31x"}),
	}
	created, err = repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, again.ID)

	stored, err := repo.FindBySecurityID(ctx, security.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", stored.Summary)
	assert.Equal(t, "not advice", stored.Disclaimer)
	assert.Equal(t, "31x", stored.KeyMetrics.Data()["P/E"])
	require.NotNil(t, stored.OverallSentiment)
	assert.Equal(t, "mixed", stored.OverallSentiment.Rationale)

	var count int64
	require.NoError(t, db.Model(&entity.SecurityNewsSummary{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = repo.FindBySecurityID(ctx, security.ID+100)
	assert.ErrorIs(t, err, ErrNewsSummaryNotFound)
}

func TestKeyHighlightRepository_Replace(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewKeyHighlightRepository(db)

	_, err := repo.Replace(ctx, 7, []string{"a", "b", "c"})
	require.NoError(t, err)

	rows, err := repo.Replace(ctx, 7, []string{"y", "x"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var stored []entity.KeyHighlight
	require.NoError(t, db.Where("security_news_summary_id = ?", 7).Order("position").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "y", stored[0].Highlight)
	assert.Equal(t, 0, stored[0].Position)
	assert.Equal(t, "x", stored[1].Highlight)
	assert.Equal(t, 1, stored[1].Position)

	rows, err = repo.Replace(ctx, 7, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var count int64
	require.NoError(t, db.Model(&entity.KeyHighlight{}).Where("security_news_summary_id = ?", 7).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewsItemRepository_CreateIgnoreConflict(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	aapl := testutil.CreateSecurity(t, db, "AAPL")
	msft := testutil.CreateSecurity(t, db, "MSFT")
	repo := NewNewsItemRepository(db)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := repo.CreateIgnoreConflict(ctx, newNewsItem(aapl.ID, "https://example.com/a", now))
	require.NoError(t, err)
	assert.True(t, created)

	// the URL is unique across securities
	created, err = repo.CreateIgnoreConflict(ctx, newNewsItem(msft.ID, "https://example.com/a", now))
	require.NoError(t, err)
	assert.False(t, created)

	exists, err := repo.ExistsByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByURL(ctx, "https://example.com/b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewsItemRepository_FindRecentBySecurityID(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	security := testutil.CreateSecurity(t, db, "AAPL")
	repo := NewNewsItemRepository(db)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := repo.CreateIgnoreConflict(ctx, newNewsItem(security.ID, fmt.Sprintf("u%d", i), base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	items, err := repo.FindRecentBySecurityID(ctx, security.ID, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "u3", items[0].URL)
	assert.Equal(t, "u2", items[1].URL)
}

func TestUpcomingEventRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	security := testutil.CreateSecurity(t, db, "AAPL")
	repo := NewUpcomingEventRepository(db)

	require.NoError(t, repo.CreateBatch(ctx, nil))
	require.NoError(t, repo.CreateBatch(ctx, []entity.UpcomingEvent{
		{SecurityID: security.ID, Event: "Conference", Date: "March 2025", Category: entity.EventCategoryIndustry, Importance: entity.LevelLow},
		{SecurityID: security.ID, Event: "Earnings call", Date: "Q1 2025", Category: entity.EventCategoryEarnings, Importance: entity.LevelHigh},
	}))

	events, err := repo.FindBySecurityID(ctx, security.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Earnings call", events[0].Event)
	assert.Equal(t, "Q1 2025", events[0].Date)
}

func TestRetentionRepository_TrimExcess(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	security := testutil.CreateSecurity(t, db, "AAPL")
	other := testutil.CreateSecurity(t, db, "MSFT")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// insertion order differs from publication order; trimming follows insertion time
	for i := 0; i < 8; i++ {
		item := newNewsItem(security.ID, fmt.Sprintf("aapl-%d", i), base.Add(time.Duration(i)*time.Hour))
		item.Date = datatypes.Date(base.AddDate(0, 0, 10-i))
		require.NoError(t, db.Create(item).Error)
	}
	require.NoError(t, db.Create(newNewsItem(other.ID, "msft-0", base)).Error)

	repo := NewRetentionRepository(db)

	deleted, err := repo.TrimExcess(ctx, entity.RetentionKindNewsItem, security.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	var urls []string
	require.NoError(t, db.Model(&entity.NewsItem{}).Where("security_id = ?", security.ID).Order("created_at").Pluck("url", &urls).Error)
	assert.Equal(t, []string{"aapl-3", "aapl-4", "aapl-5", "aapl-6", "aapl-7"}, urls)

	deleted, err = repo.TrimExcess(ctx, entity.RetentionKindNewsItem, security.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = repo.TrimExcess(ctx, entity.RetentionKindNewsItem, security.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)

	var remaining int64
	require.NoError(t, db.Model(&entity.NewsItem{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining, "other securities are untouched")

	_, err = repo.TrimExcess(ctx, entity.RetentionKind("unknown"), security.ID, 1)
	assert.Error(t, err)
}

func TestIngestionRunRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewIngestionRunRepository(db)
	start := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)

	first := &entity.IngestionRun{Trigger: entity.RunTriggerCron, Status: entity.RunStatusRunning, StartedAt: start}
	require.NoError(t, repo.Create(ctx, first))
	second := &entity.IngestionRun{Trigger: entity.RunTriggerManual, Status: entity.RunStatusRunning, StartedAt: start.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, second))

	first.Status = entity.RunStatusCompleted
	first.Processed = 3
	require.NoError(t, repo.Update(ctx, first))

	runs, err := repo.FindLatest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, entity.RunStatusCompleted, runs[1].Status)
	assert.Equal(t, 3, runs[1].Processed)
}
