package testutil

import (
	"fmt"
	"strings"
	"testing"

	"golang-stock-newsdigest/internal/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database migrated with every entity. The pool is
// limited to one connection, so code running inside a transaction must only use the tx handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Security{},
		&entity.WatchlistItem{},
		&entity.OverallSentiment{},
		&entity.SecurityNewsSummary{},
		&entity.KeyHighlight{},
		&entity.NewsItem{},
		&entity.UpcomingEvent{},
		&entity.IngestionRun{},
	))
	return db
}

// CreateSecurity inserts an active security with the given symbol.
func CreateSecurity(t *testing.T, db *gorm.DB, symbol string) *entity.Security {
	t.Helper()

	security := &entity.Security{
		Symbol:       symbol,
		Name:         symbol + " Inc.",
		SecurityType: "STOCK",
		Exchange:     "NASDAQ",
		IsActive:     true,
	}
	require.NoError(t, db.Create(security).Error)
	return security
}

// Watch adds security to userID's watchlist.
func Watch(t *testing.T, db *gorm.DB, userID string, security *entity.Security) {
	t.Helper()
	require.NoError(t, db.Create(&entity.WatchlistItem{UserID: userID, SecurityID: security.ID}).Error)
}
