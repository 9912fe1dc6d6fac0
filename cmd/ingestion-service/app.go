package main

import (
	"context"
	"net/http"

	"golang-stock-newsdigest/internal/ingestion/config"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/internal/ingestion/service"
	"golang-stock-newsdigest/pkg/common"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/postgres"
	"golang-stock-newsdigest/pkg/redis"
	"golang-stock-newsdigest/pkg/telegram"
	"golang-stock-newsdigest/pkg/utils"

	"google.golang.org/genai"
)

// application holds the wired services shared by every subcommand.
type application struct {
	cfg      *config.Config
	logger   *logger.Logger
	batchSvc service.BatchService
	closers  []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *application) openDatabase() *postgres.DB {
	cfg := a.cfg

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		a.logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}
	return db
}

// newHistoryApplication wires only what reading run history needs.
func newHistoryApplication(cfg *config.Config, appLogger *logger.Logger) *application {
	app := &application{cfg: cfg, logger: appLogger}
	db := app.openDatabase()
	app.batchSvc = service.NewBatchService(service.BatchDependencies{
		Runs: repository.NewIngestionRunRepository(db.DB),
	}, cfg.Ingestion.Delay, utils.SystemClock, appLogger)
	return app
}

func newApplication(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) *application {
	app := &application{cfg: cfg, logger: appLogger}

	db := app.openDatabase()

	// Initialize Redis
	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	app.closers = append(app.closers, func() { _ = redisClient.Close() })

	clock := utils.SystemClock

	// Initialize AI provider
	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}
	aiRepo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient, clock)
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
	}

	// Initialize repositories
	ingestionSvc := service.NewIngestionService(db.DB, service.IngestionRepositories{
		Securities: repository.NewSecuritiesRepository(db.DB),
		Sentiments: repository.NewSentimentRepository(db.DB),
		Summaries:  repository.NewNewsSummaryRepository(db.DB),
		Highlights: repository.NewKeyHighlightRepository(db.DB),
		NewsItems:  repository.NewNewsItemRepository(db.DB),
		Events:     repository.NewUpcomingEventRepository(db.DB),
		Retention:  repository.NewRetentionRepository(db.DB),
	}, service.RetentionDefaults{
		MaxNewsItems: cfg.Ingestion.MaxNewsItems,
		MaxEvents:    cfg.Ingestion.MaxEvents,
	}, clock, appLogger)

	deps := service.BatchDependencies{
		Ingestion: ingestionSvc,
		AI:        aiRepo,
		Runs:      repository.NewIngestionRunRepository(db.DB),
		Lock:      repository.NewRedisBatchLockRepository(redisClient.Client, common.RedisKeyBatchLock, cfg.Ingestion.LockTTL),
		Events:    repository.NewRedisDigestEventRepository(redisClient.Client, cfg.Redis.StreamMaxLen),
	}
	if cfg.Ingestion.ResolveFavicons {
		deps.Favicons = repository.NewFaviconRepository(http.DefaultClient, cfg.Ingestion.FaviconCacheTTL, appLogger)
	}
	if cfg.Ingestion.NotifyTelegram && cfg.Telegram.BotToken != "" {
		notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
		deps.Notifier = notifier
	}

	app.batchSvc = service.NewBatchService(deps, cfg.Ingestion.Delay, clock, appLogger)
	return app
}
