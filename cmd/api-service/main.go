package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-newsdigest/internal/api/config"
	"golang-stock-newsdigest/internal/api/delivery/consumer"
	delivery "golang-stock-newsdigest/internal/api/delivery/http"
	_ "golang-stock-newsdigest/internal/api/docs"
	"golang-stock-newsdigest/internal/api/service"
	"golang-stock-newsdigest/internal/ingestion/repository"
	"golang-stock-newsdigest/pkg/common"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/postgres"
	"golang-stock-newsdigest/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the news digest API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting News Digest API", logger.Field("name", cfg.App.Name))

	// Initialize database
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
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

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
	defer redisClient.Close()

	hostname, _ := os.Hostname()
	streamGroup := common.InstanceStreamGroup(hostname)
	if err := redisClient.EnsureGroup(ctx, common.RedisStreamNewsDigestUpdated, streamGroup); err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}

	// Initialize services
	digestSvc := service.NewNewsDigestService(
		repository.NewSecuritiesRepository(db.DB),
		repository.NewNewsSummaryRepository(db.DB),
		repository.NewNewsItemRepository(db.DB),
		repository.NewUpcomingEventRepository(db.DB),
		cfg.Cache.TTL,
		cfg.Cache.CleanupInterval,
		appLogger,
	)

	digestConsumer := consumer.NewDigestUpdateConsumer(redisClient.Client, digestSvc, streamGroup, common.RedisStreamConsumer, cfg.Consumer.Block, cfg.Consumer.Count, appLogger)
	digestConsumer.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	digestHandler := delivery.NewNewsDigestHandler(digestSvc, cfg.Cache.DefaultNewsLimit, cfg.Cache.MaxNewsLimit, appLogger)
	apiV1 := e.Group("/api/v1")
	digestHandler.RegisterRoutes(apiV1.Group("/securities"))

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	digestConsumer.Stop()

	appLogger.Info("Server exiting")
}

// @title News Digest API
// @version 1.0
// @description Read access to AI-generated security news digests.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
