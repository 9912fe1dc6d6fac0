package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-newsdigest/internal/ingestion/config"
	"golang-stock-newsdigest/internal/ingestion/delivery/scheduler"
	"golang-stock-newsdigest/internal/ingestion/service"
	"golang-stock-newsdigest/pkg/logger"
	"golang-stock-newsdigest/pkg/utils"

	"github.com/spf13/cobra"
)

var configPath string

var runFlags struct {
	symbol        string
	dryRun        bool
	delay         time.Duration
	maxSecurities int
	maxNewsItems  int
	maxEvents     int
	noCleanup     bool
}

func loadConfigAndLogger() (*config.Config, *logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the news digest batch on the configured cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, appLogger := loadConfigAndLogger()
		defer func() { _ = appLogger.Sync() }()
		appLogger.Info("Starting Ingestion Service", logger.Field("name", cfg.App.Name))

		app := newApplication(ctx, cfg, appLogger)
		defer app.Close()

		sched, err := scheduler.NewScheduler(app.batchSvc, cfg.Ingestion.CronExpression, service.BatchOptions{
			MaxSecurities: cfg.Ingestion.MaxSecurities,
			SkipCleanup:   cfg.Ingestion.SkipCleanup,
		}, utils.SystemClock, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
		}

		done := make(chan struct{})
		utils.GoSafe(appLogger, func() {
			defer close(done)
			sched.Start(ctx)
		})

		<-ctx.Done()
		appLogger.Info("Shutting down ingestion service...")
		<-done
		appLogger.Info("Ingestion service exiting")
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Refreshes news digests once and prints the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, appLogger := loadConfigAndLogger()
		defer func() { _ = appLogger.Sync() }()

		app := newApplication(ctx, cfg, appLogger)
		defer app.Close()

		opts := service.BatchOptions{
			Symbol:        runFlags.symbol,
			DryRun:        runFlags.dryRun,
			MaxSecurities: runFlags.maxSecurities,
			SkipCleanup:   runFlags.noCleanup || cfg.Ingestion.SkipCleanup,
		}
		if runFlags.maxSecurities == 0 {
			opts.MaxSecurities = cfg.Ingestion.MaxSecurities
		}
		if cmd.Flags().Changed("delay") {
			opts.Delay = &runFlags.delay
		}
		if cmd.Flags().Changed("max-news-items") {
			opts.MaxNewsItems = &runFlags.maxNewsItems
		}
		if cmd.Flags().Changed("max-events") {
			opts.MaxEvents = &runFlags.maxEvents
		}

		report, err := app.batchSvc.Run(ctx, opts)
		if report != nil {
			out, _ := json.MarshalIndent(report, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		}
		if err != nil {
			return err
		}
		if report.Failed > 0 {
			return errors.New("some securities failed to refresh")
		}
		return nil
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists the most recent batch runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, appLogger := loadConfigAndLogger()
		defer func() { _ = appLogger.Sync() }()

		app := newHistoryApplication(cfg, appLogger)
		defer app.Close()

		runs, err := app.batchSvc.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		for _, run := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "#%d\t%s\t%s\tprocessed=%d\tfailed=%d\tdry_run=%t\t%s\n",
				run.ID, run.StartedAt.Format(time.RFC3339), run.Status, run.Processed, run.Failed, run.DryRun, run.Trigger)
		}
		return nil
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "ingestion-service", SilenceUsage: true}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-ingestion.yaml", "Path to the configuration file")

	runCmd.Flags().StringVar(&runFlags.symbol, "symbol", "", "Refresh only this symbol")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "Fetch and validate analyses without saving")
	runCmd.Flags().DurationVar(&runFlags.delay, "delay", 2*time.Second, "Pause between securities")
	runCmd.Flags().IntVar(&runFlags.maxSecurities, "max-securities", 0, "Refresh at most this many securities")
	runCmd.Flags().IntVar(&runFlags.maxNewsItems, "max-news-items", 0, "News items kept per security")
	runCmd.Flags().IntVar(&runFlags.maxEvents, "max-events", 0, "Upcoming events kept per security")
	runCmd.Flags().BoolVar(&runFlags.noCleanup, "no-cleanup", false, "Keep all news items and events")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")

	rootCmd.AddCommand(serveCmd, runCmd, historyCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ingestion-service CLI: %s\n", err)
		os.Exit(1)
	}
}
