package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-market-etl/internal/etl/config"
	"golang-market-etl/internal/etl/repository"
	"golang-market-etl/internal/etl/service"
	"golang-market-etl/internal/etl/source"
	"golang-market-etl/internal/etl/transform"
	"golang-market-etl/pkg/database"
	"golang-market-etl/pkg/logger"
	"golang-market-etl/pkg/redis"
	"golang-market-etl/pkg/telegram"

	"github.com/spf13/cobra"
)

var configPath string

// app holds the dependencies shared by the run and schedule commands.
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *database.DB
	pipeline service.PipelineService
}

func newApp() *app {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger.Info("Starting ETL Service",
		logger.Field("name", cfg.App.Name),
		logger.StringField("driver", cfg.Database.Driver),
		logger.StringField("raw_dir", cfg.ETL.RawDir))

	db, err := database.NewDB(cfg.DatabaseConfig())
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	notifiers := service.Notifiers{service.NewRunHistoryRecorder(repository.NewRunRepository(db.DB))}
	if cfg.Telegram.BotToken != "" {
		client, err := telegram.NewClient(cfg.Telegram)
		if err != nil {
			appLogger.Warn("Telegram notifier disabled", logger.ErrorField(err))
		} else {
			notifiers = append(notifiers, telegram.NewRunNotifier(client))
		}
	}

	loader := repository.NewLoader(db.DB, appLogger,
		repository.WithChunkSize(cfg.ETL.ChunkSize),
		repository.WithProgress(func(entityName string, processed, total int) {
			appLogger.Debug("Load progress",
				logger.StringField("entity", entityName),
				logger.IntField("processed", processed),
				logger.IntField("total", total))
		}))

	pipeline := service.NewPipelineService(
		source.NewCSVSource(cfg.ETL.RawDir),
		transform.NewNormalizer(appLogger, time.Now),
		transform.NewRatioEngine(appLogger),
		loader,
		notifiers,
		appLogger,
	)

	return &app{cfg: cfg, logger: appLogger, db: db, pipeline: pipeline}
}

func (a *app) close() {
	if sqlDB, err := a.db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the pipeline once and exits",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := newApp()
		defer a.close()

		report := a.pipeline.Run(ctx)
		if report.Failed() {
			a.logger.Warn("Pipeline run finished with failed entities")
		}
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs the pipeline on the configured cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := newApp()
		defer a.close()

		var locker service.Locker
		if a.cfg.Redis.Enabled() {
			redisClient, err := redis.NewClient(redis.Config{
				Host:     a.cfg.Redis.Host,
				Port:     a.cfg.Redis.Port,
				Password: a.cfg.Redis.Password,
				DB:       a.cfg.Redis.DB,
				PoolSize: a.cfg.Redis.PoolSize,
			})
			if err != nil {
				a.logger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
			}
			defer redisClient.Close()
			locker = redisClient
		}

		scheduler := service.NewSchedulerService(a.pipeline, locker, service.ScheduleOptions{
			Spec:       a.cfg.ETL.Schedule,
			RunOnStart: a.cfg.ETL.RunOnStart,
			LockTTL:    a.cfg.Redis.LockTTLDuration(),
		}, a.logger)

		if err := scheduler.Start(ctx); err != nil {
			a.logger.Fatal("Scheduler failed", logger.ErrorField(err))
		}
		a.logger.Info("ETL service exiting")
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "etl-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-etl.yaml", "Path to the configuration file")

	rootCmd.AddCommand(runCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing etl-service CLI: %s\n", err)
		os.Exit(1)
	}
}
