package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/helios-erp/helios-erp/internal/app"
	"github.com/helios-erp/helios-erp/internal/ledger"
	"github.com/helios-erp/helios-erp/internal/platform/db"
	"github.com/helios-erp/helios-erp/internal/platform/kvstore"
	"github.com/helios-erp/helios-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	var store kvstore.Store
	switch cfg.StoreBackend {
	case app.StorePostgres:
		pool, perr := db.New(ctx, cfg.PGDSN)
		if perr != nil {
			logger.Error("connect postgres", slog.Any("error", perr))
			os.Exit(1)
		}
		defer pool.Close()
		store = kvstore.NewPostgres(pool)
	case app.StoreRedis:
		store, err = kvstore.NewRedis(ctx, redisClient)
		if err != nil {
			logger.Error("init redis store", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		store = kvstore.NewMemory()
		logger.Warn("worker running against in-memory store, jobs see an empty ledger")
	}

	ledgerRepo := ledger.NewRepository(store, logger)
	ledgerService := ledger.NewService(ledgerRepo, nil)

	warmupJob := jobs.NewStockWarmupJob(ledgerService, redisClient, logger, cfg.StockCacheTTL)
	scanJob := jobs.NewIntegrityScanJob(ledgerService, logger)

	warmupTask, err := jobs.NewStockWarmupTask(jobs.StockWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	scanTask, err := jobs.NewIntegrityScanTask(jobs.IntegrityScanPayload{})
	if err != nil {
		logger.Error("build integrity scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStockWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskIntegrityScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/15 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
			{Spec: "30 2 * * *", Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
