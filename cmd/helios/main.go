package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helios-erp/helios-erp/internal/app"
	"github.com/helios-erp/helios-erp/internal/ledger"
	"github.com/helios-erp/helios-erp/internal/platform/cache"
	"github.com/helios-erp/helios-erp/internal/platform/db"
	"github.com/helios-erp/helios-erp/internal/platform/kvstore"
	"github.com/helios-erp/helios-erp/internal/shared"
	"github.com/helios-erp/helios-erp/internal/vendors"
	"github.com/helios-erp/helios-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	var (
		store       kvstore.Store
		auditLogger *shared.AuditLogger
		pool        *pgxpool.Pool
	)
	switch cfg.StoreBackend {
	case app.StorePostgres:
		pool, err = db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		store = kvstore.NewPostgres(pool)
		auditLogger = shared.NewAuditLogger(pool)
	case app.StoreRedis:
		client, cerr := cache.New(ctx, cfg.RedisAddr)
		if cerr != nil {
			logger.Error("connect redis", slog.Any("error", cerr))
			os.Exit(1)
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		store, err = kvstore.NewRedis(ctx, client)
		if err != nil {
			logger.Error("init redis store", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		store = kvstore.NewMemory()
		logger.Warn("using in-memory store, data will not survive restarts")
	}

	vendorRepo := vendors.NewRepository(store, logger)
	vendorService := vendors.NewService(vendorRepo, auditLogger)
	vendorHandler := vendors.NewHandler(logger, vendorService)

	ledgerRepo := ledger.NewRepository(store, logger)
	ledgerService := ledger.NewService(ledgerRepo, auditLogger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Config:        cfg,
		VendorHandler: vendorHandler,
		LedgerHandler: ledgerHandler,
		JobHandler:    jobHandler,
		Middleware:    app.MiddlewareConfig{Logger: logger, Config: cfg},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("store", cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
