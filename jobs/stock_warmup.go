package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/helios-erp/helios-erp/internal/ledger"
)

// StockSummaryCacheKey is where the warmup job publishes the summary JSON.
const StockSummaryCacheKey = "ledger:stock_summary"

// StockWarmupJob recomputes the stock summary and caches the rendered
// JSON document so dashboard reads are served warm.
type StockWarmupJob struct {
	Ledger *ledger.Service
	Cache  *redis.Client
	Logger *slog.Logger
	TTL    time.Duration
}

// NewStockWarmupJob wires dependencies for the warmup handler.
func NewStockWarmupJob(svc *ledger.Service, cache *redis.Client, logger *slog.Logger, ttl time.Duration) *StockWarmupJob {
	return &StockWarmupJob{Ledger: svc, Cache: cache, Logger: logger, TTL: ttl}
}

// Handle processes TaskStockWarmup tasks.
func (j *StockWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Ledger == nil || j.Cache == nil {
		return errors.New("stock warmup: handler not configured")
	}
	var payload StockWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	ttl := j.TTL
	if payload.TTLSeconds > 0 {
		ttl = time.Duration(payload.TTLSeconds) * time.Second
	}

	summary := j.Ledger.StockSummary(ctx)
	doc, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := j.Cache.Set(ctx, StockSummaryCacheKey, doc, ttl).Err(); err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("stock summary warmed",
			slog.Int("items", len(summary)),
			slog.Duration("ttl", ttl))
	}
	return nil
}
