// Package jobs holds background task definitions and the Asynq worker
// plumbing. Jobs only read the ledger and write derived caches; ledger
// mutations happen exclusively in the request path.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockWarmup recomputes and caches the stock summary.
	TaskStockWarmup = "ledger:stock_warmup"
	// TaskIntegrityScan reports ledger records that drifted out of shape.
	TaskIntegrityScan = "ledger:integrity_scan"
)

// StockWarmupPayload configures a stock summary warmup run.
type StockWarmupPayload struct {
	TTLSeconds int `json:"ttl_seconds"`
}

// NewStockWarmupTask constructs an Asynq task for the warmup job.
func NewStockWarmupTask(payload StockWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockWarmup, data), nil
}

// IntegrityScanPayload configures an integrity scan run.
type IntegrityScanPayload struct {
	// AmountTolerance is the largest accepted drift between stored
	// amounts and the recomputed value, in currency units.
	AmountTolerance float64 `json:"amount_tolerance"`
}

// NewIntegrityScanTask constructs an Asynq task for the scan job.
func NewIntegrityScanTask(payload IntegrityScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntegrityScan, data), nil
}
