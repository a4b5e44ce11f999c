package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/hibiken/asynq"
	"golang.org/x/text/cases"

	"github.com/helios-erp/helios-erp/internal/ledger"
)

// IntegrityScanJob reports ledger records that drifted out of shape:
// stored amounts disagreeing with their line items, payments against
// unknown entries, and item names consumed beyond total purchases. The
// ledger deliberately records all of these; the scan only surfaces them.
type IntegrityScanJob struct {
	Ledger *ledger.Service
	Logger *slog.Logger
}

// NewIntegrityScanJob wires dependencies for the scan handler.
func NewIntegrityScanJob(svc *ledger.Service, logger *slog.Logger) *IntegrityScanJob {
	return &IntegrityScanJob{Ledger: svc, Logger: logger}
}

// Handle processes TaskIntegrityScan tasks.
func (j *IntegrityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Ledger == nil {
		return errors.New("integrity scan: handler not configured")
	}
	var payload IntegrityScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tolerance := payload.AmountTolerance
	if tolerance <= 0 {
		tolerance = 0.01
	}
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries := j.Ledger.Entries(ctx, "")
	known := make(map[string]bool, len(entries))
	purchased := make(map[string]float64)
	fold := cases.Fold()

	drifted := 0
	for _, entry := range entries {
		known[entry.ID] = true
		var base float64
		for _, item := range entry.Items {
			base += item.Quantity * item.UnitPrice
			purchased[fold.String(strings.TrimSpace(item.ItemName))] += item.Quantity
		}
		base = math.Round(base*100) / 100
		if math.Abs(entry.BaseAmount-base) > tolerance {
			drifted++
			logger.Warn("entry base amount drift",
				slog.String("entry_id", entry.ID),
				slog.Float64("stored", entry.BaseAmount),
				slog.Float64("computed", base))
		}
		total := base
		if entry.TaxAvailable {
			total = math.Round((base+entry.CGST+entry.SGST+entry.IGST)*100) / 100
		}
		if math.Abs(entry.TotalAmount-total) > tolerance {
			drifted++
			logger.Warn("entry total amount drift",
				slog.String("entry_id", entry.ID),
				slog.Float64("stored", entry.TotalAmount),
				slog.Float64("computed", total))
		}
	}

	orphans := 0
	for _, payment := range j.Ledger.AdvancePayments(ctx, "") {
		if !known[payment.ProcurementEntryID] {
			orphans++
			logger.Warn("payment references unknown entry",
				slog.String("payment_id", payment.ID),
				slog.String("entry_id", payment.ProcurementEntryID))
		}
	}

	consumed := make(map[string]float64)
	for _, record := range j.Ledger.Consumptions(ctx, "") {
		consumed[fold.String(strings.TrimSpace(record.ItemName))] += record.QuantityConsumed
	}
	overConsumed := 0
	for name, qty := range consumed {
		if qty > purchased[name] {
			overConsumed++
			logger.Warn("item consumed beyond purchases",
				slog.String("item", name),
				slog.Float64("consumed", qty),
				slog.Float64("purchased", purchased[name]))
		}
	}

	logger.Info("ledger integrity scan finished",
		slog.Int("entries", len(entries)),
		slog.Int("amount_drifts", drifted),
		slog.Int("orphan_payments", orphans),
		slog.Int("over_consumed_items", overConsumed))
	return nil
}
