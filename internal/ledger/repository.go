package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helios-erp/helios-erp/internal/platform/kvstore"
)

// Repository persists the three ledger collections as independent JSON
// documents. A mutex per storage key serializes every load-modify-save
// sequence, preserving the single-writer semantics the original relied on.
type Repository struct {
	store  kvstore.Store
	logger *slog.Logger

	muEntries  sync.Mutex
	muPayments sync.Mutex
	muConsumed sync.Mutex
}

// NewRepository constructs a ledger repository over the given store.
func NewRepository(store kvstore.Store, logger *slog.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Entries returns all procurement entries in insertion order.
func (r *Repository) Entries(ctx context.Context) []ProcurementEntry {
	r.muEntries.Lock()
	defer r.muEntries.Unlock()
	return kvstore.LoadList[ProcurementEntry](ctx, r.store, r.logger, EntriesKey)
}

// AppendEntry persists a new procurement entry.
func (r *Repository) AppendEntry(ctx context.Context, entry ProcurementEntry) {
	r.muEntries.Lock()
	defer r.muEntries.Unlock()
	entries := kvstore.LoadList[ProcurementEntry](ctx, r.store, r.logger, EntriesKey)
	kvstore.SaveList(ctx, r.store, r.logger, EntriesKey, append(entries, entry))
}

// Payments returns all advance payments in insertion order.
func (r *Repository) Payments(ctx context.Context) []AdvancePayment {
	r.muPayments.Lock()
	defer r.muPayments.Unlock()
	return kvstore.LoadList[AdvancePayment](ctx, r.store, r.logger, PaymentsKey)
}

// AppendPayment persists a new advance payment.
func (r *Repository) AppendPayment(ctx context.Context, payment AdvancePayment) {
	r.muPayments.Lock()
	defer r.muPayments.Unlock()
	payments := kvstore.LoadList[AdvancePayment](ctx, r.store, r.logger, PaymentsKey)
	kvstore.SaveList(ctx, r.store, r.logger, PaymentsKey, append(payments, payment))
}

// Consumptions returns all material consumption records in insertion order.
func (r *Repository) Consumptions(ctx context.Context) []MaterialConsumed {
	r.muConsumed.Lock()
	defer r.muConsumed.Unlock()
	return kvstore.LoadList[MaterialConsumed](ctx, r.store, r.logger, ConsumedKey)
}

// AppendConsumption persists a new consumption record.
func (r *Repository) AppendConsumption(ctx context.Context, record MaterialConsumed) {
	r.muConsumed.Lock()
	defer r.muConsumed.Unlock()
	records := kvstore.LoadList[MaterialConsumed](ctx, r.store, r.logger, ConsumedKey)
	kvstore.SaveList(ctx, r.store, r.logger, ConsumedKey, append(records, record))
}
