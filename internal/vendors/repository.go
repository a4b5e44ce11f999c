package vendors

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helios-erp/helios-erp/internal/platform/kvstore"
)

// Repository persists the vendor list as one JSON document. Every
// load-modify-save sequence runs under the key mutex so concurrent
// requests cannot lose updates.
type Repository struct {
	store  kvstore.Store
	logger *slog.Logger
	mu     sync.Mutex
}

// NewRepository constructs a vendor repository over the given store.
func NewRepository(store kvstore.Store, logger *slog.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// List returns all vendors in insertion order.
func (r *Repository) List(ctx context.Context) []Vendor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return kvstore.LoadList[Vendor](ctx, r.store, r.logger, StorageKey)
}

// Mutate applies fn to the vendor list and persists the result.
func (r *Repository) Mutate(ctx context.Context, fn func([]Vendor) []Vendor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vendors := kvstore.LoadList[Vendor](ctx, r.store, r.logger, StorageKey)
	vendors = fn(vendors)
	kvstore.SaveList(ctx, r.store, r.logger, StorageKey, vendors)
}
