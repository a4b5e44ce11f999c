package vendors

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helios-erp/helios-erp/internal/platform/kvstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := NewRepository(kvstore.NewMemory(), slog.Default())
	return NewService(repo, nil)
}

func TestFindOrCreateReusesVendorAndUpdatesAddress(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := svc.FindOrCreate(ctx, "Solar Parts India", "12 MG Road", "27AAACS1234Q1Z5")
	require.NotEmpty(t, first.ID)
	require.Equal(t, "27AAACS1234Q1Z5", first.TaxID)

	second := svc.FindOrCreate(ctx, "Solar Parts India", "45 Nehru Street", "27aaacs1234q1z5")
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "45 Nehru Street", second.Address)

	list := svc.List(ctx)
	require.Len(t, list, 1)
	require.Equal(t, "45 Nehru Street", list[0].Address)
}

func TestFindOrCreateMatchesCaseAndWhitespaceVariants(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := svc.FindOrCreate(ctx, "Green Energy Co", "A", "NA")
	variant := svc.FindOrCreate(ctx, "  green ENERGY co  ", "B", "na")
	require.Equal(t, first.ID, variant.ID)
	require.Len(t, svc.List(ctx), 1)

	// Stored name keeps the first-seen casing.
	require.Equal(t, "Green Energy Co", variant.Name)
}

func TestFindOrCreateDefaultsBlankTaxID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := svc.FindOrCreate(ctx, "Wires & More", "Plot 9", "  ")
	require.Equal(t, "NA", created.TaxID)

	// Blank and explicit "NA" are the same identity.
	again := svc.FindOrCreate(ctx, "Wires & More", "Plot 9", "NA")
	require.Equal(t, created.ID, again.ID)
}

func TestListSurvivesCorruptDocument(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Save(context.Background(), StorageKey, []byte("{not json")))
	svc := NewService(NewRepository(store, slog.Default()), nil)

	require.Empty(t, svc.List(context.Background()))

	// The registry recovers by writing a fresh list.
	v := svc.FindOrCreate(context.Background(), "Fresh Vendor", "X", "")
	require.NotEmpty(t, v.ID)
	require.Len(t, svc.List(context.Background()), 1)
}
