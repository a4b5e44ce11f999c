package ledger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/helios-erp/helios-erp/internal/platform/kvstore"
)

func newTestService(t *testing.T) (*Service, *kvstore.Memory) {
	t.Helper()
	store := kvstore.NewMemory()
	repo := NewRepository(store, slog.Default())
	return NewService(repo, nil), store
}

func createPanelEntry(t *testing.T, svc *Service, projectID string) ProcurementEntry {
	t.Helper()
	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		VendorID:      "v-1",
		InvoiceNumber: "INV-001",
		InvoiceDate:   "2025-04-01",
		Items: []LineItemInput{
			{ItemName: "540W Panel", Category: "Modules", Quantity: 10, Unit: "pcs", UnitPrice: 12000},
		},
		ProjectID: projectID,
	})
	require.NoError(t, err)
	return entry
}

func TestCreateEntryComputesAmounts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID:      "v-1",
		InvoiceNumber: "INV-007",
		Items: []LineItemInput{
			{ItemName: "540W Panel", Quantity: 10, UnitPrice: 12000},
			{ItemName: "AC Cable", Quantity: 50, UnitPrice: 42.5},
		},
		CGST:         1200,
		SGST:         1200,
		TaxAvailable: true,
	})
	require.NoError(t, err)
	require.Equal(t, 122125.0, entry.BaseAmount)
	require.Equal(t, 124525.0, entry.TotalAmount)
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
}

func TestCreateEntryRejectsDisagreeingAmounts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID:      "v-1",
		InvoiceNumber: "INV-008",
		Items:         []LineItemInput{{ItemName: "Inverter", Quantity: 1, UnitPrice: 45000}},
		BaseAmount:    44000,
	})
	require.ErrorIs(t, err, ErrAmountMismatch)

	// Matching values within half a cent pass.
	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID:      "v-1",
		InvoiceNumber: "INV-009",
		Items:         []LineItemInput{{ItemName: "Inverter", Quantity: 1, UnitPrice: 45000}},
		BaseAmount:    45000,
		TotalAmount:   45000,
	})
	require.NoError(t, err)
	require.Equal(t, 45000.0, entry.TotalAmount)
}

func TestCreateEntryIgnoresTaxWhenUnavailable(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.CreateEntry(context.Background(), CreateEntryInput{
		VendorID:      "v-1",
		InvoiceNumber: "INV-010",
		Items:         []LineItemInput{{ItemName: "Earthing Kit", Quantity: 2, UnitPrice: 1500}},
		CGST:          135,
		SGST:          135,
		TaxAvailable:  false,
	})
	require.NoError(t, err)
	require.Equal(t, 3000.0, entry.TotalAmount)
}

func TestBalanceDueFloorsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	entry := createPanelEntry(t, svc, "")

	require.Equal(t, 120000.0, svc.BalanceDue(ctx, entry.ID))

	_, err := svc.CreateAdvancePayment(ctx, CreatePaymentInput{
		ProcurementEntryID: entry.ID, Amount: 50000, PaidOn: "2025-04-05",
	})
	require.NoError(t, err)
	require.Equal(t, 70000.0, svc.BalanceDue(ctx, entry.ID))

	_, err = svc.CreateAdvancePayment(ctx, CreatePaymentInput{
		ProcurementEntryID: entry.ID, Amount: 90000, PaidOn: "2025-04-20",
	})
	require.NoError(t, err)

	// Overpayment is permitted; the balance never goes negative.
	require.Equal(t, 0.0, svc.BalanceDue(ctx, entry.ID))
}

func TestBalanceDueForUnknownEntryIsZero(t *testing.T) {
	svc, _ := newTestService(t)
	require.Equal(t, 0.0, svc.BalanceDue(context.Background(), "no-such-entry"))
}

func TestPaymentAgainstUnknownEntryIsRecorded(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	payment, err := svc.CreateAdvancePayment(ctx, CreatePaymentInput{
		ProcurementEntryID: "ghost-entry", Amount: 999,
	})
	require.NoError(t, err)

	payments := svc.AdvancePayments(ctx, "ghost-entry")
	require.Len(t, payments, 1)
	require.Equal(t, payment.ID, payments[0].ID)
}

func TestPaymentRequiresPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAdvancePayment(context.Background(), CreatePaymentInput{
		ProcurementEntryID: "e-1", Amount: 0,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestEntriesFilterByProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := createPanelEntry(t, svc, "project-a")
	createPanelEntry(t, svc, "project-b")
	createPanelEntry(t, svc, "")

	all := svc.Entries(ctx, "")
	require.Len(t, all, 3)

	filtered := svc.Entries(ctx, "project-a")
	require.Len(t, filtered, 1)
	require.Equal(t, a.ID, filtered[0].ID)

	// Entries without a project never match a non-empty filter.
	require.Empty(t, svc.Entries(ctx, "project-c"))
}

func TestEntriesKeepInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first := createPanelEntry(t, svc, "")
	second := createPanelEntry(t, svc, "")
	third := createPanelEntry(t, svc, "")

	entries := svc.Entries(ctx, "")
	require.Equal(t, []string{first.ID, second.ID, third.ID},
		[]string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestEntryLookupMiss(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Entry(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerSurvivesCorruptDocuments(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, EntriesKey, []byte("][")))
	require.NoError(t, store.Save(ctx, PaymentsKey, []byte("not json")))

	require.Empty(t, svc.Entries(ctx, ""))
	require.Equal(t, 0.0, svc.BalanceDue(ctx, "anything"))

	// Writes recover the documents.
	entry := createPanelEntry(t, svc, "")
	require.Len(t, svc.Entries(ctx, ""), 1)
	require.Equal(t, 120000.0, svc.BalanceDue(ctx, entry.ID))
}
