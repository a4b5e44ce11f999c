package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStockAvailabilityAggregatesVariants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Purchases split across entries with case/whitespace name variants.
	_, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID: "v-1", InvoiceNumber: "INV-1",
		Items: []LineItemInput{{ItemName: "540W Panel", Category: "Modules", Quantity: 6, Unit: "pcs", UnitPrice: 12000}},
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, CreateEntryInput{
		VendorID: "v-2", InvoiceNumber: "INV-2",
		Items: []LineItemInput{{ItemName: "  540w panel ", Category: "Panels", Quantity: 4, Unit: "nos", UnitPrice: 11800}},
	})
	require.NoError(t, err)

	require.Equal(t, 10.0, svc.StockAvailability(ctx, "540W PANEL"))

	_, err = svc.CreateMaterialConsumed(ctx, CreateConsumptionInput{
		ProjectID: "p-1", ItemName: "540w panel ", QuantityConsumed: 3, ConsumedBy: "engineer",
	})
	require.NoError(t, err)
	_, err = svc.CreateMaterialConsumed(ctx, CreateConsumptionInput{
		ProjectID: "p-2", ItemName: "540W Panel", QuantityConsumed: 1, ConsumedBy: "engineer",
	})
	require.NoError(t, err)

	// The pool is global across projects.
	require.Equal(t, 6.0, svc.StockAvailability(ctx, "540W Panel"))
}

func TestStockAvailabilityFloorsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID: "v-1", InvoiceNumber: "INV-1",
		Items: []LineItemInput{{ItemName: "DC Cable", Quantity: 100, Unit: "m", UnitPrice: 35}},
	})
	require.NoError(t, err)
	_, err = svc.CreateMaterialConsumed(ctx, CreateConsumptionInput{
		ItemName: "dc cable", QuantityConsumed: 150, ConsumedBy: "engineer",
	})
	require.NoError(t, err)

	require.Equal(t, 0.0, svc.StockAvailability(ctx, "DC Cable"))
	require.Equal(t, 0.0, svc.StockAvailability(ctx, "never purchased"))
}

func TestStockSummaryOneRowPerNormalizedName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID: "v-1", InvoiceNumber: "INV-1",
		Items: []LineItemInput{
			{ItemName: "540W Panel", Category: "Modules", Quantity: 10, Unit: "pcs", UnitPrice: 12000},
			{ItemName: "AC Cable", Category: "Cabling", Quantity: 50, Unit: "m", UnitPrice: 42},
		},
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, CreateEntryInput{
		VendorID: "v-2", InvoiceNumber: "INV-2",
		Items: []LineItemInput{
			// Same normalized name, conflicting metadata: first seen wins.
			{ItemName: "540w PANEL", Category: "Panels", Quantity: 5, Unit: "nos", UnitPrice: 11500},
		},
	})
	require.NoError(t, err)
	_, err = svc.CreateMaterialConsumed(ctx, CreateConsumptionInput{
		ItemName: " 540w panel", QuantityConsumed: 4, ConsumedBy: "engineer",
	})
	require.NoError(t, err)

	summary := svc.StockSummary(ctx)
	require.Len(t, summary, 2)

	// Sorted lexicographically by first-seen display name.
	require.Equal(t, "540W Panel", summary[0].ItemName)
	require.Equal(t, "Modules", summary[0].Category)
	require.Equal(t, "pcs", summary[0].Unit)
	require.Equal(t, 15.0, summary[0].TotalPurchased)
	require.Equal(t, 4.0, summary[0].TotalConsumed)
	require.Equal(t, 11.0, summary[0].Available)

	require.Equal(t, "AC Cable", summary[1].ItemName)
	require.Equal(t, 50.0, summary[1].TotalPurchased)
	require.Equal(t, 0.0, summary[1].TotalConsumed)
}

func TestStockSummaryIgnoresConsumptionOfUnpurchasedItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMaterialConsumed(ctx, CreateConsumptionInput{
		ItemName: "Phantom Item", QuantityConsumed: 5, ConsumedBy: "engineer",
	})
	require.NoError(t, err)

	require.Empty(t, svc.StockSummary(ctx))
}

// Scenario from the booking flow: invoice, advance, then a consumption
// recorded with a case/space variant of the item name.
func TestProcurementScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		VendorID:      "vendor-solar-parts-india",
		InvoiceNumber: "SPI-2025-118",
		InvoiceDate:   "2025-05-02",
		Items:         []LineItemInput{{ItemName: "540W Panel", Category: "Modules", Quantity: 10, Unit: "pcs", UnitPrice: 12000}},
	})
	require.NoError(t, err)
	require.Equal(t, 120000.0, entry.BaseAmount)
	require.Equal(t, 120000.0, entry.TotalAmount)

	_, err = svc.CreateAdvancePayment(ctx, CreatePaymentInput{
		ProcurementEntryID: entry.ID, Amount: 50000, PaidOn: "2025-05-03",
	})
	require.NoError(t, err)
	require.Equal(t, 70000.0, svc.BalanceDue(ctx, entry.ID))

	_, err = svc.CreateMaterialConsumed(ctx, CreateConsumptionInput{
		ProjectID: "site-42", ItemName: "540w panel ", QuantityConsumed: 4, ConsumedBy: "installer",
	})
	require.NoError(t, err)
	require.Equal(t, 6.0, svc.StockAvailability(ctx, "540W Panel"))
}
