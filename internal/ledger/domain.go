// Package ledger implements the procurement ledger: vendor invoices with
// line items and tax breakdown, advance payments against them, material
// consumption records, and the derived stock reconciliation view.
package ledger

import (
	"errors"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Fixed document keys. The persisted layout is four independent JSON
// arrays of records so exported data dumps stay interchangeable.
const (
	EntriesKey  = "procurement_entries"
	PaymentsKey = "advance_payments"
	ConsumedKey = "material_consumed"
)

// LineItem is one purchased position embedded in a procurement entry.
type LineItem struct {
	ItemName  string  `json:"itemName"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
}

// ProcurementEntry is a vendor invoice. Amounts are stored denormalized;
// CreateEntry computes them from the line items at write time and rejects
// caller-supplied values that disagree. Entries are immutable once created.
type ProcurementEntry struct {
	ID              string     `json:"id"`
	VendorID        string     `json:"vendorId"`
	InvoiceNumber   string     `json:"invoiceNumber"`
	InvoiceDate     string     `json:"invoiceDate"`
	InvoiceImageRef string     `json:"invoiceImageRef,omitempty"`
	Items           []LineItem `json:"items"`
	BaseAmount      float64    `json:"baseAmount"`
	CGST            float64    `json:"cgst"`
	SGST            float64    `json:"sgst"`
	IGST            float64    `json:"igst"`
	TaxAvailable    bool       `json:"taxAvailable"`
	TotalAmount     float64    `json:"totalAmount"`
	ProjectID       string     `json:"projectId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// AdvancePayment is a partial payment recorded against one entry. The
// ledger never validates the payment sum against the invoice total;
// overpayment is permitted and balance due floors at zero.
type AdvancePayment struct {
	ID                 string    `json:"id"`
	ProcurementEntryID string    `json:"procurementEntryId"`
	Amount             float64   `json:"amount"`
	PaidOn             string    `json:"paidOn"`
	Remarks            string    `json:"remarks,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// MaterialConsumed is an append-only withdrawal of stock for installation
// use. ProcurementEntryID is a best-effort reference to one contributing
// invoice; stock matching is by normalized item name, not by entry id.
type MaterialConsumed struct {
	ID                 string    `json:"id"`
	ProjectID          string    `json:"projectId,omitempty"`
	ProcurementEntryID string    `json:"procurementEntryId,omitempty"`
	ItemName           string    `json:"itemName"`
	Category           string    `json:"category"`
	QuantityConsumed   float64   `json:"quantityConsumed"`
	Unit               string    `json:"unit"`
	ConsumedBy         string    `json:"consumedBy"`
	ConsumedAt         time.Time `json:"consumedAt"`
}

// StockSummaryItem is one row of the derived stock view, aggregated per
// normalized item name across all entries and consumption records.
type StockSummaryItem struct {
	ItemName       string  `json:"itemName"`
	Category       string  `json:"category"`
	Unit           string  `json:"unit"`
	TotalPurchased float64 `json:"totalPurchased"`
	TotalConsumed  float64 `json:"totalConsumed"`
	Available      float64 `json:"available"`
}

var (
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("ledger: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("ledger: invalid input")
	// ErrAmountMismatch indicates caller-supplied amounts disagree with
	// the line items.
	ErrAmountMismatch = errors.New("ledger: supplied amount disagrees with line items")
)

// normalizeItemName folds an item name for matching. Stock is aggregated
// per case-insensitive, whitespace-trimmed name.
func normalizeItemName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
