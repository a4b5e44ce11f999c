package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/helios-erp/helios-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	Entries(ctx context.Context) []ProcurementEntry
	AppendEntry(ctx context.Context, entry ProcurementEntry)
	Payments(ctx context.Context) []AdvancePayment
	AppendPayment(ctx context.Context, payment AdvancePayment)
	Consumptions(ctx context.Context) []MaterialConsumed
	AppendConsumption(ctx context.Context, record MaterialConsumed)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service implements the procurement ledger contract.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the ledger service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// LineItemInput describes one purchased position.
type LineItemInput struct {
	ItemName  string
	Category  string
	Quantity  float64
	Unit      string
	UnitPrice float64
}

// CreateEntryInput describes an invoice to record. BaseAmount and
// TotalAmount may be left zero to have the ledger compute them; non-zero
// values are cross-checked against the line items.
type CreateEntryInput struct {
	VendorID        string
	InvoiceNumber   string
	InvoiceDate     string
	InvoiceImageRef string
	Items           []LineItemInput
	CGST            float64
	SGST            float64
	IGST            float64
	TaxAvailable    bool
	BaseAmount      float64
	TotalAmount     float64
	ProjectID       string
}

// CreateEntry assigns a fresh id and timestamp and persists the invoice.
// The stored baseAmount is always the sum of quantity*unitPrice over the
// items; totalAmount adds CGST+SGST+IGST when tax is available.
func (s *Service) CreateEntry(ctx context.Context, input CreateEntryInput) (ProcurementEntry, error) {
	var base float64
	items := make([]LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		base += item.Quantity * item.UnitPrice
		items = append(items, LineItem{
			ItemName:  item.ItemName,
			Category:  item.Category,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
		})
	}
	base = round2(base)
	if input.BaseAmount != 0 && math.Abs(input.BaseAmount-base) > 0.005 {
		return ProcurementEntry{}, fmt.Errorf("%w: base %.2f vs items %.2f", ErrAmountMismatch, input.BaseAmount, base)
	}
	total := base
	if input.TaxAvailable {
		total = round2(base + input.CGST + input.SGST + input.IGST)
	}
	if input.TotalAmount != 0 && math.Abs(input.TotalAmount-total) > 0.005 {
		return ProcurementEntry{}, fmt.Errorf("%w: total %.2f vs computed %.2f", ErrAmountMismatch, input.TotalAmount, total)
	}

	entry := ProcurementEntry{
		ID:              uuid.NewString(),
		VendorID:        input.VendorID,
		InvoiceNumber:   input.InvoiceNumber,
		InvoiceDate:     input.InvoiceDate,
		InvoiceImageRef: input.InvoiceImageRef,
		Items:           items,
		BaseAmount:      base,
		CGST:            input.CGST,
		SGST:            input.SGST,
		IGST:            input.IGST,
		TaxAvailable:    input.TaxAvailable,
		TotalAmount:     total,
		ProjectID:       input.ProjectID,
		CreatedAt:       time.Now().UTC(),
	}
	s.repo.AppendEntry(ctx, entry)
	s.recordAudit(ctx, "ENTRY_CREATE", "procurement_entry", entry.ID, map[string]any{
		"invoice_number": entry.InvoiceNumber,
		"vendor_id":      entry.VendorID,
		"total":          entry.TotalAmount,
	})
	return entry, nil
}

// Entries returns all entries in insertion order, optionally filtered by
// exact project id. Entries without a project never match a non-empty
// filter.
func (s *Service) Entries(ctx context.Context, projectID string) []ProcurementEntry {
	entries := s.repo.Entries(ctx)
	if projectID == "" {
		return entries
	}
	filtered := make([]ProcurementEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ProjectID != "" && entry.ProjectID == projectID {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// Entry is a point lookup; a miss surfaces as ErrNotFound, never a panic.
func (s *Service) Entry(ctx context.Context, id string) (ProcurementEntry, error) {
	for _, entry := range s.repo.Entries(ctx) {
		if entry.ID == id {
			return entry, nil
		}
	}
	return ProcurementEntry{}, ErrNotFound
}

// BalanceDue returns the invoice total minus all recorded advance
// payments, floored at zero. An unknown entry id yields zero.
func (s *Service) BalanceDue(ctx context.Context, entryID string) float64 {
	entry, err := s.Entry(ctx, entryID)
	if err != nil {
		return 0
	}
	var paid float64
	for _, payment := range s.repo.Payments(ctx) {
		if payment.ProcurementEntryID == entryID {
			paid += payment.Amount
		}
	}
	return round2(math.Max(0, entry.TotalAmount-paid))
}

// CreatePaymentInput describes an advance payment to record.
type CreatePaymentInput struct {
	ProcurementEntryID string
	Amount             float64
	PaidOn             string
	Remarks            string
}

// CreateAdvancePayment records a payment as-is. The parent entry's
// existence and remaining balance are deliberately not checked; only the
// amount must be positive.
func (s *Service) CreateAdvancePayment(ctx context.Context, input CreatePaymentInput) (AdvancePayment, error) {
	if input.Amount <= 0 {
		return AdvancePayment{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	payment := AdvancePayment{
		ID:                 uuid.NewString(),
		ProcurementEntryID: input.ProcurementEntryID,
		Amount:             input.Amount,
		PaidOn:             input.PaidOn,
		Remarks:            input.Remarks,
		CreatedAt:          time.Now().UTC(),
	}
	s.repo.AppendPayment(ctx, payment)
	s.recordAudit(ctx, "PAYMENT_CREATE", "advance_payment", payment.ID, map[string]any{
		"entry_id": payment.ProcurementEntryID,
		"amount":   payment.Amount,
	})
	return payment, nil
}

// AdvancePayments returns all payments, or those against one entry.
func (s *Service) AdvancePayments(ctx context.Context, entryID string) []AdvancePayment {
	payments := s.repo.Payments(ctx)
	if entryID == "" {
		return payments
	}
	filtered := make([]AdvancePayment, 0, len(payments))
	for _, payment := range payments {
		if payment.ProcurementEntryID == entryID {
			filtered = append(filtered, payment)
		}
	}
	return filtered
}

// CreateConsumptionInput describes a stock withdrawal to record.
type CreateConsumptionInput struct {
	ProjectID          string
	ProcurementEntryID string
	ItemName           string
	Category           string
	QuantityConsumed   float64
	Unit               string
	ConsumedBy         string
}

// CreateMaterialConsumed logs a consumption record as-is. Availability is
// a caller responsibility: the HTTP layer checks it before calling in,
// and the ledger trusts its caller.
func (s *Service) CreateMaterialConsumed(ctx context.Context, input CreateConsumptionInput) (MaterialConsumed, error) {
	record := MaterialConsumed{
		ID:                 uuid.NewString(),
		ProjectID:          input.ProjectID,
		ProcurementEntryID: input.ProcurementEntryID,
		ItemName:           input.ItemName,
		Category:           input.Category,
		QuantityConsumed:   input.QuantityConsumed,
		Unit:               input.Unit,
		ConsumedBy:         input.ConsumedBy,
		ConsumedAt:         time.Now().UTC(),
	}
	s.repo.AppendConsumption(ctx, record)
	s.recordAudit(ctx, "CONSUMPTION_CREATE", "material_consumed", record.ID, map[string]any{
		"item":     record.ItemName,
		"quantity": record.QuantityConsumed,
		"project":  record.ProjectID,
	})
	return record, nil
}

// Consumptions returns all consumption records, optionally per project.
func (s *Service) Consumptions(ctx context.Context, projectID string) []MaterialConsumed {
	records := s.repo.Consumptions(ctx)
	if projectID == "" {
		return records
	}
	filtered := make([]MaterialConsumed, 0, len(records))
	for _, record := range records {
		if record.ProjectID != "" && record.ProjectID == projectID {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func (s *Service) recordAudit(ctx context.Context, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{Action: action, Entity: entity, EntityID: entityID, Meta: meta})
}
