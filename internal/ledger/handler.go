package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/helios-erp/helios-erp/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the procurement ledger. This layer is
// where caller-side validation lives: the core records what it is given,
// the handler enforces what the booking screens used to enforce.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	summary  singleflight.Group
}

// NewHandler constructs the ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/entries", h.createEntry)
	r.Get("/entries", h.listEntries)
	r.Get("/entries/{id}", h.getEntry)
	r.Get("/entries/{id}/balance", h.balanceDue)
	r.Post("/payments", h.createPayment)
	r.Get("/payments", h.listPayments)
	r.Post("/consumption", h.createConsumption)
	r.Get("/consumption", h.listConsumption)
	r.Get("/stock/availability", h.stockAvailability)
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Get("/stock/summary", h.stockSummary)
	})
}

type lineItemRequest struct {
	ItemName  string  `json:"itemName" validate:"required"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

type createEntryRequest struct {
	VendorID        string            `json:"vendorId" validate:"required"`
	InvoiceNumber   string            `json:"invoiceNumber" validate:"required"`
	InvoiceDate     string            `json:"invoiceDate"`
	InvoiceImageRef string            `json:"invoiceImageRef"`
	Items           []lineItemRequest `json:"items" validate:"min=1,dive"`
	CGST            float64           `json:"cgst" validate:"gte=0"`
	SGST            float64           `json:"sgst" validate:"gte=0"`
	IGST            float64           `json:"igst" validate:"gte=0"`
	TaxAvailable    bool              `json:"taxAvailable"`
	BaseAmount      float64           `json:"baseAmount" validate:"gte=0"`
	TotalAmount     float64           `json:"totalAmount" validate:"gte=0"`
	ProjectID       string            `json:"projectId"`
}

type createPaymentRequest struct {
	ProcurementEntryID string  `json:"procurementEntryId" validate:"required"`
	Amount             float64 `json:"amount" validate:"gt=0"`
	PaidOn             string  `json:"paidOn"`
	Remarks            string  `json:"remarks"`
}

type createConsumptionRequest struct {
	ProjectID          string  `json:"projectId"`
	ProcurementEntryID string  `json:"procurementEntryId"`
	ItemName           string  `json:"itemName" validate:"required"`
	Category           string  `json:"category"`
	QuantityConsumed   float64 `json:"quantityConsumed" validate:"gt=0"`
	Unit               string  `json:"unit"`
	ConsumedBy         string  `json:"consumedBy"`
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	items := make([]LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, LineItemInput{
			ItemName:  item.ItemName,
			Category:  item.Category,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
		})
	}
	entry, err := h.service.CreateEntry(r.Context(), CreateEntryInput{
		VendorID:        req.VendorID,
		InvoiceNumber:   req.InvoiceNumber,
		InvoiceDate:     req.InvoiceDate,
		InvoiceImageRef: req.InvoiceImageRef,
		Items:           items,
		CGST:            req.CGST,
		SGST:            req.SGST,
		IGST:            req.IGST,
		TaxAvailable:    req.TaxAvailable,
		BaseAmount:      req.BaseAmount,
		TotalAmount:     req.TotalAmount,
		ProjectID:       req.ProjectID,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.logger.Info("procurement entry created",
		slog.String("entry_id", entry.ID),
		slog.String("invoice", entry.InvoiceNumber),
		slog.Float64("total", entry.TotalAmount))
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries := h.service.Entries(r.Context(), r.URL.Query().Get("project_id"))
	if entries == nil {
		entries = []ProcurementEntry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Entry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) balanceDue(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	balance := h.service.BalanceDue(r.Context(), entryID)
	httpx.JSON(w, http.StatusOK, map[string]any{"entryId": entryID, "balanceDue": balance})
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	payment, err := h.service.CreateAdvancePayment(r.Context(), CreatePaymentInput{
		ProcurementEntryID: req.ProcurementEntryID,
		Amount:             req.Amount,
		PaidOn:             req.PaidOn,
		Remarks:            req.Remarks,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments := h.service.AdvancePayments(r.Context(), r.URL.Query().Get("entry_id"))
	if payments == nil {
		payments = []AdvancePayment{}
	}
	httpx.JSON(w, http.StatusOK, payments)
}

func (h *Handler) createConsumption(w http.ResponseWriter, r *http.Request) {
	var req createConsumptionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	available := h.service.StockAvailability(r.Context(), req.ItemName)
	if req.QuantityConsumed > available {
		httpx.Problem(w, http.StatusBadRequest, "Insufficient Stock",
			"requested quantity exceeds available stock")
		return
	}
	record, err := h.service.CreateMaterialConsumed(r.Context(), CreateConsumptionInput{
		ProjectID:          req.ProjectID,
		ProcurementEntryID: req.ProcurementEntryID,
		ItemName:           req.ItemName,
		Category:           req.Category,
		QuantityConsumed:   req.QuantityConsumed,
		Unit:               req.Unit,
		ConsumedBy:         req.ConsumedBy,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) listConsumption(w http.ResponseWriter, r *http.Request) {
	records := h.service.Consumptions(r.Context(), r.URL.Query().Get("project_id"))
	if records == nil {
		records = []MaterialConsumed{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) stockAvailability(w http.ResponseWriter, r *http.Request) {
	item := r.URL.Query().Get("item")
	if item == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "item query parameter is required")
		return
	}
	available := h.service.StockAvailability(r.Context(), item)
	httpx.JSON(w, http.StatusOK, map[string]any{"itemName": item, "available": available})
}

// stockSummary collapses concurrent recomputations into one pass; the
// summary is a derived view over the whole ledger and identical for all
// callers. The shared computation runs detached from the first caller's
// cancellation so one dropped request cannot fail every collapsed waiter.
func (h *Handler) stockSummary(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	result, err, _ := h.summary.Do("stock_summary", func() (any, error) {
		return h.service.StockSummary(ctx), nil
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, _ := result.([]StockSummaryItem)
	if summary == nil {
		summary = []StockSummaryItem{}
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrAmountMismatch), errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("ledger handler", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
