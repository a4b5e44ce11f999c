package vendors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/helios-erp/helios-erp/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the vendor registry.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the vendor handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers vendor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.findOrCreate)
}

type findOrCreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list := h.service.List(r.Context())
	if list == nil {
		list = []Vendor{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) findOrCreate(w http.ResponseWriter, r *http.Request) {
	var req findOrCreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vendor := h.service.FindOrCreate(r.Context(), req.Name, req.Address, req.TaxID)
	h.logger.Info("vendor resolved", slog.String("vendor_id", vendor.ID), slog.String("name", vendor.Name))
	httpx.JSON(w, http.StatusOK, vendor)
}
