package vendors

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helios-erp/helios-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	List(ctx context.Context) []Vendor
	Mutate(ctx context.Context, fn func([]Vendor) []Vendor)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service implements the vendor registry contract.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the vendor registry service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all registered vendors.
func (s *Service) List(ctx context.Context) []Vendor {
	return s.repo.List(ctx)
}

// FindOrCreate returns the vendor matching (name, taxId) after
// normalization, creating it on first sight. A match updates the stored
// address to the newly supplied value; calling twice with the same pair
// always yields the same vendor id, even with different addresses.
func (s *Service) FindOrCreate(ctx context.Context, name, address, taxID string) Vendor {
	matchName := normalizeName(name)
	matchTax := normalizeTaxID(taxID)

	var result Vendor
	created := false
	s.repo.Mutate(ctx, func(vendors []Vendor) []Vendor {
		for i := range vendors {
			if normalizeName(vendors[i].Name) == matchName && normalizeTaxID(vendors[i].TaxID) == matchTax {
				vendors[i].Address = strings.TrimSpace(address)
				result = vendors[i]
				return vendors
			}
		}
		result = Vendor{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(name),
			Address:   strings.TrimSpace(address),
			TaxID:     matchTax,
			CreatedAt: time.Now().UTC(),
		}
		created = true
		return append(vendors, result)
	})

	if created && s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "VENDOR_CREATE",
			Entity:   "vendor",
			EntityID: result.ID,
			Meta:     map[string]any{"name": result.Name, "tax_id": result.TaxID},
		})
	}
	return result
}
