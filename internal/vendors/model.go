// Package vendors implements the vendor registry: create-or-reuse vendor
// records keyed by normalized name and tax id.
package vendors

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// StorageKey is the fixed document key for the vendor list.
const StorageKey = "vendors"

// Vendor represents a supplier a procurement entry is booked against.
// Field names mirror the persisted JSON layout.
type Vendor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	TaxID     string    `json:"taxId"`
	CreatedAt time.Time `json:"createdAt"`
}

// normalizeName folds the vendor name for identity matching only; the
// stored name keeps its original casing.
func normalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// normalizeTaxID uppercases the tax id, defaulting to "NA" when blank.
func normalizeTaxID(taxID string) string {
	normalized := strings.ToUpper(strings.TrimSpace(taxID))
	if normalized == "" {
		return "NA"
	}
	return normalized
}
