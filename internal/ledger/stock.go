package ledger

import (
	"context"
	"math"
	"sort"
)

// StockAvailability returns purchased minus consumed quantity for an item
// name, floored at zero. Matching is case-insensitive and trimmed, and the
// pool is global: stock purchased for one project is available to any
// other. That is an intentional trait of the ledger, not a bug.
func (s *Service) StockAvailability(ctx context.Context, itemName string) float64 {
	key := normalizeItemName(itemName)
	var purchased float64
	for _, entry := range s.repo.Entries(ctx) {
		for _, item := range entry.Items {
			if normalizeItemName(item.ItemName) == key {
				purchased += item.Quantity
			}
		}
	}
	var consumed float64
	for _, record := range s.repo.Consumptions(ctx) {
		if normalizeItemName(record.ItemName) == key {
			consumed += record.QuantityConsumed
		}
	}
	return math.Max(0, purchased-consumed)
}

// StockSummary aggregates one row per distinct normalized item name seen
// in any procurement entry, sorted lexicographically. Display name,
// category and unit come from the first occurrence; later conflicting
// metadata is ignored silently.
func (s *Service) StockSummary(ctx context.Context) []StockSummaryItem {
	byName := make(map[string]*StockSummaryItem)
	for _, entry := range s.repo.Entries(ctx) {
		for _, item := range entry.Items {
			key := normalizeItemName(item.ItemName)
			row, ok := byName[key]
			if !ok {
				row = &StockSummaryItem{
					ItemName: item.ItemName,
					Category: item.Category,
					Unit:     item.Unit,
				}
				byName[key] = row
			}
			row.TotalPurchased += item.Quantity
		}
	}
	for _, record := range s.repo.Consumptions(ctx) {
		if row, ok := byName[normalizeItemName(record.ItemName)]; ok {
			row.TotalConsumed += record.QuantityConsumed
		}
	}

	summary := make([]StockSummaryItem, 0, len(byName))
	for _, row := range byName {
		row.Available = math.Max(0, row.TotalPurchased-row.TotalConsumed)
		summary = append(summary, *row)
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].ItemName < summary[j].ItemName
	})
	return summary
}
