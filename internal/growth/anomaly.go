package growth

import (
	"slices"

	"sellerwave/internal/models"
)

const (
	movingAvgWindow    = 3
	highSalesThreshold = 1.1
)

// HighSales flags products whose latest sale quantity runs ahead of their
// trailing moving average. This works on the raw per-sale series ordered
// by collection date, not on monthly pivots: a product needs at least
// movingAvgWindow observations, and is flagged when
// latest > highSalesThreshold * mean(last movingAvgWindow quantities).
// Flagged products are returned with their total quantity, largest first,
// capped at limit (0 means no cap).
func HighSales(sales []models.Sale, limit int) []models.ProductTotal {
	series := make(map[string][]models.Sale)
	order := make([]string, 0)
	totals := make(map[string]int)

	for _, s := range sales {
		if _, ok := series[s.ProductName]; !ok {
			order = append(order, s.ProductName)
		}
		series[s.ProductName] = append(series[s.ProductName], s)
		totals[s.ProductName] += s.QuantitySold
	}

	var flagged []models.ProductTotal
	for _, name := range order {
		rows := series[name]
		if len(rows) < movingAvgWindow {
			continue
		}
		slices.SortStableFunc(rows, func(a, b models.Sale) int {
			return a.CollectionDate.Compare(b.CollectionDate)
		})

		sum := 0
		for _, s := range rows[len(rows)-movingAvgWindow:] {
			sum += s.QuantitySold
		}
		avg := float64(sum) / movingAvgWindow
		latest := rows[len(rows)-1].QuantitySold

		if float64(latest) > highSalesThreshold*avg {
			flagged = append(flagged, models.ProductTotal{ProductName: name, Quantity: totals[name]})
		}
	}

	slices.SortStableFunc(flagged, func(a, b models.ProductTotal) int {
		return b.Quantity - a.Quantity
	})
	if limit > 0 && len(flagged) > limit {
		flagged = flagged[:limit]
	}
	return flagged
}
