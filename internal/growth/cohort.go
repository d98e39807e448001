package growth

import "sellerwave/internal/models"

// Predicate narrows a cohort with equality checks on the categorical
// columns. Empty fields match everything.
type Predicate struct {
	Category   string
	PriceBand  string
	RatingBand string
}

func (p Predicate) matches(s models.Sale) bool {
	if p.Category != "" && s.Category != p.Category {
		return false
	}
	if p.PriceBand != "" && s.PriceBand != p.PriceBand {
		return false
	}
	if p.RatingBand != "" && s.RatingBand != p.RatingBand {
		return false
	}
	return true
}

// CommonProducts returns the set of product names that have at least one
// sale in every month of the window: the intersection of the per-month
// product-name sets.
func CommonProducts(sales []models.Sale, w Window) map[string]struct{} {
	perMonth := make(map[string]map[string]struct{}, w.Count())
	for _, label := range w.labels {
		perMonth[label] = make(map[string]struct{})
	}
	for _, s := range sales {
		if set, ok := perMonth[s.MonthLabel]; ok {
			set[s.ProductName] = struct{}{}
		}
	}

	common := make(map[string]struct{})
	if len(w.labels) == 0 {
		return common
	}
	for name := range perMonth[w.labels[0]] {
		inAll := true
		for _, label := range w.labels[1:] {
			if _, ok := perMonth[label][name]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common[name] = struct{}{}
		}
	}
	return common
}

// Cohort returns the rows for products present in every month of the
// window, restricted to the window's months and the predicate. Input order
// is preserved. An empty result is a valid empty cohort.
func Cohort(sales []models.Sale, w Window, pred Predicate) []models.Sale {
	common := CommonProducts(sales, w)

	var rows []models.Sale
	for _, s := range sales {
		if !w.contains(s.MonthLabel) {
			continue
		}
		if _, ok := common[s.ProductName]; !ok {
			continue
		}
		if !pred.matches(s) {
			continue
		}
		rows = append(rows, s)
	}
	return rows
}
