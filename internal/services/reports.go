package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sellerwave/internal/growth"
	"sellerwave/internal/models"
	"sellerwave/internal/warehouse"
)

const (
	topProductLimit = 10

	budgetPriceBand  = "$0-20"
	topRatingBand    = "Excellent"
	listingsCategory = "Beauty & Personal Care"
)

// Reports holds the loaded sales snapshot and builds the report views.
// All view builders read a consistent snapshot and are safe for
// concurrent use.
type Reports struct {
	mu       sync.RWMutex
	sales    []models.Sale
	loadedAt time.Time
	logger   *slog.Logger
}

func NewReports(logger *slog.Logger) *Reports {
	return &Reports{logger: logger}
}

// SetData replaces the current snapshot.
func (r *Reports) SetData(sales []models.Sale) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = sales
	r.loadedAt = time.Now()
}

// Load fetches rows from the warehouse source and installs them as the
// active snapshot.
func (r *Reports) Load(ctx context.Context, src warehouse.Source) error {
	start := time.Now()
	sales, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	r.SetData(sales)
	r.logger.InfoContext(ctx, "sales data loaded",
		slog.Int("rows", len(sales)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (r *Reports) snapshot() []models.Sale {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sales
}

// GrowthSection is one growth table within a view. A section that cannot
// be computed carries its failure in Error so sibling sections still
// render.
type GrowthSection struct {
	Months []string     `json:"months,omitempty"`
	Rows   []growth.Row `json:"rows"`
	Error  string       `json:"error,omitempty"`
}

func (r *Reports) section(sales []models.Sale, q growth.Query) GrowthSection {
	report, err := q.Run(sales)
	if err != nil {
		r.logger.Warn("growth section unavailable", slog.String("error", err.Error()))
		return GrowthSection{Error: err.Error()}
	}
	return GrowthSection{Months: report.Months, Rows: report.Rows}
}

// DashboardView summarizes the whole dataset: headline counts, quantity
// breakdowns, top sellers, unusually high recent sales and the headline
// growth tables.
type DashboardView struct {
	RowTotal             int                   `json:"row_total"`
	CategoryDistribution []models.BreakdownRow `json:"category_distribution"`
	QuantityByCategory   []models.BreakdownRow `json:"quantity_by_category"`
	QuantityByRating     []models.BreakdownRow `json:"quantity_by_rating"`
	QuantityByPriceBand  []models.BreakdownRow `json:"quantity_by_price_band"`
	TopProducts          []models.ProductTotal `json:"top_products"`
	HighSales            []models.ProductTotal `json:"high_sales"`
	ThreeMonthGrowth     GrowthSection         `json:"three_month_growth"`
	TwoMonthGrowth       GrowthSection         `json:"two_month_growth"`
}

func (r *Reports) Dashboard(ctx context.Context) DashboardView {
	sales := r.snapshot()
	view := DashboardView{RowTotal: len(sales)}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.CategoryDistribution = categoryDistribution(sales)
		return nil
	})
	g.Go(func() error {
		view.QuantityByCategory = quantityBreakdown(sales, func(s models.Sale) string { return s.Category })
		return nil
	})
	g.Go(func() error {
		view.QuantityByRating = quantityBreakdown(sales, func(s models.Sale) string { return s.RatingBand })
		return nil
	})
	g.Go(func() error {
		view.QuantityByPriceBand = quantityBreakdown(sales, func(s models.Sale) string { return s.PriceBand })
		return nil
	})
	g.Go(func() error {
		view.TopProducts = topProducts(sales, topProductLimit)
		return nil
	})
	g.Go(func() error {
		view.HighSales = growth.HighSales(sales, topProductLimit)
		return nil
	})
	g.Go(func() error {
		view.ThreeMonthGrowth = r.section(sales, growth.Query{
			Months: 3,
			Basis:  growth.PctCurrentVsThirdLast,
			Filter: growth.FilterMonotonic,
		})
		return nil
	})
	g.Go(func() error {
		view.TwoMonthGrowth = r.section(sales, growth.Query{
			Months: 2,
			Basis:  growth.PctCurrentVsLast,
			Filter: growth.FilterMonotonic,
		})
		return nil
	})
	g.Wait()

	return view
}

// DecisionView narrows growth to budget-priced, top-rated products to
// answer which ones are worth restocking.
type DecisionView struct {
	PositiveGrowth GrowthSection `json:"positive_growth"`
	SteadyRisers   GrowthSection `json:"steady_risers"`
}

func (r *Reports) Decision(ctx context.Context) DecisionView {
	sales := r.snapshot()
	var view DecisionView

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.PositiveGrowth = r.section(sales, growth.Query{
			Months:     3,
			PriceBand:  budgetPriceBand,
			RatingBand: topRatingBand,
			Basis:      growth.PctCurrentVsThirdLast,
			Filter:     growth.FilterPositive,
		})
		return nil
	})
	g.Go(func() error {
		view.SteadyRisers = r.section(sales, growth.Query{
			Months:     3,
			PriceBand:  budgetPriceBand,
			RatingBand: topRatingBand,
			Basis:      growth.PctCurrentVsThirdLast,
			Filter:     growth.FilterMonotonic,
		})
		return nil
	})
	g.Wait()

	return view
}

// ExploreView is the open-ended slice-and-dice set of tables: budget
// listings plus growth tables under several different bases and filters.
type ExploreView struct {
	CareListings    []models.PriceListing `json:"care_listings"`
	ThreeMonthSales GrowthSection         `json:"three_month_sales"`
	MonotonicGrowth GrowthSection         `json:"monotonic_growth"`
	TwoMonthSales   GrowthSection         `json:"two_month_sales"`
	TwoMonthGrowth  GrowthSection         `json:"two_month_growth"`
	LastVsThirdLast GrowthSection         `json:"last_vs_third_last"`
	NegativeGrowth  GrowthSection         `json:"negative_growth"`
}

func (r *Reports) Explore(ctx context.Context) ExploreView {
	sales := r.snapshot()
	var view ExploreView

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.CareListings = priceListings(sales, listingsCategory, budgetPriceBand)
		return nil
	})
	g.Go(func() error {
		view.ThreeMonthSales = r.section(sales, growth.Query{
			Months:      3,
			PriceBand:   budgetPriceBand,
			Basis:       growth.PctCurrentVsThirdLast,
			FillMissing: true,
		})
		return nil
	})
	g.Go(func() error {
		view.MonotonicGrowth = r.section(sales, growth.Query{
			Months:      3,
			Basis:       growth.PctCurrentVsThirdLast,
			Filter:      growth.FilterMonotonic,
			FillMissing: true,
		})
		return nil
	})
	g.Go(func() error {
		view.TwoMonthSales = r.section(sales, growth.Query{
			Months:    2,
			PriceBand: budgetPriceBand,
			Basis:     growth.PctCurrentVsLast,
			WithPrice: true,
		})
		return nil
	})
	g.Go(func() error {
		view.TwoMonthGrowth = r.section(sales, growth.Query{
			Months: 2,
			Basis:  growth.PctCurrentVsLast,
			Filter: growth.FilterPositive,
		})
		return nil
	})
	g.Go(func() error {
		view.LastVsThirdLast = r.section(sales, growth.Query{
			Months: 3,
			Basis:  growth.DeltaLastVsThirdLast,
			Filter: growth.FilterPositive,
		})
		return nil
	})
	g.Go(func() error {
		view.NegativeGrowth = r.section(sales, growth.Query{
			Months: 3,
			Basis:  growth.PctCurrentVsThirdLast,
			Filter: growth.FilterNegative,
		})
		return nil
	})
	g.Wait()

	return view
}

// Stats reports operational counters for the admin endpoint.
func (r *Reports) Stats() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make(map[string]struct{})
	months := make(map[string]struct{})
	for _, s := range r.sales {
		products[s.ProductName] = struct{}{}
		months[s.MonthLabel] = struct{}{}
	}

	stats := map[string]any{
		"record_count":  len(r.sales),
		"product_count": len(products),
		"month_count":   len(months),
	}
	if !r.loadedAt.IsZero() {
		stats["loaded_at"] = r.loadedAt.UTC().Format(time.RFC3339)
	}
	return stats
}

func categoryDistribution(sales []models.Sale) []models.BreakdownRow {
	counts := make(map[string]int)
	var order []string
	for _, s := range sales {
		if _, ok := counts[s.Category]; !ok {
			order = append(order, s.Category)
		}
		counts[s.Category]++
	}

	rows := make([]models.BreakdownRow, 0, len(order))
	for _, label := range order {
		row := models.BreakdownRow{Label: label, Count: counts[label]}
		if len(sales) > 0 {
			row.Share = float64(counts[label]) / float64(len(sales))
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

func quantityBreakdown(sales []models.Sale, key func(models.Sale) string) []models.BreakdownRow {
	totals := make(map[string]int)
	var order []string
	var grand int
	for _, s := range sales {
		k := key(s)
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += s.QuantitySold
		grand += s.QuantitySold
	}

	rows := make([]models.BreakdownRow, 0, len(order))
	for _, label := range order {
		row := models.BreakdownRow{Label: label, Quantity: totals[label]}
		if grand > 0 {
			row.Share = float64(totals[label]) / float64(grand)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Quantity > rows[j].Quantity })
	return rows
}

func topProducts(sales []models.Sale, limit int) []models.ProductTotal {
	totals := make(map[string]int)
	var order []string
	for _, s := range sales {
		if _, ok := totals[s.ProductName]; !ok {
			order = append(order, s.ProductName)
		}
		totals[s.ProductName] += s.QuantitySold
	}

	rows := make([]models.ProductTotal, 0, len(order))
	for _, name := range order {
		rows = append(rows, models.ProductTotal{ProductName: name, Quantity: totals[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Quantity > rows[j].Quantity })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func priceListings(sales []models.Sale, category, priceBand string) []models.PriceListing {
	type agg struct {
		price float64
		at    time.Time
		qty   int
	}
	byName := make(map[string]*agg)
	var order []string
	for _, s := range sales {
		if s.Category != category || s.PriceBand != priceBand {
			continue
		}
		a, ok := byName[s.ProductName]
		if !ok {
			byName[s.ProductName] = &agg{price: s.Price, at: s.CollectionDate, qty: s.QuantitySold}
			order = append(order, s.ProductName)
			continue
		}
		if s.CollectionDate.Before(a.at) {
			a.price = s.Price
			a.at = s.CollectionDate
		}
		a.qty += s.QuantitySold
	}

	listings := make([]models.PriceListing, 0, len(order))
	for _, name := range order {
		a := byName[name]
		listings = append(listings, models.PriceListing{
			ProductName: name,
			Price:       a.price,
			Quantity:    a.qty,
		})
	}
	sort.SliceStable(listings, func(i, j int) bool { return listings[i].Quantity > listings[j].Quantity })
	for i := range listings {
		listings[i].Rank = i + 1
	}
	return listings
}
