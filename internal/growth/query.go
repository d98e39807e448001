package growth

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"sellerwave/internal/models"
)

// Basis selects how the growth column is derived from the pivoted
// month quantities.
type Basis int

const (
	// PctCurrentVsThirdLast is (current - third_last) / third_last * 100.
	PctCurrentVsThirdLast Basis = iota
	// PctCurrentVsLast is (current - last) / last * 100.
	PctCurrentVsLast
	// DeltaLastVsThirdLast is the raw quantity delta last - third_last.
	DeltaLastVsThirdLast
)

// Filter selects which pivoted rows a query keeps. The three sign filters
// are deliberately distinct predicates; different report sections use
// different boundaries for zero growth.
type Filter int

const (
	FilterNone Filter = iota
	// FilterMonotonic keeps rows whose quantities strictly increase across
	// every month of the query window.
	FilterMonotonic
	FilterPositive       // growth > 0
	FilterNegativeOrFlat // growth <= 0
	FilterNegative       // growth < 0
)

// Query describes one report section: which trailing months to pivot,
// which cohort predicates to apply, and how to derive and filter growth.
type Query struct {
	Months     int // 2 or 3
	Category   string
	PriceBand  string
	RatingBand string
	Basis      Basis
	Filter     Filter
	// FillMissing backfills zero for product/month cells the cohort
	// predicates emptied out; otherwise such products are dropped.
	FillMissing bool
	WithPrice   bool
	TopN        int
}

// Row is one product in a growth report. Quantities align with the
// report's month labels. Growth is a typed number (it may be +Inf under
// the zero-denominator policy); formatting is the presentation layer's job.
type Row struct {
	Rank        int     `json:"rank"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price,omitempty"`
	Quantities  []int   `json:"quantities"`
	Growth      float64 `json:"growth"`
}

// MarshalJSON renders an infinite growth value as the string "Inf";
// encoding/json rejects IEEE infinities outright.
func (r Row) MarshalJSON() ([]byte, error) {
	type plain Row
	if math.IsInf(r.Growth, 0) {
		return json.Marshal(struct {
			plain
			Growth string `json:"growth"`
		}{plain(r), "Inf"})
	}
	return json.Marshal(plain(r))
}

// Report is the terminal artifact of a growth query: month labels oldest
// first and one ranked row per qualifying product.
type Report struct {
	Months []string `json:"months"`
	Rows   []Row    `json:"rows"`
}

type pivotCell struct {
	qty     int
	present bool
}

type pivotRow struct {
	name      string
	cells     []pivotCell
	total     int
	price     float64
	priceSet  bool
	priceDate int64
}

// Run resolves the month window, builds the cohort, pivots quantities and
// applies the query's growth derivation and filter. It returns
// ErrNoData for an empty dataset and *InsufficientDataError when fewer
// distinct months exist than the query needs.
func (q Query) Run(sales []models.Sale) (*Report, error) {
	if q.Months != 2 && q.Months != 3 {
		return nil, fmt.Errorf("query months must be 2 or 3, got %d", q.Months)
	}
	if q.Months == 2 && (q.Basis == PctCurrentVsThirdLast || q.Basis == DeltaLastVsThirdLast) {
		return nil, fmt.Errorf("growth basis needs a three-month window")
	}

	full, err := ResolveWindow(sales)
	if err != nil {
		return nil, err
	}
	if full.Count() < q.Months {
		return nil, &InsufficientDataError{Need: q.Months, Have: full.Count()}
	}
	w := full.Tail(q.Months)

	pred := Predicate{Category: q.Category, PriceBand: q.PriceBand, RatingBand: q.RatingBand}
	cohort := Cohort(sales, w, pred)

	rows := q.pivot(cohort, w)
	kept := rows[:0]
	for _, r := range rows {
		growth, ok := q.derive(r)
		if !ok {
			continue
		}
		if !q.keep(r, growth) {
			continue
		}
		r.row.Growth = growth
		kept = append(kept, r)
	}

	if q.TopN > 0 {
		slices.SortStableFunc(kept, func(a, b ranked) int {
			return b.total - a.total
		})
		if len(kept) > q.TopN {
			kept = kept[:q.TopN]
		}
	}

	report := &Report{Months: w.Labels(), Rows: make([]Row, 0, len(kept))}
	for i, r := range kept {
		r.row.Rank = i + 1
		report.Rows = append(report.Rows, r.row)
	}
	return report, nil
}

type ranked struct {
	row   Row
	cells []pivotCell
	total int
}

// pivot sums quantity by (product, month) and reshapes to one candidate
// row per product, ordered by product name. Products missing a month cell
// are zero-filled or dropped according to FillMissing.
func (q Query) pivot(cohort []models.Sale, w Window) []ranked {
	byProduct := make(map[string]*pivotRow)
	labelIdx := make(map[string]int, w.Count())
	for i, label := range w.labels {
		labelIdx[label] = i
	}

	for _, s := range cohort {
		p := byProduct[s.ProductName]
		if p == nil {
			p = &pivotRow{name: s.ProductName, cells: make([]pivotCell, w.Count())}
			byProduct[s.ProductName] = p
		}
		i := labelIdx[s.MonthLabel]
		p.cells[i].qty += s.QuantitySold
		p.cells[i].present = true
		p.total += s.QuantitySold

		// First-observed price per product: earliest collection date wins.
		if ts := s.CollectionDate.UnixNano(); !p.priceSet || ts < p.priceDate {
			p.price = s.Price
			p.priceSet = true
			p.priceDate = ts
		}
	}

	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)

	rows := make([]ranked, 0, len(names))
	for _, name := range names {
		p := byProduct[name]
		complete := true
		for _, c := range p.cells {
			if !c.present {
				complete = false
				break
			}
		}
		if !complete && !q.FillMissing {
			continue
		}

		quantities := make([]int, len(p.cells))
		for i, c := range p.cells {
			quantities[i] = c.qty
		}
		row := Row{ProductName: name, Quantities: quantities}
		if q.WithPrice {
			row.Price = p.price
		}
		rows = append(rows, ranked{row: row, cells: p.cells, total: p.total})
	}
	return rows
}

// derive computes the growth value for one pivoted row. The zero-
// denominator policy is uniform across all sections: growth is +Inf when
// the numerator month is positive, and the row is excluded when both
// months are zero.
func (q Query) derive(r ranked) (float64, bool) {
	qs := r.row.Quantities
	current := qs[len(qs)-1]

	switch q.Basis {
	case PctCurrentVsThirdLast:
		return pctGrowth(current, qs[0])
	case PctCurrentVsLast:
		return pctGrowth(current, qs[len(qs)-2])
	case DeltaLastVsThirdLast:
		return float64(qs[len(qs)-2] - qs[0]), true
	default:
		return 0, false
	}
}

func pctGrowth(current, base int) (float64, bool) {
	if base == 0 {
		if current > 0 {
			return math.Inf(1), true
		}
		return 0, false
	}
	return float64(current-base) / float64(base) * 100, true
}

func (q Query) keep(r ranked, growth float64) bool {
	switch q.Filter {
	case FilterMonotonic:
		qs := r.row.Quantities
		for i := 1; i < len(qs); i++ {
			if qs[i] <= qs[i-1] {
				return false
			}
		}
		return true
	case FilterPositive:
		return growth > 0
	case FilterNegativeOrFlat:
		return growth <= 0
	case FilterNegative:
		return growth < 0
	default:
		return true
	}
}
