package growth

import (
	"testing"

	"sellerwave/internal/models"
)

func threeMonthSales() []models.Sale {
	return []models.Sale{
		// A sold every month, B misses Feb, C sold every month.
		sale("A", "Jan", 2, 10),
		sale("A", "Feb", 35, 20),
		sale("A", "Mar", 65, 30),
		sale("B", "Jan", 3, 5),
		sale("B", "Mar", 66, 7),
		sale("C", "Jan", 4, 8),
		sale("C", "Feb", 36, 9),
		sale("C", "Mar", 67, 11),
	}
}

func TestCommonProducts_Intersection(t *testing.T) {
	sales := threeMonthSales()
	w, err := ResolveWindow(sales)
	if err != nil {
		t.Fatalf("ResolveWindow() error = %v", err)
	}

	common := CommonProducts(sales, w)

	if _, ok := common["A"]; !ok {
		t.Error("A sold in every month, should be common")
	}
	if _, ok := common["C"]; !ok {
		t.Error("C sold in every month, should be common")
	}
	if _, ok := common["B"]; ok {
		t.Error("B missed Feb, should not be common")
	}

	// Every common product must have at least one row in every window month.
	for name := range common {
		for _, label := range w.Labels() {
			found := false
			for _, s := range sales {
				if s.ProductName == name && s.MonthLabel == label {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("common product %s has no row in month %s", name, label)
			}
		}
	}
}

func TestCommonProducts_TwoMonthWindow(t *testing.T) {
	sales := append(threeMonthSales(),
		// D only appears in the newest two months.
		sale("D", "Feb", 37, 4),
		sale("D", "Mar", 68, 6),
	)
	w, err := ResolveWindow(sales)
	if err != nil {
		t.Fatalf("ResolveWindow() error = %v", err)
	}

	if _, ok := CommonProducts(sales, w)["D"]; ok {
		t.Error("D missed Jan, should not be common over three months")
	}
	// The intersection only spans the resolved labels: narrowed to the
	// newest two months, D qualifies.
	if _, ok := CommonProducts(sales, w.Tail(2))["D"]; !ok {
		t.Error("D sold in both Feb and Mar, should be common over two months")
	}
}

func TestCohort_PredicateNarrowing(t *testing.T) {
	sales := []models.Sale{
		sale("A", "Jan", 2, 10),
		sale("A", "Feb", 35, 20),
		sale("B", "Jan", 3, 5),
		sale("B", "Feb", 36, 6),
	}
	for i := range sales {
		sales[i].PriceBand = "$0-20"
		sales[i].RatingBand = "Excellent"
	}
	sales[2].PriceBand = "$20-50"
	sales[3].PriceBand = "$20-50"

	w, err := ResolveWindow(sales)
	if err != nil {
		t.Fatalf("ResolveWindow() error = %v", err)
	}

	rows := Cohort(sales, w, Predicate{PriceBand: "$0-20"})
	for _, r := range rows {
		if r.ProductName != "A" {
			t.Errorf("predicate should keep only A's rows, got %s", r.ProductName)
		}
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestCohort_EmptyPredicateResult(t *testing.T) {
	sales := threeMonthSales()
	w, err := ResolveWindow(sales)
	if err != nil {
		t.Fatalf("ResolveWindow() error = %v", err)
	}

	rows := Cohort(sales, w, Predicate{PriceBand: "$9999"})
	if len(rows) != 0 {
		t.Errorf("no rows match $9999, got %d rows", len(rows))
	}
}

func TestCohort_RestrictsToWindowMonths(t *testing.T) {
	sales := append(threeMonthSales(),
		sale("A", "Dec-prev", -40, 99), // before the window
	)

	w, err := ResolveWindow(sales)
	if err != nil {
		t.Fatalf("ResolveWindow() error = %v", err)
	}
	if w.Count() != 3 {
		t.Fatalf("Count() = %d, want 3 (Dec-prev must fall off)", w.Count())
	}

	for _, r := range Cohort(sales, w, Predicate{}) {
		if r.MonthLabel == "Dec-prev" {
			t.Error("cohort contains a row outside the resolved window")
		}
	}
}

func TestCommonProducts_WindowTest(t *testing.T) {
	// common_products is always a subset of products present in the
	// newest resolved month.
	sales := threeMonthSales()
	w, _ := ResolveWindow(sales)

	newest := make(map[string]struct{})
	for _, s := range sales {
		if s.MonthLabel == w.Current() {
			newest[s.ProductName] = struct{}{}
		}
	}
	for name := range CommonProducts(sales, w) {
		if _, ok := newest[name]; !ok {
			t.Errorf("common product %s absent from newest month", name)
		}
	}
}
