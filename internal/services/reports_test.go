package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sellerwave/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sale(name, category, priceBand, ratingBand string, price float64, qty int, month string, day int) models.Sale {
	return models.Sale{
		ProductName:    name,
		Category:       category,
		PriceBand:      priceBand,
		RatingBand:     ratingBand,
		Price:          price,
		QuantitySold:   qty,
		CollectionDate: time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		MonthLabel:     month,
	}
}

func threeMonthFixture() []models.Sale {
	return []models.Sale{
		sale("Vitamin C Serum", "Beauty & Personal Care", "$0-20", "Excellent", 12.50, 10, "Jan", 5),
		sale("Vitamin C Serum", "Beauty & Personal Care", "$0-20", "Excellent", 12.50, 20, "Feb", 36),
		sale("Vitamin C Serum", "Beauty & Personal Care", "$0-20", "Excellent", 12.50, 30, "Mar", 65),
		sale("Desk Lamp", "Home & Kitchen", "$20-50", "Good", 34.00, 50, "Jan", 6),
		sale("Desk Lamp", "Home & Kitchen", "$20-50", "Good", 34.00, 40, "Feb", 37),
		sale("Desk Lamp", "Home & Kitchen", "$20-50", "Good", 34.00, 30, "Mar", 66),
		sale("Bamboo Comb", "Beauty & Personal Care", "$0-20", "Good", 6.00, 5, "Jan", 7),
		sale("Bamboo Comb", "Beauty & Personal Care", "$0-20", "Good", 6.00, 5, "Feb", 38),
		sale("Bamboo Comb", "Beauty & Personal Care", "$0-20", "Good", 6.00, 5, "Mar", 67),
	}
}

func TestReports_Dashboard(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData(threeMonthFixture())

	view := r.Dashboard(context.Background())

	if view.RowTotal != 9 {
		t.Errorf("RowTotal = %d, want 9", view.RowTotal)
	}

	wantDist := []models.BreakdownRow{
		{Label: "Beauty & Personal Care", Count: 6, Share: 6.0 / 9.0},
		{Label: "Home & Kitchen", Count: 3, Share: 3.0 / 9.0},
	}
	if diff := cmp.Diff(wantDist, view.CategoryDistribution); diff != "" {
		t.Errorf("CategoryDistribution mismatch (-want +got):\n%s", diff)
	}

	wantTop := []models.ProductTotal{
		{ProductName: "Desk Lamp", Quantity: 120},
		{ProductName: "Vitamin C Serum", Quantity: 60},
		{ProductName: "Bamboo Comb", Quantity: 15},
	}
	if diff := cmp.Diff(wantTop, view.TopProducts); diff != "" {
		t.Errorf("TopProducts mismatch (-want +got):\n%s", diff)
	}

	if view.ThreeMonthGrowth.Error != "" {
		t.Fatalf("ThreeMonthGrowth.Error = %q, want none", view.ThreeMonthGrowth.Error)
	}
	if len(view.ThreeMonthGrowth.Rows) != 1 || view.ThreeMonthGrowth.Rows[0].ProductName != "Vitamin C Serum" {
		t.Errorf("ThreeMonthGrowth.Rows = %+v, want only Vitamin C Serum", view.ThreeMonthGrowth.Rows)
	}
	if got := view.ThreeMonthGrowth.Rows[0].Growth; got != 200 {
		t.Errorf("growth = %v, want 200", got)
	}
}

func TestReports_Dashboard_QuantityBreakdowns(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData(threeMonthFixture())

	view := r.Dashboard(context.Background())

	want := []models.BreakdownRow{
		{Label: "Home & Kitchen", Quantity: 120, Share: 120.0 / 195.0},
		{Label: "Beauty & Personal Care", Quantity: 75, Share: 75.0 / 195.0},
	}
	if diff := cmp.Diff(want, view.QuantityByCategory); diff != "" {
		t.Errorf("QuantityByCategory mismatch (-want +got):\n%s", diff)
	}
	if len(view.QuantityByRating) != 2 || view.QuantityByRating[0].Label != "Good" {
		t.Errorf("QuantityByRating = %+v, want Good first", view.QuantityByRating)
	}
}

func TestReports_Dashboard_SectionErrorDoesNotBlockSiblings(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData([]models.Sale{
		sale("Vitamin C Serum", "Beauty & Personal Care", "$0-20", "Excellent", 12.50, 10, "Jan", 5),
		sale("Desk Lamp", "Home & Kitchen", "$20-50", "Good", 34.00, 50, "Jan", 6),
	})

	view := r.Dashboard(context.Background())

	if view.ThreeMonthGrowth.Error == "" {
		t.Error("ThreeMonthGrowth.Error = empty, want insufficient data message")
	}
	if view.TwoMonthGrowth.Error == "" {
		t.Error("TwoMonthGrowth.Error = empty, want insufficient data message")
	}
	if view.RowTotal != 2 {
		t.Errorf("RowTotal = %d, want 2", view.RowTotal)
	}
	if len(view.TopProducts) != 2 {
		t.Errorf("TopProducts = %+v, want both products", view.TopProducts)
	}
}

func TestReports_Dashboard_Empty(t *testing.T) {
	r := NewReports(testLogger())

	view := r.Dashboard(context.Background())

	if view.RowTotal != 0 {
		t.Errorf("RowTotal = %d, want 0", view.RowTotal)
	}
	if view.ThreeMonthGrowth.Error == "" {
		t.Error("ThreeMonthGrowth.Error = empty, want no data message")
	}
}

func TestReports_Decision(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData(threeMonthFixture())

	view := r.Decision(context.Background())

	if view.PositiveGrowth.Error != "" {
		t.Fatalf("PositiveGrowth.Error = %q, want none", view.PositiveGrowth.Error)
	}
	// Only the serum is both budget priced and top rated; the comb is
	// Good, the lamp is neither.
	if len(view.PositiveGrowth.Rows) != 1 || view.PositiveGrowth.Rows[0].ProductName != "Vitamin C Serum" {
		t.Errorf("PositiveGrowth.Rows = %+v, want only Vitamin C Serum", view.PositiveGrowth.Rows)
	}
	if len(view.SteadyRisers.Rows) != 1 || view.SteadyRisers.Rows[0].ProductName != "Vitamin C Serum" {
		t.Errorf("SteadyRisers.Rows = %+v, want only Vitamin C Serum", view.SteadyRisers.Rows)
	}
}

func TestReports_Explore(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData(threeMonthFixture())

	view := r.Explore(context.Background())

	wantListings := []models.PriceListing{
		{Rank: 1, ProductName: "Vitamin C Serum", Price: 12.50, Quantity: 60},
		{Rank: 2, ProductName: "Bamboo Comb", Price: 6.00, Quantity: 15},
	}
	if diff := cmp.Diff(wantListings, view.CareListings); diff != "" {
		t.Errorf("CareListings mismatch (-want +got):\n%s", diff)
	}

	if view.ThreeMonthSales.Error != "" {
		t.Fatalf("ThreeMonthSales.Error = %q, want none", view.ThreeMonthSales.Error)
	}
	// Budget band only, no filter: serum and comb both qualify, names
	// ascending.
	if len(view.ThreeMonthSales.Rows) != 2 {
		t.Fatalf("ThreeMonthSales.Rows = %+v, want 2 rows", view.ThreeMonthSales.Rows)
	}
	if view.ThreeMonthSales.Rows[0].ProductName != "Bamboo Comb" {
		t.Errorf("first row = %q, want Bamboo Comb", view.ThreeMonthSales.Rows[0].ProductName)
	}

	// Declining lamp shows up only in the negative table.
	if len(view.NegativeGrowth.Rows) != 1 || view.NegativeGrowth.Rows[0].ProductName != "Desk Lamp" {
		t.Errorf("NegativeGrowth.Rows = %+v, want only Desk Lamp", view.NegativeGrowth.Rows)
	}

	if len(view.TwoMonthSales.Rows) == 0 || view.TwoMonthSales.Rows[0].Price == 0 {
		t.Errorf("TwoMonthSales.Rows = %+v, want priced rows", view.TwoMonthSales.Rows)
	}

	// Delta basis: lamp fell 50 -> 40, serum rose 10 -> 20.
	if len(view.LastVsThirdLast.Rows) != 1 || view.LastVsThirdLast.Rows[0].ProductName != "Vitamin C Serum" {
		t.Errorf("LastVsThirdLast.Rows = %+v, want only Vitamin C Serum", view.LastVsThirdLast.Rows)
	}
	if got := view.LastVsThirdLast.Rows[0].Growth; got != 10 {
		t.Errorf("delta = %v, want 10", got)
	}
}

func TestReports_ViewsAreIdempotent(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData(threeMonthFixture())

	ctx := context.Background()
	first := r.Explore(ctx)
	second := r.Explore(ctx)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Explore not idempotent (-first +second):\n%s", diff)
	}
}

func TestReports_Stats(t *testing.T) {
	r := NewReports(testLogger())
	r.SetData(threeMonthFixture())

	stats := r.Stats()

	if got := stats["record_count"]; got != 9 {
		t.Errorf("record_count = %v, want 9", got)
	}
	if got := stats["product_count"]; got != 3 {
		t.Errorf("product_count = %v, want 3", got)
	}
	if got := stats["month_count"]; got != 3 {
		t.Errorf("month_count = %v, want 3", got)
	}
	if _, ok := stats["loaded_at"]; !ok {
		t.Error("loaded_at missing")
	}
}
