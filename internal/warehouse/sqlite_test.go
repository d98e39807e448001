package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func createTestDB(t *testing.T, schema string, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create table: %v", err)
	}

	for _, row := range rows {
		if _, err := db.Exec(
			`INSERT INTO sales (product_name, product_category, price_cat, rating_cat, price, qty_sold, coll_date, month)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row...,
		); err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}
	return path
}

const testSchema = `CREATE TABLE sales (
	product_name TEXT,
	product_category TEXT,
	price_cat TEXT,
	rating_cat TEXT,
	price REAL,
	qty_sold INTEGER,
	coll_date TEXT,
	month TEXT
)`

func TestSQLite_Fetch(t *testing.T) {
	path := createTestDB(t, testSchema, [][]any{
		{"Vitamin C Serum", "Beauty & Personal Care", "$0-20", "Excellent", 12.50, 10, "2024-01-05", "Jan"},
		{"Desk Lamp", "Home & Kitchen", "$20-50", "Good", 34.00, 40, "2024-01-06", "Jan"},
	})

	src := NewSQLite(path, 1000)
	sales, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(sales) != 2 {
		t.Fatalf("got %d rows, want 2", len(sales))
	}
	if sales[0].ProductName != "Vitamin C Serum" {
		t.Errorf("ProductName = %q, want Vitamin C Serum", sales[0].ProductName)
	}
	if sales[0].Price != 12.50 {
		t.Errorf("Price = %v, want 12.50", sales[0].Price)
	}
	if sales[1].MonthLabel != "Jan" {
		t.Errorf("MonthLabel = %q, want Jan", sales[1].MonthLabel)
	}
}

func TestSQLite_Fetch_SkipsInvalidRows(t *testing.T) {
	path := createTestDB(t, testSchema, [][]any{
		{"Good Row", "Cat", "$0-20", "Good", 1.00, 1, "2024-01-05", "Jan"},
		{"Bad Date", "Cat", "$0-20", "Good", 1.00, 1, "last tuesday", "Jan"},
		{"Bad Qty", "Cat", "$0-20", "Good", 1.00, -3, "2024-01-05", "Jan"},
	})

	src := NewSQLite(path, 1000)
	sales, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(sales) != 1 || sales[0].ProductName != "Good Row" {
		t.Errorf("got %+v, want only the valid row", sales)
	}
}

func TestSQLite_Fetch_RespectsLimit(t *testing.T) {
	var rows [][]any
	for i := 0; i < 20; i++ {
		rows = append(rows, []any{"Product", "Cat", "$0-20", "Good", 1.00, 1, "2024-01-05", "Jan"})
	}
	path := createTestDB(t, testSchema, rows)

	src := NewSQLite(path, 5)
	sales, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(sales) != 5 {
		t.Errorf("got %d rows, want 5", len(sales))
	}
}

func TestSQLite_Fetch_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE sales (product_name TEXT, price REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	db.Close()

	src := NewSQLite(path, 1000)
	_, err = src.Fetch(context.Background())

	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("Fetch() error = %v, want MissingColumnError", err)
	}
}

func TestSQLite_Fetch_EmptyTable(t *testing.T) {
	path := createTestDB(t, testSchema, nil)

	src := NewSQLite(path, 1000)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Fetch() on empty table should fail")
	}
}
