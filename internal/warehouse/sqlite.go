package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sellerwave/internal/models"
)

const salesTable = "sales"

// SQLite reads the sales table from a SQLite warehouse file, the local
// stand-in for the hosted warehouse the reports originally queried.
type SQLite struct {
	path  string
	limit int
}

func NewSQLite(path string, limit int) *SQLite {
	return &SQLite{path: path, limit: limit}
}

func (s *SQLite) Fetch(ctx context.Context) ([]models.Sale, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := s.checkColumns(ctx, db); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT product_name, product_category, price_cat, rating_cat, price, qty_sold, coll_date, month FROM %q LIMIT ?`,
		salesTable,
	)
	rows, err := db.QueryContext(ctx, query, s.limit)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var (
			sale     models.Sale
			collDate string
		)
		if err := rows.Scan(
			&sale.ProductName,
			&sale.Category,
			&sale.PriceBand,
			&sale.RatingBand,
			&sale.Price,
			&sale.QuantitySold,
			&collDate,
			&sale.MonthLabel,
		); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}

		sale.CollectionDate, err = time.Parse(dateLayout, collDate)
		if err != nil {
			continue // skip rows with unparseable dates
		}
		if sale.QuantitySold < 0 || sale.Price < 0 {
			continue
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales rows: %w", err)
	}

	if len(sales) == 0 {
		return nil, fmt.Errorf("no valid sales rows found")
	}
	return sales, nil
}

func (s *SQLite) checkColumns(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q LIMIT 0`, salesTable))
	if err != nil {
		return fmt.Errorf("inspect sales table: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	_, err = indexColumns(cols)
	return err
}
