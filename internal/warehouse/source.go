package warehouse

import (
	"context"
	"fmt"

	"sellerwave/internal/config"
	"sellerwave/internal/models"
)

// Source is the injected warehouse collaborator: one scoped fetch returns
// an immutable snapshot of sales rows, capped at the configured limit.
// The reporting layer never writes back.
type Source interface {
	Fetch(ctx context.Context) ([]models.Sale, error)
}

// MissingColumnError reports that the source lacks a required column.
// It is fatal for the fetch; there is nothing to retry.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("source is missing required column %q", e.Column)
}

// Required columns, by their canonical source names.
var requiredColumns = []string{
	"product_name",
	"product_category",
	"price_cat",
	"rating_cat",
	"price",
	"qty_sold",
	"coll_date",
	"month",
}

const dateLayout = "2006-01-02"

// Open builds the Source the config names.
func Open(cfg config.WarehouseConfig) (Source, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.Path, cfg.FetchLimit), nil
	case "csv":
		return NewCSV(cfg.Path, cfg.FetchLimit), nil
	case "xlsx":
		return NewExcel(cfg.Path, cfg.FetchLimit), nil
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", cfg.Driver)
	}
}

type columnIndex map[string]int

// indexColumns maps required column names to their positions in a header
// row; the first missing column aborts the fetch.
func indexColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[normalizeColumn(name)] = i
	}

	idx := make(columnIndex, len(requiredColumns))
	for _, col := range requiredColumns {
		i, ok := byName[col]
		if !ok {
			return nil, &MissingColumnError{Column: col}
		}
		idx[col] = i
	}
	return idx, nil
}
