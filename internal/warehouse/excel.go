package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"sellerwave/internal/models"
)

// Excel reads analyst-uploaded workbooks: first sheet, header row mapped
// by column name, one sale per data row.
type Excel struct {
	path  string
	limit int
}

func NewExcel(path string, limit int) *Excel {
	return &Excel{path: path, limit: limit}
}

func (e *Excel) Fetch(ctx context.Context) ([]models.Sale, error) {
	f, err := excelize.OpenFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook is empty")
	}

	idx, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var sales []models.Sale
	for _, row := range rows[1:] {
		if len(sales) >= e.limit {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if isEmptyRow(row) {
			continue
		}
		s, err := parseSale(row, idx)
		if err != nil {
			continue // skip invalid rows
		}
		sales = append(sales, s)
	}

	if len(sales) == 0 {
		return nil, fmt.Errorf("no valid sales rows found in %q", sheets[0])
	}
	return sales, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
