package warehouse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sellerwave/internal/models"
)

func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// parseSale converts one source record into a Sale. Records are rejected,
// not repaired: a bad date, price or quantity skips the row.
func parseSale(record []string, idx columnIndex) (models.Sale, error) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	collDate, err := time.Parse(dateLayout, field("coll_date"))
	if err != nil {
		return models.Sale{}, err
	}

	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil {
		return models.Sale{}, err
	}
	if price < 0 {
		return models.Sale{}, fmt.Errorf("negative price %v", price)
	}

	qty, err := strconv.Atoi(field("qty_sold"))
	if err != nil {
		return models.Sale{}, err
	}
	if qty < 0 {
		return models.Sale{}, fmt.Errorf("negative quantity %d", qty)
	}

	name := field("product_name")
	if name == "" {
		return models.Sale{}, fmt.Errorf("empty product name")
	}

	return models.Sale{
		ProductName:    name,
		Category:       field("product_category"),
		PriceBand:      field("price_cat"),
		RatingBand:     field("rating_cat"),
		Price:          price,
		QuantitySold:   qty,
		CollectionDate: collDate,
		MonthLabel:     field("month"),
	}, nil
}
