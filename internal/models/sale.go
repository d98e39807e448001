package models

import "time"

// Sale is one collected sales observation: a product seen on a collection
// date with the quantity sold since the previous collection. MonthLabel is
// the label the source attaches to the row; labels are only ordered by the
// dates of the rows that carry them, never parsed as calendar months.
type Sale struct {
	ProductName    string
	Category       string
	PriceBand      string
	RatingBand     string
	Price          float64
	QuantitySold   int
	CollectionDate time.Time
	MonthLabel     string
}

type BreakdownRow struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Quantity int     `json:"quantity"`
	Share    float64 `json:"share_pct"`
}

type ProductTotal struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity_sold"`
}

type PriceListing struct {
	Rank        int     `json:"rank"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity_sold"`
}
