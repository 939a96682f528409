package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entity. The ID is the stable primary key chosen by
// the admin; it stays unique across the catalog at all times.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Image       string          `json:"image"`
	Colors      []string        `json:"colors,omitempty"`
	Sizes       []string        `json:"sizes,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	ReviewCount int             `json:"reviewCount,omitempty"`
	SoldCount   int             `json:"soldCount,omitempty"`
}

// Document is the wire shape of the catalog: the initial fetch, the export
// artifact, and the import payload all share it.
type Document struct {
	Products []Product `json:"products"`
}
