// Package cart implements the cart collection: variant-keyed line merge,
// quantity edits, totals, and the durable snapshot it shares with the
// active promo.
package cart

import (
	"github.com/shadowwear/storefront-core/internal/promo"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Title, Price, and Image are snapshots taken at
// add time and only refreshed by the catalog update cascade.
type Line struct {
	ProductID string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Color     *string         `json:"color"`
	Size      *string         `json:"size"`
	Qty       int             `json:"qty"`
}

// variantKey is the merge identity: two additions collapse into one line
// only when product, color, and size all match. Nil variant values
// normalize to the empty string.
type variantKey struct {
	productID string
	color     string
	size      string
}

func keyOf(productID string, color, size *string) variantKey {
	return variantKey{
		productID: productID,
		color:     deref(color),
		size:      deref(size),
	}
}

func (l Line) key() variantKey {
	return keyOf(l.ProductID, l.Color, l.Size)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// snapshot is the persisted shape shared by the cart lines and the active
// promo. Field names match the stored JSON documents.
type snapshot struct {
	Cart  []Line       `json:"cart"`
	Promo *promo.Promo `json:"promo"`
}
