package cart

import (
	"github.com/shadowwear/storefront-core/internal/promo"
	"github.com/shadowwear/storefront-core/internal/settings"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the checkout summary. Total already includes shipping and any
// active percent discount.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// computeTotals derives the summary from the lines: subtotal is the sum
// of price times quantity, shipping is waived once the subtotal reaches
// the free threshold, and a percent promo scales subtotal plus shipping.
// Promo types other than percent pass through unchanged.
func computeTotals(lines []Line, shipping settings.Shipping, active *promo.Promo) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}

	fee := shipping.FlatFee
	if subtotal.GreaterThanOrEqual(shipping.FreeThreshold) {
		fee = decimal.Zero
	}

	total := subtotal.Add(fee)
	if active != nil && active.IsPercent() {
		total = total.Mul(decimal.NewFromInt(1).Sub(active.Value.Div(hundred)))
	}

	return Totals{Subtotal: subtotal, Shipping: fee, Total: total}
}
