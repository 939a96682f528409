// Package settings models the read-only settings document the storefront
// consumes at bootstrap. Every field is optional; absent values resolve to
// the documented defaults.
package settings

import (
	"encoding/json"
	"io"

	"github.com/shadowwear/storefront-core/internal/promo"
	"github.com/shopspring/decimal"
)

// Defaults used when the document omits the shipping knobs.
var (
	DefaultFreeShippingThreshold = decimal.NewFromInt(500)
	DefaultShippingFlat          = decimal.NewFromInt(30)
)

const DefaultCurrency = "MAD"

// Document mirrors content/settings.json.
type Document struct {
	ShippingFlatMAD          *decimal.Decimal `json:"shippingFlatMAD,omitempty"`
	FreeShippingThresholdMAD *decimal.Decimal `json:"freeShippingThresholdMAD,omitempty"`
	PromoCodes               []promo.Promo    `json:"promoCodes,omitempty"`
	OwnerPhoneE164           string           `json:"ownerPhoneE164,omitempty"`
	Currency                 string           `json:"currency,omitempty"`
}

// Shipping is the resolved pair of knobs the totals computation needs.
type Shipping struct {
	FlatFee       decimal.Decimal
	FreeThreshold decimal.Decimal
}

// Shipping resolves the shipping knobs with defaults. Safe on a nil
// document, which is the state before the settings fetch resolves.
func (d *Document) Shipping() Shipping {
	resolved := Shipping{
		FlatFee:       DefaultShippingFlat,
		FreeThreshold: DefaultFreeShippingThreshold,
	}
	if d == nil {
		return resolved
	}
	if d.ShippingFlatMAD != nil {
		resolved.FlatFee = *d.ShippingFlatMAD
	}
	if d.FreeShippingThresholdMAD != nil {
		resolved.FreeThreshold = *d.FreeShippingThresholdMAD
	}
	return resolved
}

// Promos returns the promo table, empty on a nil document.
func (d *Document) Promos() []promo.Promo {
	if d == nil {
		return nil
	}
	return d.PromoCodes
}

// ResolvedCurrency returns the display currency with its default.
func (d *Document) ResolvedCurrency() string {
	if d == nil || d.Currency == "" {
		return DefaultCurrency
	}
	return d.Currency
}

// Parse decodes a settings document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
