package promo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TypePercent is the only discount type the totals computation interprets.
// Unknown types are carried through untouched so a newer settings document
// does not break an older storefront.
const TypePercent = "percent"

// Promo is a discount entry sourced from the settings document. The cart
// never mutates these; it only holds a reference to the active one.
type Promo struct {
	Code  string          `json:"code"`
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// IsPercent reports whether the promo scales totals.
func (p Promo) IsPercent() bool {
	return strings.EqualFold(p.Type, TypePercent)
}

// Status classifies the result of a code lookup.
type Status string

const (
	StatusApplied    Status = "applied"
	StatusEmptyInput Status = "empty_input"
	StatusNotFound   Status = "not_found"
)

// Outcome is the non-fatal result of validating user promo input. Both
// EmptyInput and NotFound are recoverable; the caller decides the message.
type Outcome struct {
	Status Status
	Promo  *Promo
}

// Apply trims and case-folds the entered code and looks it up in the
// settings-supplied table. Pure: no state is touched here.
func Apply(codeText string, table []Promo) Outcome {
	trimmed := strings.TrimSpace(codeText)
	if trimmed == "" {
		return Outcome{Status: StatusEmptyInput}
	}
	for _, candidate := range table {
		if strings.EqualFold(candidate.Code, trimmed) {
			matched := candidate
			return Outcome{Status: StatusApplied, Promo: &matched}
		}
	}
	return Outcome{Status: StatusNotFound}
}
