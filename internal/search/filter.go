// Package search is the catalog filter engine: pure predicates over a
// product slice, cheap enough to run on every keystroke (debounce is the
// caller's concern).
package search

import (
	"strings"

	"github.com/shadowwear/storefront-core/internal/catalog"
)

// CategoryAll matches every product regardless of category.
const CategoryAll = "all"

// Query describes the storefront filter knobs.
type Query struct {
	Category string
	Term     string
}

// AdminMode selects which field the admin search matches against.
type AdminMode string

const (
	AdminModeTitle AdminMode = "name"
	AdminModeID    AdminMode = "id"
)

// Filter applies category and term predicates, preserving catalog order.
// The term matches as a case-insensitive substring of title, brand, or id.
func Filter(products []catalog.Product, query Query) []catalog.Product {
	term := strings.ToLower(strings.TrimSpace(query.Term))
	category := strings.TrimSpace(query.Category)

	matched := make([]catalog.Product, 0, len(products))
	for _, product := range products {
		if !matchesCategory(product, category) {
			continue
		}
		if !matchesTerm(product, term) {
			continue
		}
		matched = append(matched, product)
	}
	return matched
}

// FilterAdmin is the admin surface search: exact field selected by mode,
// empty query returns the full catalog.
func FilterAdmin(products []catalog.Product, query string, mode AdminMode) []catalog.Product {
	value := strings.ToLower(strings.TrimSpace(query))
	if value == "" {
		return append([]catalog.Product(nil), products...)
	}

	matched := make([]catalog.Product, 0, len(products))
	for _, product := range products {
		var haystack string
		if mode == AdminModeID {
			haystack = product.ID
		} else {
			haystack = product.Title
		}
		if strings.Contains(strings.ToLower(haystack), value) {
			matched = append(matched, product)
		}
	}
	return matched
}

func matchesCategory(product catalog.Product, category string) bool {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}
	return strings.EqualFold(product.Category, category)
}

func matchesTerm(product catalog.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(product.Title), term) ||
		strings.Contains(strings.ToLower(product.Brand), term) ||
		strings.Contains(strings.ToLower(product.ID), term)
}
