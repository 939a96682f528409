package search

import (
	"testing"

	"github.com/shadowwear/storefront-core/internal/catalog"
)

func sampleCatalog() []catalog.Product {
	return []catalog.Product{
		{ID: "tsh-001", Title: "Shadow Tee", Brand: "shadowwear", Category: "tshirts"},
		{ID: "hd-002", Title: "Night Hoodie", Brand: "shadowwear", Category: "hoodies"},
		{ID: "snk-003", Title: "Street Runner", Brand: "kicks co", Category: "sneakers"},
		{ID: "tsh-004", Title: "Moon Tee", Brand: "lunar", Category: "tshirts"},
	}
}

func TestFilterCategoryAllMatchesEverything(t *testing.T) {
	got := Filter(sampleCatalog(), Query{Category: "all"})
	if len(got) != 4 {
		t.Fatalf("expected all products, got %d", len(got))
	}
}

func TestFilterCategoryExactCaseInsensitive(t *testing.T) {
	got := Filter(sampleCatalog(), Query{Category: "TShirts"})
	if len(got) != 2 {
		t.Fatalf("expected 2 tshirts, got %d", len(got))
	}
	if got[0].ID != "tsh-001" || got[1].ID != "tsh-004" {
		t.Fatalf("expected catalog order preserved, got %v", []string{got[0].ID, got[1].ID})
	}
}

func TestFilterTermMatchesTitleBrandOrID(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "title substring", term: "tee", want: []string{"tsh-001", "tsh-004"}},
		{name: "brand substring", term: "KICKS", want: []string{"snk-003"}},
		{name: "id substring", term: "hd-0", want: []string{"hd-002"}},
		{name: "whitespace trimmed", term: "  runner ", want: []string{"snk-003"}},
		{name: "empty matches all", term: "", want: []string{"tsh-001", "hd-002", "snk-003", "tsh-004"}},
		{name: "no match", term: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleCatalog(), Query{Category: "all", Term: tt.term})
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(got))
			}
			for i, product := range got {
				if product.ID != tt.want[i] {
					t.Fatalf("expected %s at %d, got %s", tt.want[i], i, product.ID)
				}
			}
		})
	}
}

func TestFilterCombinesCategoryAndTerm(t *testing.T) {
	got := Filter(sampleCatalog(), Query{Category: "tshirts", Term: "moon"})
	if len(got) != 1 || got[0].ID != "tsh-004" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestFilterIsPure(t *testing.T) {
	products := sampleCatalog()
	Filter(products, Query{Category: "sneakers", Term: "street"})
	if products[0].ID != "tsh-001" || len(products) != 4 {
		t.Fatal("expected input slice untouched")
	}
}

func TestFilterAdminByTitleAndID(t *testing.T) {
	products := sampleCatalog()

	byTitle := FilterAdmin(products, "tee", AdminModeTitle)
	if len(byTitle) != 2 {
		t.Fatalf("expected 2 title matches, got %d", len(byTitle))
	}

	byID := FilterAdmin(products, "snk", AdminModeID)
	if len(byID) != 1 || byID[0].ID != "snk-003" {
		t.Fatalf("unexpected id matches %v", byID)
	}

	all := FilterAdmin(products, "   ", AdminModeTitle)
	if len(all) != 4 {
		t.Fatalf("expected full catalog for empty query, got %d", len(all))
	}
}
