package cart

import (
	"context"
	"testing"

	"github.com/shadowwear/storefront-core/internal/catalog"
	"github.com/shadowwear/storefront-core/internal/promo"
	pkgerrors "github.com/shadowwear/storefront-core/pkg/errors"
	"github.com/shadowwear/storefront-core/pkg/events"
	"github.com/shadowwear/storefront-core/pkg/kv"
	"github.com/shopspring/decimal"
)

func newTestCart(t *testing.T) (Service, *kv.MemoryStore, *events.Bus) {
	t.Helper()
	store := kv.NewMemory()
	bus := events.NewBus()
	svc, err := NewService(context.Background(), store, bus, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, store, bus
}

func teeProduct() catalog.Product {
	return catalog.Product{
		ID:    "tsh-001",
		Title: "Shadow Tee",
		Price: decimal.NewFromInt(200),
		Image: "https://cdn.example.com/tsh-001.jpg",
	}
}

func strPtr(value string) *string {
	return &value
}

func TestAddLineMergesSameVariant(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Qty: 2, Color: strPtr("black"), Size: strPtr("M")})
	count := svc.AddLine(ctx, teeProduct(), AddOptions{Qty: 1, Color: strPtr("black"), Size: strPtr("M")})

	if count != 1 {
		t.Fatalf("expected one line for the product, got %d", count)
	}
	lines := svc.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Qty != 3 {
		t.Fatalf("expected qty 3, got %d", lines[0].Qty)
	}
}

func TestAddLineKeepsVariantsDistinct(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("black"), Size: strPtr("M")})
	count := svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("white"), Size: strPtr("M")})

	if count != 2 {
		t.Fatalf("expected two lines for the product, got %d", count)
	}
	if len(svc.Lines()) != 2 {
		t.Fatalf("expected two lines, got %d", len(svc.Lines()))
	}
}

func TestAddLineDefaultsQtyAndVariant(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{})
	svc.AddLine(ctx, teeProduct(), AddOptions{Qty: -3})

	lines := svc.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected variant-less additions to merge, got %d lines", len(lines))
	}
	if lines[0].Qty != 2 {
		t.Fatalf("expected qty 2 from two defaulted additions, got %d", lines[0].Qty)
	}
	if lines[0].Color != nil || lines[0].Size != nil {
		t.Fatalf("expected nil variant fields, got %+v", lines[0])
	}
}

func TestAddLineSnapshotsPrice(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	product := teeProduct()
	svc.AddLine(ctx, product, AddOptions{})
	product.Price = decimal.NewFromInt(999)

	if !svc.Lines()[0].Price.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected snapshot price 200, got %s", svc.Lines()[0].Price)
	}
}

func TestChangeQtyRemovesAtZero(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Qty: 2})
	if err := svc.ChangeQty(ctx, 0, -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Lines()[0].Qty != 1 {
		t.Fatalf("expected qty 1, got %d", svc.Lines()[0].Qty)
	}

	if err := svc.ChangeQty(ctx, 0, -5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.Lines()) != 0 {
		t.Fatal("expected line removal when qty drops to zero or below")
	}
}

func TestChangeQtyIndexOutOfRange(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	for _, index := range []int{-1, 0, 3} {
		err := svc.ChangeQty(ctx, index, 1)
		if err == nil {
			t.Fatalf("expected error for index %d", index)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeIndexRange {
			t.Fatalf("expected index code, got %v", err)
		}
	}
}

func TestRemoveLine(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("black")})
	svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("white")})

	if err := svc.RemoveLine(ctx, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := svc.Lines()
	if len(lines) != 1 || deref(lines[0].Color) != "white" {
		t.Fatalf("unexpected lines after removal %+v", lines)
	}

	if err := svc.RemoveLine(ctx, 5); err == nil {
		t.Fatal("expected index error")
	}
}

func TestClearKeepsPromo(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{})
	svc.SetPromo(ctx, &promo.Promo{Code: "SAVE10", Type: "percent", Value: decimal.NewFromInt(10)})
	svc.Clear(ctx)

	if len(svc.Lines()) != 0 {
		t.Fatal("expected empty cart")
	}
	if svc.ActivePromo() == nil {
		t.Fatal("expected promo to survive a clear")
	}
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	first, err := NewService(ctx, store, events.NewBus(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.AddLine(ctx, teeProduct(), AddOptions{Qty: 2, Color: strPtr("black")})
	first.SetPromo(ctx, &promo.Promo{Code: "SAVE10", Type: "percent", Value: decimal.NewFromInt(10)})

	second, err := NewService(ctx, store, events.NewBus(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := second.Lines()
	if len(lines) != 1 || lines[0].Qty != 2 || deref(lines[0].Color) != "black" {
		t.Fatalf("unexpected restored lines %+v", lines)
	}
	active := second.ActivePromo()
	if active == nil || active.Code != "SAVE10" {
		t.Fatalf("unexpected restored promo %+v", active)
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	store.Corrupt(storageKey, []byte("][ nope"))

	svc, err := NewService(ctx, store, events.NewBus(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.Lines()) != 0 || svc.ActivePromo() != nil {
		t.Fatal("expected empty state from corrupt snapshot")
	}
}

func TestRestoreDropsNonPositiveQtyLines(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	store.Save(ctx, storageKey, snapshot{Cart: []Line{
		{ProductID: "tsh-001", Qty: 2},
		{ProductID: "hd-002", Qty: 0},
		{ProductID: "snk-003", Qty: -1},
	}})

	svc, err := NewService(ctx, store, events.NewBus(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := svc.Lines()
	if len(lines) != 1 || lines[0].ProductID != "tsh-001" {
		t.Fatalf("expected only the positive-qty line, got %+v", lines)
	}
}

func TestRenameCascadeRekeysLines(t *testing.T) {
	svc, _, bus := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("black")})
	svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("white")})

	err := bus.Publish(ctx, catalog.TopicProductRenamed, catalog.ProductRenamed{OldID: "tsh-001", NewID: "tsh-100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range svc.Lines() {
		if line.ProductID != "tsh-100" {
			t.Fatalf("expected rekeyed line, got %+v", line)
		}
	}
}

func TestUpdateCascadeRefreshesDisplayFields(t *testing.T) {
	svc, _, bus := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{})

	refreshed := teeProduct()
	refreshed.Title = "Shadow Tee v2"
	refreshed.Price = decimal.NewFromInt(250)
	refreshed.Image = "https://cdn.example.com/tsh-001-v2.jpg"

	err := bus.Publish(ctx, catalog.TopicProductUpdated, catalog.ProductUpdated{Product: refreshed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := svc.Lines()[0]
	if line.Title != "Shadow Tee v2" {
		t.Fatalf("expected refreshed title, got %q", line.Title)
	}
	if !line.Price.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected refreshed price, got %s", line.Price)
	}
	if line.Image != "https://cdn.example.com/tsh-001-v2.jpg" {
		t.Fatalf("expected refreshed image, got %q", line.Image)
	}
}

func TestDeleteCascadeRemovesLines(t *testing.T) {
	svc, store, bus := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Color: strPtr("black")})
	other := teeProduct()
	other.ID = "hd-002"
	svc.AddLine(ctx, other, AddOptions{})

	err := bus.Publish(ctx, catalog.TopicProductDeleted, catalog.ProductDeleted{ID: "tsh-001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := svc.Lines()
	if len(lines) != 1 || lines[0].ProductID != "hd-002" {
		t.Fatalf("expected only the surviving product, got %+v", lines)
	}

	// The cascade result is what got persisted.
	var stored snapshot
	if !store.Load(ctx, storageKey, &stored) {
		t.Fatal("expected persisted snapshot")
	}
	if len(stored.Cart) != 1 || stored.Cart[0].ProductID != "hd-002" {
		t.Fatalf("unexpected persisted snapshot %+v", stored.Cart)
	}
}

func TestCountSumsQuantities(t *testing.T) {
	svc, _, _ := newTestCart(t)
	ctx := context.Background()

	svc.AddLine(ctx, teeProduct(), AddOptions{Qty: 2, Color: strPtr("black")})
	svc.AddLine(ctx, teeProduct(), AddOptions{Qty: 3, Color: strPtr("white")})

	if svc.Count() != 5 {
		t.Fatalf("expected count 5, got %d", svc.Count())
	}
}
