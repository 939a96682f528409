package cart

import (
	"context"
	"fmt"

	"github.com/shadowwear/storefront-core/internal/catalog"
	"github.com/shadowwear/storefront-core/internal/promo"
	"github.com/shadowwear/storefront-core/internal/settings"
	pkgerrors "github.com/shadowwear/storefront-core/pkg/errors"
	"github.com/shadowwear/storefront-core/pkg/events"
	"github.com/shadowwear/storefront-core/pkg/kv"
	"github.com/shadowwear/storefront-core/pkg/logger"
)

const storageKey = "cart"

// Service owns the cart lines and the active promo, the two pieces that
// share a persisted snapshot. Every mutation saves the snapshot; a failed
// save never rolls back the in-memory state.
type Service interface {
	AddLine(ctx context.Context, product catalog.Product, opts AddOptions) int
	ChangeQty(ctx context.Context, index, delta int) error
	RemoveLine(ctx context.Context, index int) error
	Clear(ctx context.Context)
	Lines() []Line
	Count() int
	ActivePromo() *promo.Promo
	SetPromo(ctx context.Context, active *promo.Promo)
	ComputeTotals(shipping settings.Shipping, active *promo.Promo) Totals
}

// AddOptions selects the variant and quantity for an addition. A zero or
// negative Qty falls back to 1; nil color/size mean a variant-less product.
type AddOptions struct {
	Qty   int
	Color *string
	Size  *string
}

type service struct {
	store kv.Store
	logg  *logger.Logger
	lines []Line
	promo *promo.Promo
}

// NewService restores the persisted snapshot (soft-fail: a missing or
// corrupt snapshot starts an empty cart) and subscribes to the catalog
// cascade events.
func NewService(ctx context.Context, store kv.Store, bus *events.Bus, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus required")
	}

	s := &service{store: store, logg: logg}

	var stored snapshot
	if store.Load(ctx, storageKey, &stored) {
		s.promo = stored.Promo
		for _, line := range stored.Cart {
			if line.Qty >= 1 {
				s.lines = append(s.lines, line)
			}
		}
		if logg != nil {
			logg.Debug(logg.WithComponent(ctx, "cart"), "cart snapshot restored")
		}
	}

	bus.Subscribe(catalog.TopicProductRenamed, s.onProductRenamed)
	bus.Subscribe(catalog.TopicProductUpdated, s.onProductUpdated)
	bus.Subscribe(catalog.TopicProductDeleted, s.onProductDeleted)

	return s, nil
}

// AddLine merges by (product, color, size): a matching line absorbs the
// quantity, otherwise a new line snapshots the product's current price.
// Returns the resulting number of lines for this product.
func (s *service) AddLine(ctx context.Context, product catalog.Product, opts AddOptions) int {
	qty := opts.Qty
	if qty <= 0 {
		qty = 1
	}

	key := keyOf(product.ID, opts.Color, opts.Size)
	merged := false
	for i := range s.lines {
		if s.lines[i].key() == key {
			s.lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Color:     copyString(opts.Color),
			Size:      copyString(opts.Size),
			Qty:       qty,
		})
	}

	s.persist(ctx)
	return s.lineCountFor(product.ID)
}

// ChangeQty adds the signed delta to a line's quantity. A result at or
// below zero removes the line; a zero-qty line is never stored.
func (s *service) ChangeQty(ctx context.Context, index, delta int) error {
	if index < 0 || index >= len(s.lines) {
		return pkgerrors.New(pkgerrors.CodeIndexRange, "cart line index out of range").
			WithDetails(map[string]int{"index": index, "lines": len(s.lines)})
	}

	s.lines[index].Qty += delta
	if s.lines[index].Qty <= 0 {
		s.lines = append(s.lines[:index], s.lines[index+1:]...)
	}

	s.persist(ctx)
	return nil
}

// RemoveLine deletes the line unconditionally.
func (s *service) RemoveLine(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.lines) {
		return pkgerrors.New(pkgerrors.CodeIndexRange, "cart line index out of range").
			WithDetails(map[string]int{"index": index, "lines": len(s.lines)})
	}

	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	s.persist(ctx)
	return nil
}

// Clear empties all lines. The active promo survives a clear.
func (s *service) Clear(ctx context.Context) {
	s.lines = nil
	s.persist(ctx)
}

func (s *service) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// Count is the total quantity across lines, the cart badge number.
func (s *service) Count() int {
	total := 0
	for _, line := range s.lines {
		total += line.Qty
	}
	return total
}

func (s *service) ActivePromo() *promo.Promo {
	if s.promo == nil {
		return nil
	}
	active := *s.promo
	return &active
}

// SetPromo replaces the active promo (nil clears) and persists the shared
// snapshot.
func (s *service) SetPromo(ctx context.Context, active *promo.Promo) {
	if active == nil {
		s.promo = nil
	} else {
		copied := *active
		s.promo = &copied
	}
	s.persist(ctx)
}

// ComputeTotals is pure over the current lines; safe to call repeatedly.
func (s *service) ComputeTotals(shipping settings.Shipping, active *promo.Promo) Totals {
	return computeTotals(s.lines, shipping, active)
}

func (s *service) onProductRenamed(ctx context.Context, evt events.Envelope) error {
	payload, ok := evt.Payload.(catalog.ProductRenamed)
	if !ok {
		return nil
	}
	touched := false
	for i := range s.lines {
		if s.lines[i].ProductID == payload.OldID {
			s.lines[i].ProductID = payload.NewID
			touched = true
		}
	}
	if touched {
		s.persist(ctx)
	}
	return nil
}

func (s *service) onProductUpdated(ctx context.Context, evt events.Envelope) error {
	payload, ok := evt.Payload.(catalog.ProductUpdated)
	if !ok {
		return nil
	}
	touched := false
	for i := range s.lines {
		if s.lines[i].ProductID == payload.Product.ID {
			s.lines[i].Title = payload.Product.Title
			s.lines[i].Price = payload.Product.Price
			s.lines[i].Image = payload.Product.Image
			touched = true
		}
	}
	if touched {
		s.persist(ctx)
	}
	return nil
}

func (s *service) onProductDeleted(ctx context.Context, evt events.Envelope) error {
	payload, ok := evt.Payload.(catalog.ProductDeleted)
	if !ok {
		return nil
	}
	kept := s.lines[:0]
	touched := false
	for _, line := range s.lines {
		if line.ProductID == payload.ID {
			touched = true
			continue
		}
		kept = append(kept, line)
	}
	if touched {
		s.lines = kept
		s.persist(ctx)
	}
	return nil
}

func (s *service) lineCountFor(productID string) int {
	count := 0
	for _, line := range s.lines {
		if line.ProductID == productID {
			count++
		}
	}
	return count
}

func (s *service) persist(ctx context.Context) {
	s.store.Save(ctx, storageKey, snapshot{Cart: s.lines, Promo: s.promo})
}

func copyString(src *string) *string {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
