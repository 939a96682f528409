package wishlist

import (
	"context"
	"fmt"

	"github.com/shadowwear/storefront-core/internal/catalog"
	"github.com/shadowwear/storefront-core/pkg/events"
	"github.com/shadowwear/storefront-core/pkg/kv"
)

const storageKey = "wishlist"

// Service is the saved-products set: pure id membership, persisted on
// every toggle. Insertion order is kept so the stored list is stable.
type Service interface {
	Toggle(ctx context.Context, id string) bool
	Has(id string) bool
	IDs() []string
}

type service struct {
	store kv.Store
	ids   []string
	index map[string]struct{}
}

// NewService restores the persisted id list (soft-fail to empty) and
// subscribes to the catalog cascade events.
func NewService(ctx context.Context, store kv.Store, bus *events.Bus) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if bus == nil {
		return nil, fmt.Errorf("event bus required")
	}

	s := &service{store: store, index: map[string]struct{}{}}

	var stored []string
	if store.Load(ctx, storageKey, &stored) {
		for _, id := range stored {
			if _, seen := s.index[id]; seen {
				continue
			}
			s.ids = append(s.ids, id)
			s.index[id] = struct{}{}
		}
	}

	bus.Subscribe(catalog.TopicProductRenamed, s.onProductRenamed)
	bus.Subscribe(catalog.TopicProductDeleted, s.onProductDeleted)

	return s, nil
}

// Toggle adds the id if absent, removes it if present, and returns the
// resulting membership.
func (s *service) Toggle(ctx context.Context, id string) bool {
	if _, present := s.index[id]; present {
		s.remove(id)
		s.persist(ctx)
		return false
	}

	s.ids = append(s.ids, id)
	s.index[id] = struct{}{}
	s.persist(ctx)
	return true
}

func (s *service) Has(id string) bool {
	_, present := s.index[id]
	return present
}

func (s *service) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s *service) onProductRenamed(ctx context.Context, evt events.Envelope) error {
	payload, ok := evt.Payload.(catalog.ProductRenamed)
	if !ok {
		return nil
	}
	if _, present := s.index[payload.OldID]; !present {
		return nil
	}

	for i, id := range s.ids {
		if id == payload.OldID {
			s.ids[i] = payload.NewID
			break
		}
	}
	delete(s.index, payload.OldID)
	s.index[payload.NewID] = struct{}{}
	s.persist(ctx)
	return nil
}

func (s *service) onProductDeleted(ctx context.Context, evt events.Envelope) error {
	payload, ok := evt.Payload.(catalog.ProductDeleted)
	if !ok {
		return nil
	}
	if _, present := s.index[payload.ID]; !present {
		return nil
	}
	s.remove(payload.ID)
	s.persist(ctx)
	return nil
}

func (s *service) remove(id string) {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	delete(s.index, id)
}

func (s *service) persist(ctx context.Context) {
	s.store.Save(ctx, storageKey, s.ids)
}
