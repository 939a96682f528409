package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/shadowwear/storefront-core/pkg/errors"
	"github.com/shadowwear/storefront-core/pkg/events"
	"github.com/shopspring/decimal"
)

// Service owns the ordered product collection. Mutations that change a
// product's identity cascade into the dependent collections through the
// event bus before the call returns.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Product, error)
	Update(ctx context.Context, targetID string, input UpdateInput) (*Product, error)
	Delete(ctx context.Context, id string) error
	BulkImport(ctx context.Context, products []Product) (int, error)
	ExportSnapshot() Document
	WriteExport(w io.Writer) error
	ReadImport(ctx context.Context, r io.Reader) (int, error)
	Get(id string) (*Product, bool)
	List() []Product
	ReplaceAll(products []Product)
}

// CreateInput holds the admin payload to create a product.
type CreateInput struct {
	ID          string          `json:"id" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Image       string          `json:"image" validate:"required"`
	Colors      []string        `json:"colors"`
	Sizes       []string        `json:"sizes"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	SoldCount   int             `json:"soldCount"`
}

// UpdateInput holds optional mutation values; a non-nil ID is an identity
// change that triggers the rename cascade.
type UpdateInput struct {
	ID          *string
	Title       *string
	Brand       *string
	Category    *string
	Price       *decimal.Decimal
	Currency    *string
	Image       *string
	Colors      *[]string
	Sizes       *[]string
	Rating      *float64
	ReviewCount *int
	SoldCount   *int
}

type service struct {
	bus      *events.Bus
	products []Product
	index    map[string]int
}

// NewService constructs the catalog store. The bus carries the identity
// cascade, so it is required even for a catalog nobody subscribes to yet.
func NewService(bus *events.Bus) (Service, error) {
	if bus == nil {
		return nil, fmt.Errorf("event bus required")
	}
	return &service{
		bus:   bus,
		index: map[string]int{},
	}, nil
}

// Create validates the payload and appends the product.
func (s *service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Title = strings.TrimSpace(input.Title)
	input.Image = strings.TrimSpace(input.Image)

	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero").
			WithDetails(map[string]string{"price": "must be greater than 0"})
	}
	if _, exists := s.index[input.ID]; exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id already exists").
			WithDetails(map[string]string{"id": "must be unique"})
	}

	product := Product{
		ID:          input.ID,
		Title:       input.Title,
		Brand:       input.Brand,
		Category:    input.Category,
		Price:       input.Price,
		Currency:    input.Currency,
		Image:       input.Image,
		Colors:      append([]string(nil), input.Colors...),
		Sizes:       append([]string(nil), input.Sizes...),
		Rating:      input.Rating,
		ReviewCount: input.ReviewCount,
		SoldCount:   input.SoldCount,
	}

	s.products = append(s.products, product)
	s.index[product.ID] = len(s.products) - 1

	stored := product
	return &stored, nil
}

// Update applies the payload to the target product. An identity change is
// published as ProductRenamed so cart lines and wishlist entries are
// rekeyed before this returns; ProductUpdated always follows so display
// snapshots refresh whether or not the id changed.
func (s *service) Update(ctx context.Context, targetID string, input UpdateInput) (*Product, error) {
	pos, ok := s.index[targetID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	oldID := s.products[pos].ID
	newID := oldID
	if input.ID != nil {
		newID = strings.TrimSpace(*input.ID)
		if newID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id cannot be empty")
		}
		if other, exists := s.index[newID]; exists && other != pos {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id already exists").
				WithDetails(map[string]string{"id": "must be unique"})
		}
	}
	if input.Price != nil && input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
	}

	applyUpdate(&s.products[pos], input)
	s.products[pos].ID = newID
	if newID != oldID {
		delete(s.index, oldID)
		s.index[newID] = pos
	}

	if newID != oldID {
		if err := s.bus.Publish(ctx, TopicProductRenamed, ProductRenamed{OldID: oldID, NewID: newID}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename cascade")
		}
	}
	if err := s.bus.Publish(ctx, TopicProductUpdated, ProductUpdated{Product: s.products[pos]}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cascade")
	}

	updated := s.products[pos]
	return &updated, nil
}

// Delete removes the product and its dependent references. Deleting an
// unknown id is a no-op.
func (s *service) Delete(ctx context.Context, id string) error {
	pos, ok := s.index[id]
	if !ok {
		return nil
	}

	s.products = append(s.products[:pos], s.products[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.products); i++ {
		s.index[s.products[i].ID] = i
	}

	if err := s.bus.Publish(ctx, TopicProductDeleted, ProductDeleted{ID: id}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cascade")
	}
	return nil
}

// BulkImport appends the supplied list without de-duplicating against
// existing ids. Reads by id resolve to the first occurrence.
func (s *service) BulkImport(ctx context.Context, products []Product) (int, error) {
	for _, product := range products {
		s.products = append(s.products, product)
		if _, exists := s.index[product.ID]; !exists {
			s.index[product.ID] = len(s.products) - 1
		}
	}
	return len(products), nil
}

// ExportSnapshot returns the full catalog as a serializable document.
func (s *service) ExportSnapshot() Document {
	return Document{Products: append([]Product(nil), s.products...)}
}

// WriteExport encodes the export artifact.
func (s *service) WriteExport(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.ExportSnapshot()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encoding catalog export")
	}
	return nil
}

// ReadImport decodes an import payload and appends its products.
func (s *service) ReadImport(ctx context.Context, r io.Reader) (int, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding catalog import")
	}
	return s.BulkImport(ctx, doc.Products)
}

func (s *service) Get(id string) (*Product, bool) {
	pos, ok := s.index[id]
	if !ok {
		return nil, false
	}
	product := s.products[pos]
	return &product, true
}

// List returns the catalog in insertion order.
func (s *service) List() []Product {
	return append([]Product(nil), s.products...)
}

// ReplaceAll seeds the catalog from the fetched document. First occurrence
// wins in the id index when the document carries duplicates.
func (s *service) ReplaceAll(products []Product) {
	s.products = append([]Product(nil), products...)
	s.index = make(map[string]int, len(products))
	for i, product := range s.products {
		if _, exists := s.index[product.ID]; !exists {
			s.index[product.ID] = i
		}
	}
}

func applyUpdate(product *Product, input UpdateInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Currency != nil {
		product.Currency = *input.Currency
	}
	if input.Image != nil {
		product.Image = strings.TrimSpace(*input.Image)
	}
	if input.Colors != nil {
		product.Colors = append([]string(nil), *input.Colors...)
	}
	if input.Sizes != nil {
		product.Sizes = append([]string(nil), *input.Sizes...)
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.ReviewCount != nil {
		product.ReviewCount = *input.ReviewCount
	}
	if input.SoldCount != nil {
		product.SoldCount = *input.SoldCount
	}
}
