// Package storefront wires the commerce components into one session
// engine: catalog, cart, wishlist, promo validation, totals, theme, and
// the admin edit session, all backed by the same durable store and event
// bus.
package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/shadowwear/storefront-core/internal/cart"
	"github.com/shadowwear/storefront-core/internal/catalog"
	"github.com/shadowwear/storefront-core/internal/promo"
	"github.com/shadowwear/storefront-core/internal/search"
	"github.com/shadowwear/storefront-core/internal/settings"
	"github.com/shadowwear/storefront-core/internal/wishlist"
	pkgerrors "github.com/shadowwear/storefront-core/pkg/errors"
	"github.com/shadowwear/storefront-core/pkg/events"
	"github.com/shadowwear/storefront-core/pkg/kv"
	"github.com/shadowwear/storefront-core/pkg/logger"
	"go.uber.org/multierr"
)

const themeKey = "theme"

// Params groups the engine dependencies.
type Params struct {
	Store  kv.Store
	Logger *logger.Logger
}

// Engine is the single-session storefront state machine. All operations
// run to completion synchronously; the mutex only covers the fields the
// bootstrap goroutines touch.
type Engine struct {
	store    kv.Store
	logg     *logger.Logger
	bus      *events.Bus
	catalog  catalog.Service
	cart     cart.Service
	wishlist wishlist.Service

	mtx         sync.Mutex
	settingsDoc *settings.Document
	ready       bool
	theme       string
	editingID   string
	editing     bool
}

// New restores persisted state (cart, promo, wishlist, theme) from the
// store and subscribes the dependent collections to the catalog cascade.
func New(ctx context.Context, params Params) (*Engine, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("kv store required")
	}

	bus := events.NewBus()

	catalogSvc, err := catalog.NewService(bus)
	if err != nil {
		return nil, err
	}
	cartSvc, err := cart.NewService(ctx, params.Store, bus, params.Logger)
	if err != nil {
		return nil, err
	}
	wishlistSvc, err := wishlist.NewService(ctx, params.Store, bus)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:    params.Store,
		logg:     params.Logger,
		bus:      bus,
		catalog:  catalogSvc,
		cart:     cartSvc,
		wishlist: wishlistSvc,
	}

	var theme string
	if params.Store.Load(ctx, themeKey, &theme) {
		e.theme = theme
	}

	bus.Subscribe(catalog.TopicProductDeleted, e.onProductDeleted)

	return e, nil
}

// CatalogFetcher loads the catalog document, typically from disk or a
// one-time network fetch performed by the caller.
type CatalogFetcher func(ctx context.Context) (*catalog.Document, error)

// SettingsFetcher loads the settings document.
type SettingsFetcher func(ctx context.Context) (*settings.Document, error)

// Bootstrap runs the two initial document loads concurrently; they may
// complete in either order. Until both have resolved the engine stays
// not-ready: an empty catalog and default shipping knobs. A failed fetch
// keeps the defaults and is reported, it never panics the session.
func (e *Engine) Bootstrap(ctx context.Context, fetchCatalog CatalogFetcher, fetchSettings SettingsFetcher) error {
	var (
		wg          sync.WaitGroup
		catalogDoc  *catalog.Document
		settingsDoc *settings.Document
		catalogErr  error
		settingsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if fetchCatalog != nil {
			catalogDoc, catalogErr = fetchCatalog(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		if fetchSettings != nil {
			settingsDoc, settingsErr = fetchSettings(ctx)
		}
	}()
	wg.Wait()

	if catalogErr != nil {
		e.warn(ctx, "catalog fetch failed, storefront stays empty", catalogErr)
	}
	if settingsErr != nil {
		e.warn(ctx, "settings fetch failed, keeping defaults", settingsErr)
	}

	e.mtx.Lock()
	if settingsDoc != nil {
		e.settingsDoc = settingsDoc
	}
	e.ready = catalogErr == nil && settingsErr == nil
	e.mtx.Unlock()

	if catalogDoc != nil {
		e.catalog.ReplaceAll(catalogDoc.Products)
	}

	return multierr.Combine(catalogErr, settingsErr)
}

// Ready reports whether both initial documents have resolved.
func (e *Engine) Ready() bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.ready
}

func (e *Engine) Catalog() catalog.Service {
	return e.catalog
}

func (e *Engine) Cart() cart.Service {
	return e.cart
}

func (e *Engine) Wishlist() wishlist.Service {
	return e.wishlist
}

// Settings returns the resolved settings document; nil before bootstrap.
func (e *Engine) Settings() *settings.Document {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.settingsDoc
}

// Totals computes the current cart totals under the active promo and the
// resolved (or default) shipping knobs.
func (e *Engine) Totals() cart.Totals {
	return e.cart.ComputeTotals(e.Settings().Shipping(), e.cart.ActivePromo())
}

// ApplyPromo validates the entered code against the settings table. A
// match activates the promo; an unknown code clears any previously active
// one; empty input changes nothing so the caller can prompt for a code.
func (e *Engine) ApplyPromo(ctx context.Context, code string) promo.Outcome {
	outcome := promo.Apply(code, e.Settings().Promos())
	switch outcome.Status {
	case promo.StatusApplied:
		e.cart.SetPromo(ctx, outcome.Promo)
	case promo.StatusNotFound:
		e.cart.SetPromo(ctx, nil)
	}
	return outcome
}

// FilterProducts runs the storefront filter over the current catalog.
func (e *Engine) FilterProducts(query search.Query) []catalog.Product {
	return search.Filter(e.catalog.List(), query)
}

// FilterAdmin runs the admin search over the current catalog.
func (e *Engine) FilterAdmin(query string, mode search.AdminMode) []catalog.Product {
	return search.FilterAdmin(e.catalog.List(), query, mode)
}

// SetTheme persists the theme preference; empty means the default theme.
func (e *Engine) SetTheme(ctx context.Context, theme string) {
	e.mtx.Lock()
	e.theme = theme
	e.mtx.Unlock()
	e.store.Save(ctx, themeKey, theme)
}

func (e *Engine) Theme() string {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.theme
}

// BeginEdit opens an admin edit session for the product.
func (e *Engine) BeginEdit(id string) error {
	if _, ok := e.catalog.Get(id); !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.editingID = id
	e.editing = true
	return nil
}

// EditingID returns the product under edit, if any.
func (e *Engine) EditingID() (string, bool) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.editingID, e.editing
}

// EndEdit closes the edit session.
func (e *Engine) EndEdit() {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.editingID = ""
	e.editing = false
}

// onProductDeleted resets an edit session that targets the deleted
// product.
func (e *Engine) onProductDeleted(ctx context.Context, evt events.Envelope) error {
	payload, ok := evt.Payload.(catalog.ProductDeleted)
	if !ok {
		return nil
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.editing && e.editingID == payload.ID {
		e.editingID = ""
		e.editing = false
	}
	return nil
}

func (e *Engine) warn(ctx context.Context, msg string, err error) {
	if e.logg == nil {
		return
	}
	e.logg.Error(ctx, msg, err)
}
