package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shadowwear/storefront-core/internal/storefront"
	"github.com/shadowwear/storefront-core/pkg/config"
	"github.com/shadowwear/storefront-core/pkg/kv"
	"github.com/shadowwear/storefront-core/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	store, err := newStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(ctx, "error closing store", err)
		}
	}()

	engine, err := storefront.New(ctx, storefront.Params{
		Store:  store,
		Logger: logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create engine", err)
		os.Exit(1)
	}

	if err := engine.Bootstrap(ctx,
		storefront.FileCatalogFetcher(cfg.Documents.CatalogPath),
		storefront.FileSettingsFetcher(cfg.Documents.SettingsPath),
	); err != nil {
		logg.Error(ctx, "bootstrap completed with errors", err)
	}

	totals := engine.Totals()
	logg.Info(ctx, fmt.Sprintf(
		"storefront ready=%v products=%d cart_items=%d wishlist=%d subtotal=%s total=%s theme=%q",
		engine.Ready(),
		len(engine.Catalog().List()),
		engine.Cart().Count(),
		len(engine.Wishlist().IDs()),
		totals.Subtotal,
		totals.Total,
		engine.Theme(),
	))
}

func newStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (kv.Store, error) {
	switch cfg.Store.NormalizedBackend() {
	case config.StoreBackendRedis:
		return kv.NewRedis(ctx, cfg.Redis, cfg.Store, logg)
	case config.StoreBackendMemory:
		return kv.NewMemory(), nil
	default:
		return kv.NewSQLite(ctx, cfg.Store, logg)
	}
}
