package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shadowwear/storefront-core/internal/catalog"
	"github.com/shadowwear/storefront-core/internal/settings"
)

// FileCatalogFetcher reads the catalog document from a local JSON file.
func FileCatalogFetcher(path string) CatalogFetcher {
	return func(ctx context.Context) (*catalog.Document, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog document: %w", err)
		}
		defer f.Close()

		var doc catalog.Document
		if err := json.NewDecoder(f).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode catalog document: %w", err)
		}
		return &doc, nil
	}
}

// FileSettingsFetcher reads the settings document from a local JSON file.
func FileSettingsFetcher(path string) SettingsFetcher {
	return func(ctx context.Context) (*settings.Document, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open settings document: %w", err)
		}
		defer f.Close()

		doc, err := settings.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("decode settings document: %w", err)
		}
		return doc, nil
	}
}
