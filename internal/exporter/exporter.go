// Package exporter serializes the current result collection to the
// products_data.json download artifact.
package exporter

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leafletlens/client/internal/domain"
)

// Filename is the name of the exported artifact.
const Filename = "products_data.json"

const msgExported = "JSON file downloaded successfully!"

// Exporter writes the product collection as pretty-printed JSON. No
// network involvement; serialization is purely local.
type Exporter struct {
	dir      string
	notifier domain.Notifier
}

// New creates an exporter writing into dir.
func New(dir string, notifier domain.Notifier) *Exporter {
	return &Exporter{dir: dir, notifier: notifier}
}

// Marshal renders the collection as UTF-8 JSON with 2-space indentation,
// array-of-objects at the top level. A nil collection exports as [].
// Re-parsing the output reproduces the collection exactly, null optional
// fields included.
func Marshal(products []domain.Product) ([]byte, error) {
	if products == nil {
		products = []domain.Product{}
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize products: %w", err)
	}
	return data, nil
}

// Export writes the artifact to disk and emits a success notification.
func (e *Exporter) Export(products []domain.Product) (string, error) {
	data, err := Marshal(products)
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", Filename, err)
	}

	e.notifier.Notify(msgExported, domain.NotifySuccess)
	log.Printf("[exporter] Wrote %d products to %s", len(products), path)
	return path, nil
}
