// Package catalog loads products from the storefront's external sources: the
// rendered page, a YAML file or the Postgres catalog.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/product"
)

var (
	ErrUnknownFormat = errors.New("unknown catalog format")
	ErrNoDatabase    = errors.New("postgres catalog needs a database handle")
)

// Source yields the current product list. An empty, non-nil slice means the
// source holds no usable product data.
type Source interface {
	Load(ctx context.Context) ([]product.Product, error)
}

// Open selects a source by format: "html", "yaml" or "postgres".
func Open(format, path string, db *sql.DB) (Source, error) {
	switch format {
	case "html":
		return NewHTMLSource(path), nil
	case "yaml":
		return NewYAMLSource(path), nil
	case "postgres":
		if db == nil {
			return nil, ErrNoDatabase
		}
		return NewRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
