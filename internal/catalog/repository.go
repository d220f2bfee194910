package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/logger"
	"storefront/internal/product"

	"go.uber.org/zap"
)

// Repository reads the catalog from Postgres.
type Repository interface {
	Source
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectProducts = `
	SELECT
		id,
		name,
		brand,
		category,
		price,
		image_url,
		description
	FROM products
`

func (r *repository) Load(ctx context.Context) ([]product.Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Load"),
	)
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, selectProducts+`
	WHERE active = TRUE
	ORDER BY position, id
	`)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := product.Validate(&p); err != nil {
			log.Warn("skipping product", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	log.Info("catalog loaded",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	row := r.db.QueryRowContext(ctx, selectProducts+`
	WHERE id = $1 AND active = TRUE
	`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := product.Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (product.Product, error) {
	var (
		p           product.Product
		category    sql.NullString
		price       sql.NullFloat64
		description sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Brand, &category, &price, &p.ImageURL, &description); err != nil {
		return product.Product{}, err
	}
	p.Category = category.String
	p.Description = description.String
	if price.Valid {
		p.Price = product.PriceOf(price.Float64)
	}
	return p, nil
}
