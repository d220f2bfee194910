package category

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// GetNames returns the display names stored for each category id.
	GetNames(ctx context.Context) (map[string]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNames(ctx context.Context) (map[string]string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetNames"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			c.name
		FROM categories c
		ORDER BY c.name ASC
	`)
	if err != nil {
		log.Error("DB query failed GetNames", zap.Error(err))
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	log.Debug("categories loaded", zap.Int("count", len(names)))
	return names, nil
}

// Load builds a directory from the stored names. A nil db yields the
// defaults.
func Load(ctx context.Context, db *sql.DB) (*Directory, error) {
	if db == nil {
		return NewDirectory(nil), nil
	}
	names, err := NewRepository(db).GetNames(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(names), nil
}
