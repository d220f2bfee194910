package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"

	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// NewDatabase opens the Postgres catalog database and checks it is reachable.
func NewDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	return newDatabaseWithDriver(ctx, cfg, "postgres")
}

func newDatabaseWithDriver(ctx context.Context, cfg *config.Config, driver string) (*sql.DB, error) {
	db, err := sql.Open(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.FromCtx(ctx).Info("database connection established")
	return db, nil
}
