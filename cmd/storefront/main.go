package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"storefront/internal/catalog"
	"storefront/internal/category"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/product"

	"github.com/alecthomas/kong"
)

type Globals struct {
	Products   []product.Product
	Categories *category.Directory
	Config     *config.Config
	Out        io.Writer
}

type CLI struct {
	Products ProductsCmd `cmd:"" aliases:"ls" help:"Filter and search the catalog"`
	Order    OrderCmd    `cmd:"" help:"Build an order message and chat link"`
	Export   ExportCmd   `cmd:"" help:"Write the catalog as YAML"`

	Catalog string `short:"c" env:"CATALOG_PATH" help:"Path to the catalog page or file"`
	Format  string `short:"f" env:"CATALOG_FORMAT" enum:"html,yaml,postgres" default:"yaml" help:"Catalog format"`
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	cfg := config.LoadConfig()
	cfg.CatalogPath = c.Catalog
	cfg.CatalogFormat = c.Format

	products, categories, err := loadProducts(context.Background(), cfg)
	if err != nil {
		return err
	}

	ctx.Bind(&Globals{Products: products, Categories: categories, Config: cfg, Out: os.Stdout})
	return nil
}

func loadProducts(ctx context.Context, cfg *config.Config) ([]product.Product, *category.Directory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var database *sql.DB
	if cfg.CatalogFormat == "postgres" {
		var err error
		database, err = db.NewDatabase(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		defer database.Close()
	}

	source, err := catalog.Open(cfg.CatalogFormat, cfg.CatalogPath, database)
	if err != nil {
		return nil, nil, err
	}
	products, err := source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	categories, err := category.Load(ctx, database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return products, categories, nil
}

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("storefront"),
		kong.Description("Storefront catalog filtering and order tool"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
