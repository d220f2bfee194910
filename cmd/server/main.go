package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/category"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpapi"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/storefront"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Replaced in tests.
var (
	openDBFunc = db.NewDatabase
	serveFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var database *sql.DB
	if cfg.CatalogFormat == "postgres" {
		var err error
		database, err = openDBFunc(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	source, err := catalog.Open(cfg.CatalogFormat, cfg.CatalogPath, database)
	if err != nil {
		return err
	}
	products, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	categories, err := category.Load(ctx, database)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	session := newSession(cfg, products, metrics.New(reg))
	limiter := middleware.NewLimiter()
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(cfg, session, categories, reg, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return session.Run(gctx) })
	g.Go(func() error { return limiter.Run(gctx) })

	if cfg.CatalogFormat != "postgres" {
		w := catalog.NewWatcher(cfg.CatalogPath, catalog.DefaultWatchQuiet, rescan(source, session))
		g.Go(func() error { return w.Run(gctx) })
	}

	g.Go(func() error {
		logger.L().Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("catalog", cfg.CatalogFormat),
			zap.Int("products", len(products)),
		)
		if err := serveFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newSession(cfg *config.Config, products []product.Product, m *metrics.Metrics) *storefront.Session {
	channel := order.LinkChannel{Phone: cfg.WhatsAppNumber, Open: logLink}
	orders := order.NewService(channel, order.Options{
		BusinessName: cfg.BusinessName,
		Currency:     cfg.CurrencySymbol,
		Templates:    order.TemplatesFor(cfg.OrderLanguage),
	})

	return storefront.NewSession(products, storefront.Options{
		FilterDelay:   cfg.FilterRecomputeDelay,
		SearchDelay:   cfg.SearchDebounce,
		RevealStagger: cfg.RevealStagger,
		MaxQuantity:   cfg.MaxLineQuantity,
		Orders:        orders,
		Metrics:       m,
	})
}

// newServer wires the API behind the middleware chain, plus /health.
func newServer(cfg *config.Config, session httpapi.Storefront, categories *category.Directory, reg prometheus.Gatherer, limiter *middleware.Limiter) http.Handler {
	api := httpapi.NewHandler(session, httpapi.Options{
		Phone:      cfg.WhatsAppNumber,
		Gatherer:   reg,
		Categories: categories,
	})
	return setupRouter(middleware.Chain(api,
		logger.RequestIDMiddleware,
		logger.LoggingMiddleware,
		middleware.Recover,
		middleware.CORS(cfg.AllowedOrigin),
		limiter.Middleware,
	))
}

func setupRouter(api http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/", api)
	return mux
}

// logLink is the server's chat opener: the browser opens the link returned
// by the checkout route, so the server only records it.
func logLink(ctx context.Context, link string) error {
	logger.FromCtx(ctx).Info("order link ready", zap.Int("length", len(link)))
	return nil
}

// rescan reloads the catalog and hands it to the session.
func rescan(source catalog.Source, session *storefront.Session) func(ctx context.Context) {
	return func(ctx context.Context) {
		log := logger.FromCtx(ctx).With(zap.String("layer", "server"))
		products, err := source.Load(ctx)
		if err != nil {
			log.Warn("catalog reload failed, keeping current products", zap.Error(err))
			return
		}
		if err := session.Rescan(ctx, products); err != nil && !errors.Is(err, storefront.ErrSessionClosed) {
			log.Warn("rescan failed", zap.Error(err))
		}
	}
}
