package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultFilterRecomputeDelay = 150 * time.Millisecond
	DefaultSearchDebounce       = 300 * time.Millisecond
	DefaultRevealStagger        = 50 * time.Millisecond
	DefaultMaxLineQuantity      = 99
	DefaultCurrencySymbol       = "$"
	DefaultBusinessName         = "Suplementos Premium"
	DefaultAppPort              = "8080"
	DefaultCatalogFormat        = "yaml"
	DefaultAllowedOrigin        = "http://localhost:3000"
)

var (
	ErrInvalidMaxQuantity = errors.New("MAX_LINE_QUANTITY must be at least 1")
	ErrUnknownCatalog     = errors.New("CATALOG_FORMAT must be html, yaml or postgres")
	ErrMissingCatalog     = errors.New("CATALOG_PATH is required for file catalogs")
	ErrMissingDatabase    = errors.New("DB_HOST is required for the postgres catalog")
)

type Config struct {
	AppEnv        string
	AppPort       string
	AllowedOrigin string

	// Storefront behaviour
	FilterRecomputeDelay time.Duration
	SearchDebounce       time.Duration
	RevealStagger        time.Duration
	MaxLineQuantity      int
	CurrencySymbol       string
	BusinessName         string
	OrderLanguage        string
	WhatsAppNumber       string

	// Catalog
	CatalogFormat string
	CatalogPath   string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
}

// LoadConfig reads .env (if present) and the environment. Absent or
// unparsable values fall back to the defaults.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:        os.Getenv("APP_ENV"),
		AppPort:       getString("APP_PORT", DefaultAppPort),
		AllowedOrigin: getString("CORS_ALLOWED_ORIGIN", DefaultAllowedOrigin),

		FilterRecomputeDelay: getMillis("FILTER_RECOMPUTE_DELAY_MS", DefaultFilterRecomputeDelay),
		SearchDebounce:       getMillis("SEARCH_DEBOUNCE_MS", DefaultSearchDebounce),
		RevealStagger:        getMillis("REVEAL_STAGGER_MS", DefaultRevealStagger),
		MaxLineQuantity:      getInt("MAX_LINE_QUANTITY", DefaultMaxLineQuantity),
		CurrencySymbol:       getString("CURRENCY_SYMBOL", DefaultCurrencySymbol),
		BusinessName:         getString("BUSINESS_NAME", DefaultBusinessName),
		OrderLanguage:        getString("ORDER_LANGUAGE", "en"),
		WhatsAppNumber:       os.Getenv("WHATSAPP_NUMBER"),

		CatalogFormat: getString("CATALOG_FORMAT", DefaultCatalogFormat),
		CatalogPath:   os.Getenv("CATALOG_PATH"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getString("DB_PORT", "5432"),
	}
}

// Validate reports settings the storefront cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxLineQuantity < 1 {
		errs = append(errs, ErrInvalidMaxQuantity)
	}
	switch c.CatalogFormat {
	case "html", "yaml":
		if c.CatalogPath == "" {
			errs = append(errs, ErrMissingCatalog)
		}
	case "postgres":
		if c.DBHost == "" {
			errs = append(errs, ErrMissingDatabase)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrUnknownCatalog, c.CatalogFormat))
	}
	return errors.Join(errs...)
}

// DSN is the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getMillis(key string, def time.Duration) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}
