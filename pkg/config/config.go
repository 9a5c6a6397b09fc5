package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Supabase SupabaseConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Enrich   EnrichConfig
}

// SupabaseConfig holds the backing store credentials.
type SupabaseConfig struct {
	URL              string `envconfig:"SUPABASE_URL" validate:"omitempty,url"`
	AnonKey          string `envconfig:"SUPABASE_ANON_KEY"`
	Password         string `envconfig:"SUPABASE_DB_PASSWORD"`
	ConnectionString string `envconfig:"SUPABASE_DB_URL"`
}

// PostgresConfig selects a plain Postgres database instead of Supabase when set.
type PostgresConfig struct {
	DSN          string        `envconfig:"DATABASE_URL"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10" validate:"gte=0"`
	MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5" validate:"gte=0"`
	ConnMaxLife  time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m" validate:"gte=0"`
}

// MongoConfig holds the archive location.
type MongoConfig struct {
	URI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017" validate:"required"`
	Database   string `envconfig:"MONGO_DB" default:"radiox" validate:"required"`
	Collection string `envconfig:"MONGO_COLLECTION" default:"shows" validate:"required"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error"`
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
}

// CatalogConfig holds normalization settings.
type CatalogConfig struct {
	PageSize int    `envconfig:"CATALOG_PAGE_SIZE" default:"20" validate:"gt=0,lte=1000"`
	TimeZone string `envconfig:"CATALOG_TIMEZONE" default:"Europe/Berlin" validate:"required"`
}

// EnrichConfig holds article enrichment settings.
type EnrichConfig struct {
	Timeout    time.Duration `envconfig:"ENRICH_TIMEOUT" default:"15s" validate:"gte=0"`
	MaxRetries uint64        `envconfig:"ENRICH_MAX_RETRIES" default:"2" validate:"lte=10"`
	// Concurrency bounds parallel page fetches per show.
	Concurrency       int `envconfig:"ENRICH_CONCURRENCY" default:"4" validate:"gte=0,lte=32"`
	RequestsPerMinute int `envconfig:"ENRICH_REQUESTS_PER_MINUTE" default:"120" validate:"gte=0"`
}

// Load reads configuration from the environment, after loading .env files if present.
func Load(files ...string) (*Config, error) {
	// Missing .env files are fine; the environment may already be populated.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Catalog.TimeZone); err != nil {
		return fmt.Errorf("CATALOG_TIMEZONE: %w", err)
	}
	return nil
}

// RequireStore reports an error unless some show store is configured.
func (c *Config) RequireStore() error {
	if c.Postgres.DSN != "" || c.Supabase.ConnectionString != "" {
		return nil
	}
	if c.Supabase.URL != "" && (c.Supabase.AnonKey != "" || c.Supabase.Password != "") {
		return nil
	}
	return fmt.Errorf("either DATABASE_URL, SUPABASE_DB_URL or SUPABASE_URL with SUPABASE_ANON_KEY/SUPABASE_DB_PASSWORD is required")
}

// Location returns the time zone show dates are rendered in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Catalog.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
