package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("CATALOG_PAGE_SIZE", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Supabase.URL != "https://abc.supabase.co" || cfg.Supabase.AnonKey != "anon" {
		t.Errorf("unexpected supabase config %+v", cfg.Supabase)
	}
	if cfg.Catalog.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", cfg.Catalog.PageSize)
	}
	if cfg.Mongo.Database != "radiox" || cfg.Log.Level != "info" {
		t.Errorf("defaults not applied: %+v %+v", cfg.Mongo, cfg.Log)
	}
	if cfg.Postgres.ConnMaxLife != 30*time.Minute {
		t.Errorf("ConnMaxLife = %v, want 30m", cfg.Postgres.ConnMaxLife)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=postgres://localhost/radiox\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// godotenv does not override existing variables; make sure these are unset.
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://localhost/radiox" || cfg.Log.Level != "debug" {
		t.Errorf("env file not applied: %+v %+v", cfg.Postgres, cfg.Log)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "radiox", Collection: "shows"},
		Log:     LogConfig{Level: "info"},
		Catalog: CatalogConfig{PageSize: 20, TimeZone: "UTC"},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad page size", mutate: func(c *Config) { c.Catalog.PageSize = 0 }, wantErr: true},
		{name: "bad time zone", mutate: func(c *Config) { c.Catalog.TimeZone = "Nowhere/Land" }, wantErr: true},
		{name: "page size too large", mutate: func(c *Config) { c.Catalog.PageSize = 5000 }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "missing mongo collection", mutate: func(c *Config) { c.Mongo.Collection = "" }, wantErr: true},
		{name: "supabase url not a url", mutate: func(c *Config) { c.Supabase.URL = "abc" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "supabase rest", cfg: Config{Supabase: SupabaseConfig{URL: "https://abc.supabase.co", AnonKey: "k"}}},
		{name: "supabase password", cfg: Config{Supabase: SupabaseConfig{URL: "https://abc.supabase.co", Password: "p"}}},
		{name: "supabase dsn", cfg: Config{Supabase: SupabaseConfig{ConnectionString: "postgres://x"}}},
		{name: "postgres", cfg: Config{Postgres: PostgresConfig{DSN: "postgres://x"}}},
		{name: "nothing", cfg: Config{}, wantErr: true},
		{name: "url without key", cfg: Config{Supabase: SupabaseConfig{URL: "https://abc.supabase.co"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireStore()
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireStore() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
