package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"radiox-catalog/pkg/config"
	"radiox-catalog/pkg/db"
	"radiox-catalog/pkg/enrich"
	"radiox-catalog/pkg/httpclient"
	"radiox-catalog/pkg/logger"
	"radiox-catalog/pkg/normalize"
)

var (
	envFile  string
	logLevel string
	pretty   bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "radiox",
	Short: "Read, normalize and archive RadioX shows",
	Long: `radiox reads show rows from the RadioX store (Supabase or Postgres), turns every
generation of the stored show format into one canonical playback shape and prints it
as JSON. It can also archive normalized shows to MongoDB and import podcast feeds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func setup() error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	loaded, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log = logger.New(level, cfg.Log.Environment)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent JSON output")
}

// openSource connects to Postgres when DATABASE_URL is set and to Supabase otherwise.
func openSource(ctx context.Context) (db.RecordSource, func() error, error) {
	if err := cfg.RequireStore(); err != nil {
		return nil, nil, err
	}

	pool := db.PoolConfig{
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
		ConnMaxLife:  cfg.Postgres.ConnMaxLife,
	}

	if cfg.Postgres.DSN != "" {
		client := db.NewPostgresClient(db.PostgresConfig{DSN: cfg.Postgres.DSN, Pool: pool})
		if err := client.Connect(ctx); err != nil {
			return nil, nil, err
		}
		log.Debug("Reading shows from Postgres")
		return client, client.Close, nil
	}

	client := db.NewSupabaseClient(db.SupabaseConfig{
		ConnectionString: cfg.Supabase.ConnectionString,
		SupabaseURL:      cfg.Supabase.URL,
		SupabaseKey:      cfg.Supabase.AnonKey,
		Password:         cfg.Supabase.Password,
		Pool:             pool,
	})
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	log.WithField("direct_db", client.HasDirectDB()).Debug("Reading shows from Supabase")
	return client, client.Close, nil
}

func newNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.WithLocation(cfg.Location()))
}

func newEnricher() *enrich.Enricher {
	return enrich.New(enrich.Config{
		Fetcher:    httpclient.NewClient(httpclient.BrowserClient, cfg.Enrich.Timeout),
		Logger:     log,
		MaxRetries: cfg.Enrich.MaxRetries,

		Concurrency:       cfg.Enrich.Concurrency,
		RequestsPerMinute: cfg.Enrich.RequestsPerMinute,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
