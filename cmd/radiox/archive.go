package main

import (
	"context"

	"github.com/spf13/cobra"

	"radiox-catalog/pkg/db"
	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/replication"
)

var (
	archiveLimit     int
	archiveWorkers   int
	archiveBatch     int
	archiveOverwrite bool
	archiveEnrich    bool
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy normalized shows into the MongoDB archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, closeFn, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		mongo := db.NewClient(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := mongo.Connect(ctx); err != nil {
			return err
		}
		defer mongo.Close(context.Background())

		var enrichFn replication.EnrichFunc
		if archiveEnrich {
			e := newEnricher()
			enrichFn = func(ctx context.Context, s domain.Show) domain.Show {
				return e.EnrichShow(ctx, s)
			}
		}

		archiver, err := replication.NewArchiver(replication.Config{
			Source:     source,
			Store:      mongo,
			Normalizer: newNormalizer(),
			Logger:     log,
			Enrich:     enrichFn,
			BatchSize:  archiveBatch,
			NumWorkers: archiveWorkers,
			Overwrite:  archiveOverwrite,
		})
		if err != nil {
			return err
		}

		stats, err := archiver.Run(ctx, archiveLimit)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), stats)
	},
}

func init() {
	archiveCmd.Flags().IntVarP(&archiveLimit, "limit", "n", 500, "maximum number of shows to read")
	archiveCmd.Flags().IntVar(&archiveWorkers, "workers", 4, "parallel archive workers")
	archiveCmd.Flags().IntVar(&archiveBatch, "batch", 50, "shows per batch")
	archiveCmd.Flags().BoolVar(&archiveOverwrite, "overwrite", false, "re-save shows that are already archived")
	archiveCmd.Flags().BoolVar(&archiveEnrich, "enrich", false, "fill missing article metadata before saving")
	rootCmd.AddCommand(archiveCmd)
}
