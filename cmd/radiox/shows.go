package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"radiox-catalog/pkg/catalog"
	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/export"
)

var (
	showsLimit  int
	enrichShows bool
	xlsxPath    string
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "Print the newest normalized shows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, closeFn, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		limit := showsLimit
		if limit <= 0 {
			limit = cfg.Catalog.PageSize
		}

		shows, err := catalog.New(source, newNormalizer(), log).Shows(ctx, limit)
		if err != nil {
			return err
		}
		if enrichShows {
			e := newEnricher()
			for i := range shows {
				shows[i] = e.EnrichShow(ctx, shows[i])
			}
		}
		if xlsxPath != "" {
			return writeRundown(xlsxPath, shows)
		}
		return writeJSON(cmd.OutOrStdout(), shows)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one normalized show",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, closeFn, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		show, err := catalog.New(source, newNormalizer(), log).Show(ctx, args[0])
		if err != nil {
			return err
		}
		if show == nil {
			return fmt.Errorf("show %s not found", args[0])
		}
		if enrichShows {
			enriched := newEnricher().EnrichShow(ctx, *show)
			show = &enriched
		}
		return writeJSON(cmd.OutOrStdout(), show)
	},
}

var speakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "Print the speaker catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, closeFn, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		dir, err := catalog.New(source, nil, log).Speakers(ctx)
		if err != nil {
			return err
		}
		speakers := dir.All()
		if speakers == nil {
			speakers = []domain.Speaker{}
		}
		return writeJSON(cmd.OutOrStdout(), speakers)
	},
}

func writeRundown(path string, shows []domain.Show) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteRundown(f, shows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.WithField("path", path).WithField("shows", len(shows)).Info("Wrote rundown")
	return nil
}

func init() {
	showsCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an xlsx rundown to this path instead of JSON")
	showsCmd.Flags().IntVarP(&showsLimit, "limit", "n", 0, "maximum number of shows (default CATALOG_PAGE_SIZE)")
	for _, c := range []*cobra.Command{showsCmd, showCmd} {
		c.Flags().BoolVar(&enrichShows, "enrich", false, "fill missing article metadata from source pages")
	}
	rootCmd.AddCommand(showsCmd, showCmd, speakersCmd)
}
