package main

import (
	"github.com/spf13/cobra"

	"radiox-catalog/pkg/domain"
	"radiox-catalog/pkg/feed"
	"radiox-catalog/pkg/httpclient"
)

var feedCmd = &cobra.Command{
	Use:   "feed <url>",
	Short: "Import a podcast feed and print its episodes as normalized shows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		importer := feed.NewImporter(httpclient.NewClient(httpclient.SimpleClient, cfg.Enrich.Timeout))
		records, err := importer.Fetch(ctx, args[0])
		if err != nil {
			return err
		}

		n := newNormalizer()
		shows := make([]domain.Show, 0, len(records))
		for _, r := range records {
			shows = append(shows, n.Normalize(r))
		}
		log.WithField("count", len(shows)).Info("Imported feed")
		if xlsxPath != "" {
			return writeRundown(xlsxPath, shows)
		}
		return writeJSON(cmd.OutOrStdout(), shows)
	},
}

func init() {
	feedCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an xlsx rundown to this path instead of JSON")
	rootCmd.AddCommand(feedCmd)
}
