package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gapscanhq/gapscan/internal/config"
	"github.com/gapscanhq/gapscan/internal/ingest"
	"github.com/gapscanhq/gapscan/internal/intercom"
)

// FetchKBCmd creates the fetch-kb command.
func FetchKBCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch-kb",
		Short: "Fetch help-center articles to a local file",
		Long:  "Downloads every help-center article and saves it for offline process runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetchKB(cmd.Context(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "kb_articles.json", "Destination file")

	return cmd
}

func runFetchKB(ctx context.Context, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.HasIntercom() {
		return fmt.Errorf("GAPSCAN_INTERCOM_ACCESS_TOKEN is required")
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := intercom.NewClient(cfg.IntercomAccessToken, cfg.IntercomBaseURL, logger)
	if err != nil {
		return err
	}

	articles, err := client.FetchArticles(ctx)
	if err != nil {
		return err
	}

	if err := ingest.SaveArticles(output, articles); err != nil {
		return err
	}

	fmt.Printf("Saved %d articles to %s\n", len(articles), output)
	return nil
}
