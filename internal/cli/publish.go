package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gapscanhq/gapscan/internal/config"
	"github.com/gapscanhq/gapscan/internal/intercom"
	"github.com/gapscanhq/gapscan/internal/report"
)

// PublishCmd creates the publish command.
func PublishCmd() *cobra.Command {
	var (
		draftsFile string
		authorID   int64
		live       bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Push FAQ drafts to the help center",
		Long: `Creates one help-center article per FAQ draft. Articles are created in
draft state unless --live is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), draftsFile, authorID, live)
		},
	}

	cmd.Flags().StringVarP(&draftsFile, "drafts", "d", "", "FAQ drafts JSON from generate (required)")
	cmd.Flags().Int64Var(&authorID, "author-id", 0, "Help-center author ID to attribute articles to")
	cmd.Flags().BoolVar(&live, "live", false, "Publish immediately instead of creating drafts")
	cmd.MarkFlagRequired("drafts")

	return cmd
}

func runPublish(ctx context.Context, draftsFile string, authorID int64, live bool) error {
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

	drafts, err := report.ReadFAQsJSON(draftsFile)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("No drafts to publish")
		return nil
	}

	client, err := intercom.NewClient(cfg.IntercomAccessToken, cfg.IntercomBaseURL, logger)
	if err != nil {
		return err
	}

	created, failed := 0, 0
	for _, draft := range drafts {
		if _, err := client.CreateArticleFromDraft(ctx, draft, authorID, live); err != nil {
			failed++
			fmt.Printf("failed: %s (%v)\n", draft.Question, err)
			continue
		}
		created++
	}

	state := "draft"
	if live {
		state = "published"
	}
	fmt.Printf("Created %d %s articles, %d failed\n", created, state, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d articles failed", failed, len(drafts))
	}
	return nil
}
