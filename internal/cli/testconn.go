package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gapscanhq/gapscan/internal/config"
	"github.com/gapscanhq/gapscan/internal/intercom"
)

// TestIntercomCmd creates the test-intercom command.
func TestIntercomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-intercom",
		Short: "Verify the help-center credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestIntercom(cmd.Context())
		},
	}
}

func runTestIntercom(ctx context.Context) error {
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

	if err := client.TestConnection(ctx); err != nil {
		return err
	}

	fmt.Println("Intercom connection OK")
	return nil
}
