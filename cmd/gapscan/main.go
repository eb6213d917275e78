package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gapscanhq/gapscan/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gapscan",
		Short: "gapscan - knowledge-gap analysis for customer support content",
		Long: `gapscan finds the questions customers actually ask that the help center
does not answer. It anonymizes call transcripts and emails, extracts the
questions, matches them semantically against existing articles, and
reports the prioritized gaps.

Environment variables:
  GAPSCAN_OPENAI_API_KEY          OpenAI API key (required for analysis)
  GAPSCAN_INTERCOM_ACCESS_TOKEN   Intercom token (for fetch-kb and publish)
  GAPSCAN_REPORTS_DIR             Reports directory (default: ./reports)`,
		Version: version,
	}

	rootCmd.AddCommand(cli.ProcessCmd())
	rootCmd.AddCommand(cli.FetchKBCmd())
	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.PublishCmd())
	rootCmd.AddCommand(cli.TestIntercomCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
