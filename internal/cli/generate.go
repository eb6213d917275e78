package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	openaiapi "github.com/sashabaranov/go-openai"

	"github.com/gapscanhq/gapscan/internal/config"
	"github.com/gapscanhq/gapscan/internal/generate"
	"github.com/gapscanhq/gapscan/internal/openai"
	"github.com/gapscanhq/gapscan/internal/report"
)

// GenerateCmd creates the generate command.
func GenerateCmd() *cobra.Command {
	var (
		gapsFile  string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate FAQ drafts from an earlier gap analysis",
		Long:  "Reads a gaps CSV written by process and produces FAQ draft candidates for each gap.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), gapsFile, outputDir)
		},
	}

	cmd.Flags().StringVarP(&gapsFile, "gaps", "g", "", "Gaps CSV from a process run (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Reports directory (default from config)")
	cmd.MarkFlagRequired("gaps")

	return cmd
}

func runGenerate(ctx context.Context, gapsFile, outputDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("GAPSCAN_OPENAI_API_KEY is required")
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gaps, err := report.ReadGapsCSV(gapsFile)
	if err != nil {
		return err
	}
	if len(gaps) == 0 {
		fmt.Println("No gaps to generate FAQs for")
		return nil
	}

	client := openai.NewClientWithConfig(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		ChatModel:      cfg.LLMModel,
	})

	gen := generate.NewGenerator(client, logger)
	drafts, skipped := gen.Generate(ctx, gaps)

	dir := outputDir
	if dir == "" {
		dir = cfg.ReportsDir
	}
	if dir == "" {
		dir = filepath.Dir(gapsFile)
	}
	writer, err := report.NewWriter(dir, logger)
	if err != nil {
		return err
	}

	path, err := writer.WriteFAQsJSON(drafts)
	if err != nil {
		return err
	}
	if _, err := writer.WriteFAQsCSV(drafts); err != nil {
		return err
	}

	fmt.Printf("Generated %d FAQ drafts (%d skipped), written to %s\n", len(drafts), skipped, path)
	return nil
}
