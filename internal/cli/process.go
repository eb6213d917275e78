package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	openaiapi "github.com/sashabaranov/go-openai"

	"github.com/gapscanhq/gapscan/internal/config"
	"github.com/gapscanhq/gapscan/internal/domain"
	"github.com/gapscanhq/gapscan/internal/gaps"
	"github.com/gapscanhq/gapscan/internal/generate"
	"github.com/gapscanhq/gapscan/internal/ingest"
	"github.com/gapscanhq/gapscan/internal/intercom"
	"github.com/gapscanhq/gapscan/internal/match"
	"github.com/gapscanhq/gapscan/internal/openai"
	"github.com/gapscanhq/gapscan/internal/pipeline"
	"github.com/gapscanhq/gapscan/internal/report"
	"github.com/gapscanhq/gapscan/internal/telemetry"
)

// ProcessCmd creates the process command.
func ProcessCmd() *cobra.Command {
	var (
		transcriptsDir string
		emailsDir      string
		kbFile         string
		outputDir      string
		generateFAQs   bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the full knowledge-gap analysis",
		Long: `Runs the full pipeline: parse transcripts and emails, anonymize them,
extract customer questions, match them against the knowledge base, and
write the gap report.

The knowledge base comes from --kb (a fetch-kb dump) or, when the
Intercom token is configured, directly from the help center.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), transcriptsDir, emailsDir, kbFile, outputDir, generateFAQs)
		},
	}

	cmd.Flags().StringVarP(&transcriptsDir, "transcripts", "t", "", "Directory of call transcript files (.json, .jsonl, .csv)")
	cmd.Flags().StringVarP(&emailsDir, "emails", "e", "", "Directory of email export files (.json)")
	cmd.Flags().StringVarP(&kbFile, "kb", "k", "", "Knowledge-base articles file (from fetch-kb)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Reports directory (default from config)")
	cmd.Flags().BoolVar(&generateFAQs, "generate-faqs", false, "Also generate FAQ drafts for the found gaps")

	return cmd
}

func runProcess(ctx context.Context, transcriptsDir, emailsDir, kbFile, outputDir string, generateFAQs bool) error {
	if transcriptsDir == "" && emailsDir == "" {
		return fmt.Errorf("at least one of --transcripts or --emails is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateAnalysis(); err != nil {
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

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return err
	}
	defer shutdown()

	source := "transcripts"
	switch {
	case transcriptsDir == "":
		source = "emails"
	case emailsDir != "":
		source = "transcripts+emails"
	}
	ctx, span := telemetry.StartSpan(ctx, "gapscan.process", telemetry.SpanAttributes{
		Operation: "process",
		Source:    source,
	})
	defer span.End()

	articles, err := loadKnowledgeBase(ctx, cfg, kbFile, logger)
	if err != nil {
		span.SetError(err)
		return err
	}

	telemetry.AddBreadcrumb(ctx, "pipeline", fmt.Sprintf("loaded %d knowledge-base articles", len(articles)))

	conversations, unparseable, err := loadConversations(transcriptsDir, emailsDir, logger)
	if err != nil {
		span.SetError(err)
		return err
	}
	if len(conversations) == 0 {
		return fmt.Errorf("no parseable conversations found")
	}
	telemetry.AddBreadcrumb(ctx, "pipeline", fmt.Sprintf("parsed %d conversations", len(conversations)))

	client := openai.NewClientWithConfig(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		ChatModel:      cfg.LLMModel,
	})
	embedder := match.NewCachedEmbedder(client)

	p, err := pipeline.New(embedder, client, pipeline.Options{
		SimilarityThreshold: cfg.SimilarityThreshold,
		DuplicateThreshold:  cfg.DuplicateThreshold,
		Weights: gaps.Weights{
			Urgency:   cfg.UrgencyWeight,
			Severity:  cfg.SeverityWeight,
			Frequency: cfg.FrequencyWeight,
		},
		TopN:    cfg.ReportTopN,
		Workers: cfg.Workers,
	}, logger)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, conversations, articles)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		span.SetError(err)
		return err
	}
	if unparseable > 0 {
		result.Summary.Skipped[domain.SkipReasonUnparseableSource] += unparseable
	}
	span.SetAttributes(telemetry.SpanAttributes{RunID: result.Summary.RunID})

	dir := outputDir
	if dir == "" {
		dir = cfg.ReportsDir
	}
	writer, err := report.NewWriter(dir, logger)
	if err != nil {
		return err
	}

	csvPath, err := writer.WriteGapsCSV(result.Gaps)
	if err != nil {
		return err
	}
	mdPath, err := writer.WriteMarkdown(result.Summary, result.Clusters)
	if err != nil {
		return err
	}

	if generateFAQs && len(result.Gaps) > 0 {
		gen := generate.NewGenerator(client, logger)
		drafts, skipped := gen.Generate(ctx, result.Gaps)
		if skipped > 0 {
			logger.Warn("some faq drafts were skipped", zap.Int("skipped", skipped))
		}
		if _, err := writer.WriteFAQsJSON(drafts); err != nil {
			return err
		}
		if _, err := writer.WriteFAQsCSV(drafts); err != nil {
			return err
		}
	}

	fmt.Printf("Analyzed %d questions against %d articles: %d covered, %d gaps (%.1f%% coverage)\n",
		result.Summary.TotalQuestions, result.Summary.TotalArticles,
		result.Summary.CoveredCount, result.Summary.GapCount, result.Summary.CoveragePct)
	fmt.Printf("Reports written to %s and %s\n", csvPath, mdPath)
	return nil
}

func loadKnowledgeBase(ctx context.Context, cfg *config.Config, kbFile string, logger *zap.Logger) ([]domain.Article, error) {
	if kbFile != "" {
		return ingest.LoadArticles(kbFile)
	}
	if cfg.HasIntercom() {
		client, err := intercom.NewClient(cfg.IntercomAccessToken, cfg.IntercomBaseURL, logger)
		if err != nil {
			return nil, err
		}
		return client.FetchArticles(ctx)
	}
	return nil, fmt.Errorf("no knowledge base: pass --kb or set GAPSCAN_INTERCOM_ACCESS_TOKEN")
}

func loadConversations(transcriptsDir, emailsDir string, logger *zap.Logger) ([]*domain.Conversation, int, error) {
	var conversations []*domain.Conversation
	unparseable := 0

	if transcriptsDir != "" {
		parsed, skipped, err := ingest.NewTranscriptParser(logger).ParseDirectory(transcriptsDir)
		if err != nil {
			return nil, 0, err
		}
		conversations = append(conversations, parsed...)
		unparseable += skipped
	}

	if emailsDir != "" {
		parsed, skipped, err := ingest.NewEmailParser(logger).ParseDirectory(emailsDir)
		if err != nil {
			return nil, 0, err
		}
		conversations = append(conversations, parsed...)
		unparseable += skipped
	}

	return conversations, unparseable, nil
}
