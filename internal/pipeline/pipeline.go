// Package pipeline orchestrates a full analysis run: anonymize, extract,
// match, analyze, report. Per-item failures skip the item and are counted;
// a collaborator that fails for every item fails the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gapscanhq/gapscan/internal/anonymize"
	"github.com/gapscanhq/gapscan/internal/domain"
	"github.com/gapscanhq/gapscan/internal/extract"
	"github.com/gapscanhq/gapscan/internal/gaps"
	"github.com/gapscanhq/gapscan/internal/match"
	"github.com/gapscanhq/gapscan/internal/report"
)

// Options carries the analysis tuning for one pipeline instance.
type Options struct {
	SimilarityThreshold float64
	DuplicateThreshold  float64
	Weights             gaps.Weights
	TopN                int
	Workers             int
}

// Pipeline wires the collaborators into one runnable analysis.
type Pipeline struct {
	extractor *extract.Extractor
	matcher   *match.Matcher
	analyzer  *gaps.Analyzer
	topN      int
	workers   int
	logger    *zap.Logger
}

// Result is everything one run produces.
type Result struct {
	Summary   domain.Summary
	Matches   []domain.Match
	Gaps      []domain.Gap
	Clusters  []domain.GapCluster
	Redaction map[anonymize.Category]int
}

// New creates a Pipeline. Embeddings are cached for the lifetime of the
// embedder passed in, so callers should wrap theirs in a CachedEmbedder
// scoped to the run.
func New(embedder match.Embedder, chat extract.ChatClient, opts Options, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TopN <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidTopN, opts.TopN)
	}
	if opts.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive: %d", opts.Workers)
	}

	matcher, err := match.NewMatcher(embedder, opts.SimilarityThreshold, logger)
	if err != nil {
		return nil, err
	}
	analyzer, err := gaps.NewAnalyzer(embedder, opts.Weights, opts.DuplicateThreshold, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		extractor: extract.NewExtractor(chat, logger),
		matcher:   matcher,
		analyzer:  analyzer,
		topN:      opts.TopN,
		workers:   opts.Workers,
		logger:    logger,
	}, nil
}

// conversationResult holds per-conversation output so concurrent fan-out
// still yields a deterministic match order.
type conversationResult struct {
	matches []domain.Match
	skipped map[domain.SkipReason]int
	// collaborator outcomes drive the run-level availability checks
	extractionFailed bool
	matchAttempts    int
	matchFailures    int
}

// Run executes the full analysis over the given conversations against the
// given knowledge base.
func (p *Pipeline) Run(ctx context.Context, conversations []*domain.Conversation, articles []domain.Article) (*Result, error) {
	session := anonymize.NewSession()
	skipped := map[domain.SkipReason]int{}

	idx, err := p.matcher.BuildIndex(ctx, articles)
	if err != nil {
		return nil, err
	}
	if idx.Skipped > 0 {
		skipped[domain.SkipReasonArticleEmbedSkipped] = idx.Skipped
	}

	results := make([]conversationResult, len(conversations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, conversation := range conversations {
		i, conversation := i, conversation
		g.Go(func() error {
			results[i] = p.processConversation(gctx, session, conversation, idx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []domain.Match
	extractionAttempts, extractionFailures := 0, 0
	matchAttempts, matchFailures := 0, 0
	for _, r := range results {
		matches = append(matches, r.matches...)
		for reason, count := range r.skipped {
			skipped[reason] += count
		}
		extractionAttempts++
		if r.extractionFailed {
			extractionFailures++
		}
		matchAttempts += r.matchAttempts
		matchFailures += r.matchFailures
	}

	if extractionAttempts > 0 && extractionFailures == extractionAttempts {
		return nil, fmt.Errorf("extraction failed for all %d conversations: %w",
			extractionAttempts, domain.ErrCollaboratorUnavailable)
	}
	if matchAttempts > 0 && matchFailures == matchAttempts {
		return nil, fmt.Errorf("embedding failed for all %d questions: %w",
			matchAttempts, domain.ErrCollaboratorUnavailable)
	}

	gapList, err := p.analyzer.Analyze(ctx, matches)
	if err != nil {
		return nil, err
	}
	clusters := p.analyzer.Cluster(gapList)

	summary := report.Assemble(matches, gapList, clusters, p.topN, skipped)
	summary.TotalArticles = idx.Size()

	p.logger.Info("anonymization complete", zap.String("stats", session.Stats()))
	p.logger.Info("pipeline run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("questions", summary.TotalQuestions),
		zap.Int("gaps", summary.GapCount),
		zap.Float64("coverage_pct", summary.CoveragePct))

	return &Result{
		Summary:   summary,
		Matches:   matches,
		Gaps:      gapList,
		Clusters:  clusters,
		Redaction: session.Counts(),
	}, nil
}

func (p *Pipeline) processConversation(ctx context.Context, session *anonymize.Session, conversation *domain.Conversation, idx *match.Index) conversationResult {
	result := conversationResult{skipped: map[domain.SkipReason]int{}}

	// Turns are anonymized in original order so pseudonym numbering is
	// stable within a conversation.
	anonymized := make([]string, len(conversation.Turns))
	for i, turn := range conversation.Turns {
		anonymized[i], _ = session.Anonymize(turn.Text)
	}

	raw, err := p.extractor.Extract(ctx, extract.BuildConversationText(conversation, anonymized))
	if err != nil {
		result.extractionFailed = true
		result.skipped[domain.SkipReasonExtractionFailed]++
		p.logger.Warn("skipping conversation, extraction failed",
			zap.String("conversation", conversation.ID),
			zap.Error(err))
		return result
	}

	questions, err := extract.Normalize(raw, conversation.ID, p.logger)
	if err != nil {
		result.skipped[domain.SkipReasonMalformedExtraction]++
		p.logger.Warn("skipping conversation, malformed extraction",
			zap.String("conversation", conversation.ID),
			zap.Error(err))
		return result
	}

	for _, question := range questions {
		result.matchAttempts++
		m, err := p.matcher.Match(ctx, question, idx)
		if err != nil {
			result.matchFailures++
			result.skipped[domain.SkipReasonEmbeddingFailed]++
			p.logger.Warn("skipping question, embedding failed",
				zap.String("conversation", conversation.ID),
				zap.Error(err))
			continue
		}
		result.matches = append(result.matches, m)
	}

	return result
}

// IsRunFailure reports whether err is a run-level collaborator failure as
// opposed to an item-level one.
func IsRunFailure(err error) bool {
	return errors.Is(err, domain.ErrCollaboratorUnavailable)
}
