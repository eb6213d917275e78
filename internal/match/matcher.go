// Package match embeds questions and knowledge-base articles into a
// shared vector space and finds each question's best-matching article.
package match

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// articleBodyLimit caps how much article body goes into the embed text,
// mirroring the indexing behavior the knowledge base was tuned with.
const articleBodyLimit = 500

// Matcher matches extracted questions against an indexed knowledge base.
type Matcher struct {
	embedder  Embedder
	threshold float64
	logger    *zap.Logger
}

// NewMatcher creates a Matcher. The similarity threshold must be in
// (0,1); anything else is a configuration error caught before any
// document is processed.
func NewMatcher(embedder Embedder, threshold float64, logger *zap.Logger) (*Matcher, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeConfiguration,
			"similarity threshold out of range", fmt.Errorf("got %f", threshold))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}, nil
}

// Index holds the per-run article embeddings. Articles that could not be
// embedded are excluded and counted in Skipped.
type Index struct {
	articles []domain.Article
	vectors  [][]float32
	Skipped  int
}

// Size returns the number of indexed articles.
func (idx *Index) Size() int {
	return len(idx.articles)
}

// BuildIndex embeds every article once. A precomputed embedding on the
// article is used as-is. Individual embedding failures skip the article
// and processing continues; if every article fails the embedding
// collaborator is considered unavailable and the run must not proceed.
func (m *Matcher) BuildIndex(ctx context.Context, articles []domain.Article) (*Index, error) {
	idx := &Index{
		articles: make([]domain.Article, 0, len(articles)),
		vectors:  make([][]float32, 0, len(articles)),
	}

	var lastErr error
	for _, article := range articles {
		vec := article.Embedding
		if len(vec) == 0 {
			var err error
			vec, err = m.embedder.Embed(ctx, buildArticleEmbedText(article))
			if err != nil {
				m.logger.Warn("skipping article: embedding failed",
					zap.String("article_id", article.ID),
					zap.Error(err))
				idx.Skipped++
				lastErr = err
				continue
			}
		}
		idx.articles = append(idx.articles, article)
		idx.vectors = append(idx.vectors, vec)
	}

	if len(articles) > 0 && len(idx.articles) == 0 && lastErr != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeCollaborator,
			"embedding collaborator unavailable: no article could be indexed", lastErr)
	}

	m.logger.Info("knowledge base indexed",
		zap.Int("articles", len(idx.articles)),
		zap.Int("skipped", idx.Skipped))

	return idx, nil
}

// Match finds the best article for one question. Exactly one result is
// produced per question. With an empty index the question is a gap with
// similarity 0 and no matched article. A similarity exactly equal to the
// threshold counts as covered, not a gap.
func (m *Matcher) Match(ctx context.Context, question domain.ExtractedQuestion, idx *Index) (domain.Match, error) {
	if idx == nil || len(idx.articles) == 0 {
		return domain.Match{
			Question:   question,
			Article:    nil,
			Similarity: 0,
			IsGap:      true,
		}, nil
	}

	questionVec, err := m.embedder.Embed(ctx, question.Text)
	if err != nil {
		return domain.Match{}, fmt.Errorf("failed to embed question: %w", err)
	}

	bestIdx := 0
	bestScore := CosineSimilarity(questionVec, idx.vectors[0])
	for i := 1; i < len(idx.vectors); i++ {
		// Strictly greater keeps the first article on ties, so the
		// supplied KB ordering decides deterministically.
		if score := CosineSimilarity(questionVec, idx.vectors[i]); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	article := idx.articles[bestIdx]
	return domain.Match{
		Question:   question,
		Article:    &article,
		Similarity: bestScore,
		IsGap:      bestScore < m.threshold,
	}, nil
}

// buildArticleEmbedText combines title and a bounded slice of body so
// long articles do not dominate the embedding.
func buildArticleEmbedText(article domain.Article) string {
	body := article.Body
	if len(body) > articleBodyLimit {
		body = body[:articleBodyLimit]
	}

	var parts []string
	if article.Title != "" {
		parts = append(parts, article.Title)
	}
	if body != "" {
		parts = append(parts, body)
	}
	return strings.Join(parts, "\n\n")
}
