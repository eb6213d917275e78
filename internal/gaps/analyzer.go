// Package gaps classifies unmatched questions into prioritized,
// theme-clustered knowledge gaps.
package gaps

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
	"github.com/gapscanhq/gapscan/internal/match"
)

// Weights combines the three normalized sub-scores into a priority.
// These are product tuning knobs, not fixed constants; they must be
// non-negative and sum to 1.
type Weights struct {
	Urgency   float64
	Severity  float64
	Frequency float64
}

// DefaultWeights returns the shipped weight configuration.
func DefaultWeights() Weights {
	return Weights{
		Urgency:   0.4,
		Severity:  0.4,
		Frequency: 0.2,
	}
}

const weightSumTolerance = 1e-3

// Validate checks the weight triple.
func (w Weights) Validate() error {
	if w.Urgency < 0 || w.Severity < 0 || w.Frequency < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if sum := w.Urgency + w.Severity + w.Frequency; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", sum)
	}
	return nil
}

// Analyzer turns match results into prioritized gaps and theme clusters.
type Analyzer struct {
	embedder     match.Embedder
	weights      Weights
	dupThreshold float64
	logger       *zap.Logger
}

// NewAnalyzer creates an Analyzer. The duplicate threshold must be in
// (0,1); it is looser than the KB-match threshold and applies to the
// second use of embedding similarity, near-duplicate question grouping.
func NewAnalyzer(embedder match.Embedder, weights Weights, dupThreshold float64, logger *zap.Logger) (*Analyzer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if err := weights.Validate(); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeConfiguration, "invalid priority weights", err)
	}
	if dupThreshold <= 0 || dupThreshold >= 1 {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeConfiguration,
			"duplicate threshold out of range", fmt.Errorf("got %f", dupThreshold))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		embedder:     embedder,
		weights:      weights,
		dupThreshold: dupThreshold,
		logger:       logger,
	}, nil
}

// Analyze derives a Gap from every match flagged as one, scoring each by
// urgency, severity (1 - similarity) and near-duplicate frequency.
// Returned gaps are sorted by descending priority.
func (a *Analyzer) Analyze(ctx context.Context, matches []domain.Match) ([]domain.Gap, error) {
	var flagged []domain.Match
	for _, m := range matches {
		if m.IsGap {
			flagged = append(flagged, m)
		}
	}
	if len(flagged) == 0 {
		return []domain.Gap{}, nil
	}

	frequencies := a.frequencyScores(ctx, flagged)

	gaps := make([]domain.Gap, 0, len(flagged))
	for i, m := range flagged {
		theme := m.Question.Theme
		if theme == "" {
			theme = InferTheme(m.Question.Text)
		}

		urgency := m.Question.Urgency.Score()
		severity := 1 - m.Similarity
		priority := a.weights.Urgency*urgency + a.weights.Severity*severity + a.weights.Frequency*frequencies[i]

		gaps = append(gaps, domain.Gap{
			Match:    m,
			Priority: match.Clamp01(priority),
			Theme:    theme,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Priority > gaps[j].Priority
	})

	a.logger.Info("gap analysis complete",
		zap.Int("matches", len(matches)),
		zap.Int("gaps", len(gaps)))

	return gaps, nil
}

// frequencyScores computes the frequency sub-score per flagged match:
// the count of gaps with near-duplicate question text (self included),
// normalized by the largest such group in the batch. An embedding
// failure leaves that question in a group of its own.
func (a *Analyzer) frequencyScores(ctx context.Context, flagged []domain.Match) []float64 {
	vectors := make([][]float32, len(flagged))
	for i, m := range flagged {
		vec, err := a.embedder.Embed(ctx, m.Question.Text)
		if err != nil {
			a.logger.Warn("duplicate detection: embedding failed, counting question alone",
				zap.String("source_id", m.Question.SourceID),
				zap.Error(err))
			continue
		}
		vectors[i] = vec
	}

	counts := make([]int, len(flagged))
	maxCount := 1
	for i := range flagged {
		counts[i] = 1 // self
		if vectors[i] == nil {
			continue
		}
		for j := range flagged {
			if i == j || vectors[j] == nil {
				continue
			}
			if match.CosineSimilarity(vectors[i], vectors[j]) >= a.dupThreshold {
				counts[i]++
			}
		}
		if counts[i] > maxCount {
			maxCount = counts[i]
		}
	}

	scores := make([]float64, len(flagged))
	for i, count := range counts {
		scores[i] = float64(count) / float64(maxCount)
	}
	return scores
}

// Cluster groups gaps by theme. Clusters are ordered by gap count
// descending (theme name ascending on ties) and gaps within a cluster by
// priority descending.
func (a *Analyzer) Cluster(gaps []domain.Gap) []domain.GapCluster {
	byTheme := map[string][]domain.Gap{}
	for _, gap := range gaps {
		theme := gap.Theme
		if theme == "" {
			theme = GeneralTheme
		}
		byTheme[theme] = append(byTheme[theme], gap)
	}

	clusters := make([]domain.GapCluster, 0, len(byTheme))
	for theme, themed := range byTheme {
		sort.SliceStable(themed, func(i, j int) bool {
			return themed[i].Priority > themed[j].Priority
		})
		clusters = append(clusters, domain.GapCluster{Theme: theme, Gaps: themed})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Count() != clusters[j].Count() {
			return clusters[i].Count() > clusters[j].Count()
		}
		return clusters[i].Theme < clusters[j].Theme
	})

	return clusters
}
