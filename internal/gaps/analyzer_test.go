package gaps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// fixedEmbedder returns preset vectors so duplicate detection is deterministic.
type fixedEmbedder struct {
	vectors map[string][]float32
}

func (f *fixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func newAnalyzer(t *testing.T, embedder *fixedEmbedder, weights Weights) *Analyzer {
	t.Helper()
	analyzer, err := NewAnalyzer(embedder, weights, 0.85, zap.NewNop())
	require.NoError(t, err)
	return analyzer
}

func gapMatch(text string, urgency domain.Urgency, similarity float64) domain.Match {
	return domain.Match{
		Question:   domain.ExtractedQuestion{Text: text, Urgency: urgency, SourceID: "src"},
		Similarity: similarity,
		IsGap:      true,
	}
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Urgency: 0.5, Severity: 0.5, Frequency: 0.5}.Validate())
	assert.Error(t, Weights{Urgency: -0.2, Severity: 1.0, Frequency: 0.2}.Validate())
}

func TestNewAnalyzer_ConfigErrors(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}

	_, err := NewAnalyzer(nil, DefaultWeights(), 0.85, zap.NewNop())
	assert.Error(t, err)

	_, err = NewAnalyzer(embedder, Weights{Urgency: 1, Severity: 1, Frequency: 1}, 0.85, zap.NewNop())
	assert.Error(t, err)

	_, err = NewAnalyzer(embedder, DefaultWeights(), 1.2, zap.NewNop())
	assert.Error(t, err)
}

func TestAnalyze_PriorityInUnitInterval(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"completely unmatched urgent question": {1, 0, 0},
		"barely missed question":               {0, 1, 0},
	}}
	analyzer := newAnalyzer(t, embedder, DefaultWeights())

	matches := []domain.Match{
		gapMatch("completely unmatched urgent question", domain.UrgencyHigh, 0),
		gapMatch("barely missed question", domain.UrgencyLow, 0.74),
	}

	gaps, err := analyzer.Analyze(context.Background(), matches)
	require.NoError(t, err)
	require.Len(t, gaps, 2)

	for _, gap := range gaps {
		assert.GreaterOrEqual(t, gap.Priority, 0.0)
		assert.LessOrEqual(t, gap.Priority, 1.0)
	}

	// Max urgency + max severity + every question its own duplicate
	// group of one: 0.4*1 + 0.4*1 + 0.2*1 = 1.
	assert.InDelta(t, 1.0, gaps[0].Priority, 1e-9)
	assert.Equal(t, "completely unmatched urgent question", gaps[0].Match.Question.Text)
}

func TestAnalyze_OnlyGapsProduceGaps(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}
	analyzer := newAnalyzer(t, embedder, DefaultWeights())

	covered := domain.Match{
		Question:   domain.ExtractedQuestion{Text: "covered q", Urgency: domain.UrgencyHigh, SourceID: "s"},
		Similarity: 0.9,
		IsGap:      false,
	}

	gaps, err := analyzer.Analyze(context.Background(), []domain.Match{covered})
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestAnalyze_FrequencyBoostsDuplicatedQuestions(t *testing.T) {
	dup := []float32{1, 0, 0}
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"how do I reset my password":  dup,
		"how can I reset my password": dup,
		"what is a premium":           {0, 1, 0},
	}}
	analyzer := newAnalyzer(t, embedder, Weights{Urgency: 0, Severity: 0, Frequency: 1})

	matches := []domain.Match{
		gapMatch("how do I reset my password", domain.UrgencyLow, 0.2),
		gapMatch("how can I reset my password", domain.UrgencyLow, 0.2),
		gapMatch("what is a premium", domain.UrgencyLow, 0.2),
	}

	gaps, err := analyzer.Analyze(context.Background(), matches)
	require.NoError(t, err)
	require.Len(t, gaps, 3)

	// Duplicate pair: group of 2 out of max 2 -> 1.0; singleton -> 0.5.
	assert.InDelta(t, 1.0, gaps[0].Priority, 1e-9)
	assert.InDelta(t, 1.0, gaps[1].Priority, 1e-9)
	assert.InDelta(t, 0.5, gaps[2].Priority, 1e-9)
}

func TestAnalyze_NoDuplicatesMeansUniformFrequency(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"how do I reset my password": {1, 0, 0},
		"what is a premium":          {0, 1, 0},
	}}
	analyzer := newAnalyzer(t, embedder, Weights{Urgency: 0, Severity: 0, Frequency: 1})

	matches := []domain.Match{
		gapMatch("how do I reset my password", domain.UrgencyLow, 0.2),
		gapMatch("what is a premium", domain.UrgencyLow, 0.2),
	}

	gaps, err := analyzer.Analyze(context.Background(), matches)
	require.NoError(t, err)
	require.Len(t, gaps, 2)

	// Every gap is its own group of one, so the normalized frequency
	// is 1/1 across the batch, a uniform offset that cannot reorder.
	assert.InDelta(t, 1.0, gaps[0].Priority, 1e-9)
	assert.InDelta(t, 1.0, gaps[1].Priority, 1e-9)
}

func TestAnalyze_ThemeCarriedOverFromExtraction(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}
	analyzer := newAnalyzer(t, embedder, DefaultWeights())

	m := gapMatch("some question", domain.UrgencyLow, 0.1)
	m.Question.Theme = "billing"

	gaps, err := analyzer.Analyze(context.Background(), []domain.Match{m})
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	assert.Equal(t, "billing", gaps[0].Theme)
}

func TestAnalyze_ThemeInferredFromKeywords(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}
	analyzer := newAnalyzer(t, embedder, DefaultWeights())

	matches := []domain.Match{
		gapMatch("How do I submit my claim?", domain.UrgencyLow, 0.1),
		gapMatch("Can I bring my pet on a covered trip?", domain.UrgencyLow, 0.1),
		gapMatch("Is snorkeling included?", domain.UrgencyLow, 0.1),
	}

	gaps, err := analyzer.Analyze(context.Background(), matches)
	require.NoError(t, err)
	require.Len(t, gaps, 3)

	themes := map[string]string{}
	for _, gap := range gaps {
		themes[gap.Match.Question.Text] = gap.Theme
	}

	assert.Equal(t, "claim", themes["How do I submit my claim?"])
	// "covered" is not "coverage": no keyword hit means general.
	assert.Equal(t, GeneralTheme, themes["Can I bring my pet on a covered trip?"])
	assert.Equal(t, GeneralTheme, themes["Is snorkeling included?"])
}

func TestCluster_OrderedBySizeThenPriority(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}
	analyzer := newAnalyzer(t, embedder, DefaultWeights())

	var gapList []domain.Gap
	for i := 0; i < 6; i++ {
		gapList = append(gapList, domain.Gap{Theme: "claim", Priority: float64(i) * 0.1})
	}
	for i := 0; i < 4; i++ {
		gapList = append(gapList, domain.Gap{Theme: "payment", Priority: float64(i) * 0.2})
	}

	clusters := analyzer.Cluster(gapList)

	require.Len(t, clusters, 2)
	assert.Equal(t, "claim", clusters[0].Theme)
	assert.Equal(t, 6, clusters[0].Count())
	assert.Equal(t, "payment", clusters[1].Theme)
	assert.Equal(t, 4, clusters[1].Count())

	for _, cluster := range clusters {
		for i := 1; i < len(cluster.Gaps); i++ {
			assert.GreaterOrEqual(t, cluster.Gaps[i-1].Priority, cluster.Gaps[i].Priority)
		}
	}
}

func TestCluster_TieBreaksOnThemeName(t *testing.T) {
	embedder := &fixedEmbedder{vectors: map[string][]float32{}}
	analyzer := newAnalyzer(t, embedder, DefaultWeights())

	clusters := analyzer.Cluster([]domain.Gap{
		{Theme: "renewal", Priority: 0.5},
		{Theme: "account", Priority: 0.5},
	})

	require.Len(t, clusters, 2)
	assert.Equal(t, "account", clusters[0].Theme)
	assert.Equal(t, "renewal", clusters[1].Theme)
}

func TestInferTheme(t *testing.T) {
	assert.Equal(t, "claim", InferTheme("How do I file my CLAIM?"))
	assert.Equal(t, "payment", InferTheme("pay my invoice"))
	assert.Equal(t, "cancellation", InferTheme("I want to cancel"))
	assert.Equal(t, GeneralTheme, InferTheme("Is snorkeling ok?"))
}
