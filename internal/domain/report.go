package domain

import "time"

// SkipReason categorizes items dropped during a run. The end-of-run
// summary always reports skip counts so silent data loss is observable.
type SkipReason string

const (
	SkipReasonUnparseableSource   SkipReason = "unparseable_source"
	SkipReasonExtractionFailed    SkipReason = "extraction_failed"
	SkipReasonMalformedExtraction SkipReason = "malformed_extraction"
	SkipReasonEmbeddingFailed     SkipReason = "embedding_failed"
	SkipReasonArticleEmbedSkipped SkipReason = "article_embedding_failed"
)

// Summary aggregates matcher and analyzer output for one pipeline run.
type Summary struct {
	RunID          string
	GeneratedAt    time.Time
	TotalQuestions int
	TotalArticles  int
	CoveredCount   int
	GapCount       int
	CoveragePct    float64 // 1 - gaps/total, as a percentage; 100 when total is 0
	ThemeCounts    map[string]int
	TopGaps        []Gap
	Skipped        map[SkipReason]int
}
