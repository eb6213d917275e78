// Package report aggregates matcher and analyzer output into the
// summary consumed by report writers.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// Assemble produces the run summary. It is a pure aggregation: no side
// effects, no I/O. Coverage for zero questions is defined as 100%.
func Assemble(matches []domain.Match, gaps []domain.Gap, clusters []domain.GapCluster, topN int, skipped map[domain.SkipReason]int) domain.Summary {
	summary := domain.Summary{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		TotalQuestions: len(matches),
		GapCount:       len(gaps),
		CoveredCount:   len(matches) - len(gaps),
		ThemeCounts:    map[string]int{},
		Skipped:        map[domain.SkipReason]int{},
	}

	if summary.TotalQuestions == 0 {
		summary.CoveragePct = 100
	} else {
		summary.CoveragePct = (1 - float64(summary.GapCount)/float64(summary.TotalQuestions)) * 100
	}

	for _, cluster := range clusters {
		summary.ThemeCounts[cluster.Theme] = cluster.Count()
	}

	top := make([]domain.Gap, len(gaps))
	copy(top, gaps)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Priority > top[j].Priority
	})
	if len(top) > topN {
		top = top[:topN]
	}
	summary.TopGaps = top

	for reason, count := range skipped {
		summary.Skipped[reason] = count
	}

	return summary
}
