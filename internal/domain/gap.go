package domain

// Gap is a Match flagged as insufficiently covered, enriched with a
// priority score and a theme label. Gaps are derived data: recomputed
// every run, never mutated in place.
type Gap struct {
	Match    Match
	Priority float64 // weighted urgency/severity/frequency score in [0,1]
	Theme    string
}

// GapCluster groups gaps sharing a theme, ordered by descending priority.
type GapCluster struct {
	Theme string
	Gaps  []Gap
}

// Count returns the number of gaps in the cluster.
func (c GapCluster) Count() int {
	return len(c.Gaps)
}
