package domain

// Match pairs one extracted question with its best-matching KB article,
// or no article when the knowledge base is empty. Exactly one Match is
// produced per question (best match only, not top-k).
type Match struct {
	Question   ExtractedQuestion
	Article    *Article // nil when the KB is empty
	Similarity float64  // cosine similarity clamped to [0,1]
	IsGap      bool     // true iff Similarity is strictly below the configured threshold
}
