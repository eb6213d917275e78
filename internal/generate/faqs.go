// Package generate turns prioritized knowledge gaps into FAQ drafts via
// the LLM collaborator. Generation failures skip the gap, they never
// fail the run.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
	"github.com/gapscanhq/gapscan/internal/extract"
)

const faqPromptTemplate = `You are a knowledge base content writer for a customer service team. Create a comprehensive FAQ entry for a customer question that is not well covered by the current knowledge base.

Customer question: %s
%s%s
Guidelines:
- Professional, helpful tone; specific and actionable
- Incorporate the agent's answer if one is given
- If information seems uncertain, note what should be verified
- The answer must be self-contained

Return ONLY JSON in this exact format:
{
  "question": "Main question text",
  "question_variants": ["Alternative phrasing 1", "Alternative phrasing 2"],
  "answer": "Comprehensive answer text",
  "category": "Category name",
  "tags": ["tag1", "tag2"],
  "confidence": 0.85
}`

// Generator produces FAQ drafts for knowledge gaps.
type Generator struct {
	chat   extract.ChatClient
	logger *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(chat extract.ChatClient, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		chat:   chat,
		logger: logger,
	}
}

type faqPayload struct {
	Question   string   `json:"question"`
	Variants   []string `json:"question_variants"`
	Answer     string   `json:"answer"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
}

// Generate produces one draft per gap, sequentially, skipping gaps whose
// generation or validation fails. The returned count is the number of
// skipped gaps.
func (g *Generator) Generate(ctx context.Context, gaps []domain.Gap) ([]domain.FAQDraft, int) {
	var drafts []domain.FAQDraft
	skipped := 0

	for _, gap := range gaps {
		draft, err := g.generateOne(ctx, gap)
		if err != nil {
			skipped++
			g.logger.Warn("skipping faq generation for gap",
				zap.String("question", gap.Match.Question.Text),
				zap.Error(err))
			continue
		}
		drafts = append(drafts, draft)
	}

	g.logger.Info("generated faq drafts",
		zap.Int("drafts", len(drafts)),
		zap.Int("skipped", skipped))
	return drafts, skipped
}

func (g *Generator) generateOne(ctx context.Context, gap domain.Gap) (domain.FAQDraft, error) {
	raw, err := g.chat.Complete(ctx, buildFAQPrompt(gap))
	if err != nil {
		return domain.FAQDraft{}, fmt.Errorf("faq completion failed: %w", err)
	}

	var payload faqPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return domain.FAQDraft{}, fmt.Errorf("%w: %v", domain.ErrMalformedExtraction, err)
	}

	draft := domain.FAQDraft{
		Question:   strings.TrimSpace(payload.Question),
		Variants:   payload.Variants,
		Answer:     strings.TrimSpace(payload.Answer),
		Category:   payload.Category,
		Tags:       payload.Tags,
		Confidence: payload.Confidence,
		SourceRefs: []string{gap.Match.Question.SourceID},
		Priority:   gap.Priority,
	}
	if draft.Question == "" {
		draft.Question = gap.Match.Question.Text
	}
	if draft.Category == "" {
		draft.Category = gap.Theme
	}

	if err := domain.ValidateFAQDraft(&draft); err != nil {
		return domain.FAQDraft{}, err
	}
	return draft, nil
}

func buildFAQPrompt(gap domain.Gap) string {
	answerContext := ""
	if gap.Match.Question.Answer != "" {
		answerContext = fmt.Sprintf("\nAgent answer from the same interaction:\n%s\n", gap.Match.Question.Answer)
	}

	matchContext := ""
	if gap.Match.Article != nil {
		body := gap.Match.Article.Body
		if len(body) > 500 {
			body = body[:500]
		}
		matchContext = fmt.Sprintf("\nClosest existing article (similarity %.2f):\nTitle: %s\nContent: %s\n",
			gap.Match.Similarity, gap.Match.Article.Title, body)
	}

	return fmt.Sprintf(faqPromptTemplate, gap.Match.Question.Text, answerContext, matchContext)
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
