package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// Writer exports run output to the reports directory.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates a Writer rooted at dir, creating it if needed.
func NewWriter(dir string, logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// WriteGapsCSV exports gaps, one row per gap, highest priority first.
func (w *Writer) WriteGapsCSV(gaps []domain.Gap) (string, error) {
	path := filepath.Join(w.dir, "knowledge_gaps.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create gaps csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"question", "urgency", "theme", "priority", "similarity", "best_match_id", "best_match_title", "source_id"}
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to write gaps csv header: %w", err)
	}

	for _, gap := range gaps {
		matchID, matchTitle := "", ""
		if gap.Match.Article != nil {
			matchID = gap.Match.Article.ID
			matchTitle = gap.Match.Article.Title
		}
		row := []string{
			gap.Match.Question.Text,
			string(gap.Match.Question.Urgency),
			gap.Theme,
			strconv.FormatFloat(gap.Priority, 'f', 3, 64),
			strconv.FormatFloat(gap.Match.Similarity, 'f', 3, 64),
			matchID,
			matchTitle,
			gap.Match.Question.SourceID,
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("failed to write gaps csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush gaps csv: %w", err)
	}

	w.logger.Info("wrote gaps csv", zap.String("path", path), zap.Int("gaps", len(gaps)))
	return path, nil
}

// ReadGapsCSV loads gaps previously written by WriteGapsCSV, for
// commands that run on an earlier analysis instead of a fresh one.
func ReadGapsCSV(path string) ([]domain.Gap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gaps csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse gaps csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("gaps csv %s is empty", path)
	}

	gaps := make([]domain.Gap, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 8 {
			return nil, fmt.Errorf("gaps csv row %d has %d columns, want 8", i+2, len(row))
		}
		urgency, err := domain.ParseUrgency(row[1])
		if err != nil {
			return nil, fmt.Errorf("gaps csv row %d: %w", i+2, err)
		}
		priority, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("gaps csv row %d: bad priority: %w", i+2, err)
		}
		similarity, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("gaps csv row %d: bad similarity: %w", i+2, err)
		}

		gap := domain.Gap{
			Match: domain.Match{
				Question: domain.ExtractedQuestion{
					Text:     row[0],
					Urgency:  urgency,
					SourceID: row[7],
					Theme:    row[2],
				},
				Similarity: similarity,
				IsGap:      true,
			},
			Priority: priority,
			Theme:    row[2],
		}
		if row[5] != "" {
			gap.Match.Article = &domain.Article{ID: row[5], Title: row[6]}
		}
		gaps = append(gaps, gap)
	}
	return gaps, nil
}

// WriteFAQsJSON exports generated FAQ drafts for the publish step.
func (w *Writer) WriteFAQsJSON(drafts []domain.FAQDraft) (string, error) {
	path := filepath.Join(w.dir, "faq_candidates.json")

	data, err := json.MarshalIndent(draftsPayload(drafts), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal faq drafts: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write faq json: %w", err)
	}

	w.logger.Info("wrote faq json", zap.String("path", path), zap.Int("drafts", len(drafts)))
	return path, nil
}

// WriteFAQsCSV exports FAQ drafts in a spreadsheet-friendly shape for
// content review.
func (w *Writer) WriteFAQsCSV(drafts []domain.FAQDraft) (string, error) {
	path := filepath.Join(w.dir, "faq_candidates.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create faq csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"question", "answer", "category", "tags", "confidence", "priority", "source_references"}
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("failed to write faq csv header: %w", err)
	}

	for _, d := range drafts {
		row := []string{
			d.Question,
			d.Answer,
			d.Category,
			strings.Join(d.Tags, ";"),
			strconv.FormatFloat(d.Confidence, 'f', 2, 64),
			strconv.FormatFloat(d.Priority, 'f', 3, 64),
			strings.Join(d.SourceRefs, ";"),
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("failed to write faq csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("failed to flush faq csv: %w", err)
	}

	w.logger.Info("wrote faq csv", zap.String("path", path), zap.Int("drafts", len(drafts)))
	return path, nil
}

type faqDraftJSON struct {
	Question   string   `json:"question"`
	Variants   []string `json:"question_variants,omitempty"`
	Answer     string   `json:"answer"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Confidence float64  `json:"confidence"`
	SourceRefs []string `json:"source_references,omitempty"`
	Priority   float64  `json:"priority"`
}

func draftsPayload(drafts []domain.FAQDraft) []faqDraftJSON {
	out := make([]faqDraftJSON, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, faqDraftJSON{
			Question:   d.Question,
			Variants:   d.Variants,
			Answer:     d.Answer,
			Category:   d.Category,
			Tags:       d.Tags,
			Confidence: d.Confidence,
			SourceRefs: d.SourceRefs,
			Priority:   d.Priority,
		})
	}
	return out
}

// ReadFAQsJSON loads drafts previously written by WriteFAQsJSON.
func ReadFAQsJSON(path string) ([]domain.FAQDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read faq json: %w", err)
	}

	var payload []faqDraftJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse faq json: %w", err)
	}

	drafts := make([]domain.FAQDraft, 0, len(payload))
	for _, p := range payload {
		drafts = append(drafts, domain.FAQDraft{
			Question:   p.Question,
			Variants:   p.Variants,
			Answer:     p.Answer,
			Category:   p.Category,
			Tags:       p.Tags,
			Confidence: p.Confidence,
			SourceRefs: p.SourceRefs,
			Priority:   p.Priority,
		})
	}
	return drafts, nil
}

// WriteMarkdown renders the human-readable run report.
func (w *Writer) WriteMarkdown(summary domain.Summary, clusters []domain.GapCluster) (string, error) {
	path := filepath.Join(w.dir, "gap_report.md")

	var b strings.Builder
	b.WriteString("# Knowledge Gap Report\n\n")
	fmt.Fprintf(&b, "Run: %s  \nGenerated: %s\n\n", summary.RunID, summary.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Questions analyzed: %d\n", summary.TotalQuestions)
	fmt.Fprintf(&b, "- Covered by existing articles: %d\n", summary.CoveredCount)
	fmt.Fprintf(&b, "- Knowledge gaps: %d\n", summary.GapCount)
	fmt.Fprintf(&b, "- Coverage: %.1f%%\n\n", summary.CoveragePct)

	if len(summary.Skipped) > 0 {
		b.WriteString("## Skipped items\n\n")
		for _, reason := range []domain.SkipReason{
			domain.SkipReasonUnparseableSource,
			domain.SkipReasonExtractionFailed,
			domain.SkipReasonMalformedExtraction,
			domain.SkipReasonEmbeddingFailed,
			domain.SkipReasonArticleEmbedSkipped,
		} {
			if count := summary.Skipped[reason]; count > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", reason, count)
			}
		}
		b.WriteString("\n")
	}

	if len(clusters) > 0 {
		b.WriteString("## Gaps by theme\n\n")
		for _, cluster := range clusters {
			fmt.Fprintf(&b, "### %s (%d)\n\n", cluster.Theme, cluster.Count())
			for _, gap := range cluster.Gaps {
				fmt.Fprintf(&b, "- [%.2f] %s\n", gap.Priority, gap.Match.Question.Text)
			}
			b.WriteString("\n")
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write markdown report: %w", err)
	}

	w.logger.Info("wrote markdown report", zap.String("path", path))
	return path, nil
}
