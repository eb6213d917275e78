package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gapscanhq/gapscan/internal/domain"
)

type articleJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// LoadArticles reads a knowledge-base dump previously written by
// SaveArticles (or assembled by hand in the same shape).
func LoadArticles(path string) ([]domain.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles file: %w", err)
	}

	var payload []articleJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse articles file: %w", err)
	}

	articles := make([]domain.Article, 0, len(payload))
	for _, p := range payload {
		article := domain.Article{ID: p.ID, Title: p.Title, Body: p.Body, URL: p.URL}
		if err := domain.ValidateArticle(&article); err != nil {
			return nil, fmt.Errorf("invalid article in %s: %w", path, err)
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// SaveArticles writes a knowledge-base dump for later offline runs.
func SaveArticles(path string, articles []domain.Article) error {
	payload := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		payload = append(payload, articleJSON{ID: a.ID, Title: a.Title, Body: a.Body, URL: a.URL})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal articles: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write articles file: %w", err)
	}
	return nil
}
