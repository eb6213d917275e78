package domain

import "fmt"

// Article is an existing help-center knowledge-base entry. Supplied
// wholesale by the KB source at run start and never mutated by the core.
type Article struct {
	ID        string
	Title     string
	Body      string
	URL       string
	Embedding []float32 // optional precomputed embedding
}

// NewArticle creates a new Article instance
func NewArticle(id, title, body string) *Article {
	return &Article{
		ID:    id,
		Title: title,
		Body:  body,
	}
}

// ValidateArticle validates an Article instance
func ValidateArticle(a *Article) error {
	if a == nil {
		return fmt.Errorf("article cannot be nil")
	}

	if a.ID == "" {
		return fmt.Errorf("article ID is required")
	}

	if a.Title == "" {
		return fmt.Errorf("article Title is required")
	}

	return nil
}
