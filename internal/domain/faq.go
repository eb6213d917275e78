package domain

import "fmt"

// FAQDraft is a generated FAQ candidate to fill a knowledge gap.
// Produced by the generation collaborator, consumed by the publisher.
type FAQDraft struct {
	Question   string
	Variants   []string // alternative phrasings of the question
	Answer     string
	Category   string
	Tags       []string
	Confidence float64
	SourceRefs []string // source document IDs the draft was derived from
	Priority   float64
}

// ValidateFAQDraft validates an FAQDraft instance
func ValidateFAQDraft(f *FAQDraft) error {
	if f == nil {
		return fmt.Errorf("faq draft cannot be nil")
	}

	if f.Question == "" {
		return fmt.Errorf("faq draft Question is required")
	}

	if f.Answer == "" {
		return fmt.Errorf("faq draft Answer is required")
	}

	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("faq draft Confidence must be in [0,1]: %f", f.Confidence)
	}

	return nil
}
