package domain

import (
	"fmt"
	"strings"
)

// Urgency represents how urgent a customer question is
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// ParseUrgency parses an urgency value supplied by the extraction collaborator.
// The collaborator's output is untrusted, so unknown values are an error,
// not a default.
func ParseUrgency(value string) (Urgency, error) {
	switch Urgency(strings.ToLower(strings.TrimSpace(value))) {
	case UrgencyLow:
		return UrgencyLow, nil
	case UrgencyMedium:
		return UrgencyMedium, nil
	case UrgencyHigh:
		return UrgencyHigh, nil
	}
	return "", fmt.Errorf("invalid urgency value: %q", value)
}

// Score maps urgency onto the [0,1] scale used by gap prioritization.
func (u Urgency) Score() float64 {
	switch u {
	case UrgencyHigh:
		return 1.0
	case UrgencyMedium:
		return 0.6
	default:
		return 0.3
	}
}

// ExtractedQuestion is a customer question identified in anonymized text.
// Read-only downstream of the normalizer.
type ExtractedQuestion struct {
	Text     string
	Urgency  Urgency
	SourceID string
	Theme    string // optional, inferred by the extraction collaborator
	Answer   string // optional, when the conversation contains one
}

// ValidateExtractedQuestion validates an ExtractedQuestion instance
func ValidateExtractedQuestion(q *ExtractedQuestion) error {
	if q == nil {
		return fmt.Errorf("extracted question cannot be nil")
	}

	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("extracted question Text is required")
	}

	if q.SourceID == "" {
		return fmt.Errorf("extracted question SourceID is required")
	}

	if !isValidUrgency(q.Urgency) {
		return fmt.Errorf("extracted question Urgency is invalid: %s", q.Urgency)
	}

	return nil
}

// isValidUrgency checks if an Urgency is valid
func isValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}
