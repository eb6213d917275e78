package domain

import "fmt"

// SourceType identifies where a conversation was ingested from
type SourceType string

const (
	SourceTypeCallTranscript SourceType = "call_transcript"
	SourceTypeEmail          SourceType = "email"
)

// Speaker identifies who produced an utterance
type Speaker string

const (
	SpeakerCustomer Speaker = "customer"
	SpeakerAgent    Speaker = "agent"
)

// Utterance is one turn of dialogue or one email body.
// Immutable once parsed; consumed only by the anonymizer.
type Utterance struct {
	Speaker   Speaker
	Text      string
	Timestamp string // optional, as recorded in the source ("00:01:12", RFC3339, ...)
	SourceID  string
}

// Conversation is a bounded, ordered set of utterances from one source document.
type Conversation struct {
	ID       string
	Source   SourceType
	Turns    []Utterance
	Metadata map[string]string
}

// NewConversation creates a new Conversation instance
func NewConversation(id string, source SourceType, turns []Utterance) *Conversation {
	return &Conversation{
		ID:       id,
		Source:   source,
		Turns:    turns,
		Metadata: map[string]string{},
	}
}

// ValidateConversation validates a Conversation instance
func ValidateConversation(c *Conversation) error {
	if c == nil {
		return fmt.Errorf("conversation cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("conversation ID is required")
	}

	if !isValidSourceType(c.Source) {
		return fmt.Errorf("conversation Source is invalid: %s", c.Source)
	}

	if len(c.Turns) == 0 {
		return fmt.Errorf("conversation must have at least one turn")
	}

	for i, turn := range c.Turns {
		if turn.Text == "" {
			return fmt.Errorf("conversation turn %d has no text", i)
		}
		if !isValidSpeaker(turn.Speaker) {
			return fmt.Errorf("conversation turn %d has invalid speaker: %s", i, turn.Speaker)
		}
	}

	return nil
}

// isValidSourceType checks if a SourceType is valid
func isValidSourceType(s SourceType) bool {
	switch s {
	case SourceTypeCallTranscript, SourceTypeEmail:
		return true
	}
	return false
}

// isValidSpeaker checks if a Speaker is valid
func isValidSpeaker(s Speaker) bool {
	switch s {
	case SpeakerCustomer, SpeakerAgent:
		return true
	}
	return false
}
