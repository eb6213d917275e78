// Package extract turns anonymized conversations into validated
// customer questions. The LLM does the extraction; the normalizer in
// this package is the trust boundary that validates its output.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// ChatClient is the capability needed from the LLM collaborator.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const extractionPromptTemplate = `Analyze this customer service conversation and extract every question asked by the customer, including implicit questions or concerns.

For each question provide:
- "text": the question, paraphrased for clarity if needed
- "urgency": one of "low", "medium", "high"
- "theme": a one-word topic if obvious, otherwise omit
- "answer": the agent's answer summarized, if the conversation contains one, otherwise omit

Return ONLY JSON in this exact format:
{
  "questions": [
    {"text": "...", "urgency": "medium", "theme": "claim", "answer": "..."}
  ]
}

A conversation with no customer questions yields {"questions": []}.

Conversation:
%s`

// Extractor asks the LLM collaborator for structured Q&A extraction.
// Its raw output is untrusted; callers pass it through Normalize.
type Extractor struct {
	chat   ChatClient
	logger *zap.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(chat ChatClient, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		chat:   chat,
		logger: logger,
	}
}

// Extract sends the anonymized conversation text to the LLM and returns
// its raw structured output with any markdown fences stripped.
func (e *Extractor) Extract(ctx context.Context, conversation string) ([]byte, error) {
	if strings.TrimSpace(conversation) == "" {
		return nil, fmt.Errorf("conversation text is empty")
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, conversation)
	response, err := e.chat.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	return []byte(stripFences(response)), nil
}

// stripFences unwraps a ```json ... ``` (or plain ```) code block, which
// chat models emit around JSON despite instructions not to.
func stripFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		rest := trimmed[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	if idx := strings.Index(trimmed, "```"); idx >= 0 {
		rest := trimmed[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	return trimmed
}

// BuildConversationText renders a conversation's turns, in original
// order, as "speaker: text" lines. The texts must already be anonymized.
func BuildConversationText(conversation *domain.Conversation, anonymizedTurns []string) string {
	lines := make([]string, 0, len(anonymizedTurns))
	for i, text := range anonymizedTurns {
		speaker := string(domain.SpeakerCustomer)
		if i < len(conversation.Turns) {
			speaker = string(conversation.Turns[i].Speaker)
		}
		lines = append(lines, speaker+": "+text)
	}
	return strings.Join(lines, "\n")
}
