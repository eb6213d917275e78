package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

func TestNormalize_ValidOutput(t *testing.T) {
	raw := []byte(`{
		"questions": [
			{"text": "How do I file a claim?", "urgency": "high", "theme": "claim", "answer": "Use the online portal."},
			{"text": "When does my policy renew?", "urgency": "low"}
		]
	}`)

	questions, err := Normalize(raw, "call-42", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "How do I file a claim?", questions[0].Text)
	assert.Equal(t, domain.UrgencyHigh, questions[0].Urgency)
	assert.Equal(t, "claim", questions[0].Theme)
	assert.Equal(t, "Use the online portal.", questions[0].Answer)
	assert.Equal(t, "call-42", questions[0].SourceID)

	assert.Equal(t, domain.UrgencyLow, questions[1].Urgency)
	assert.Empty(t, questions[1].Theme)
}

func TestNormalize_InvalidJSONIsMalformed(t *testing.T) {
	_, err := Normalize([]byte("I could not find any questions, sorry!"), "call-1", zap.NewNop())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedExtraction))
}

func TestNormalize_SkipsRecordWithoutText(t *testing.T) {
	raw := []byte(`{
		"questions": [
			{"text": "", "urgency": "high"},
			{"text": "   ", "urgency": "low"},
			{"text": "Can I cancel online?", "urgency": "medium"}
		]
	}`)

	questions, err := Normalize(raw, "email-7", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Can I cancel online?", questions[0].Text)
}

func TestNormalize_SkipsInvalidUrgency(t *testing.T) {
	raw := []byte(`{
		"questions": [
			{"text": "Is this urgent?", "urgency": "critical"},
			{"text": "Is this fine?", "urgency": "Medium"}
		]
	}`)

	questions, err := Normalize(raw, "call-9", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, questions, 1)

	// Case-insensitive enum values are accepted; unknown ones are not.
	assert.Equal(t, domain.UrgencyMedium, questions[0].Urgency)
}

func TestNormalize_NoQuestionsIsEmptyNotError(t *testing.T) {
	questions, err := Normalize([]byte(`{"questions": []}`), "call-0", zap.NewNop())

	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"questions":[]}`, stripFences("```json\n{\"questions\":[]}\n```"))
	assert.Equal(t, `{"questions":[]}`, stripFences("Here you go:\n```\n{\"questions\":[]}\n```"))
	assert.Equal(t, `{"questions":[]}`, stripFences(`{"questions":[]}`))
}

func TestBuildConversationText(t *testing.T) {
	conversation := domain.NewConversation("call-1", domain.SourceTypeCallTranscript, []domain.Utterance{
		{Speaker: domain.SpeakerCustomer, Text: "raw one", SourceID: "call-1"},
		{Speaker: domain.SpeakerAgent, Text: "raw two", SourceID: "call-1"},
	})

	text := BuildConversationText(conversation, []string{"clean one", "clean two"})

	assert.Equal(t, "customer: clean one\nagent: clean two", text)
}
