package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockChatClient mocks the LLM collaborator
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestExtractor_Extract_Success(t *testing.T) {
	mockChat := new(MockChatClient)
	extractor := NewExtractor(mockChat, zap.NewNop())

	ctx := context.Background()
	mockChat.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return("```json\n{\"questions\":[{\"text\":\"q\",\"urgency\":\"low\"}]}\n```", nil)

	raw, err := extractor.Extract(ctx, "customer: where is my refund?")

	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[{"text":"q","urgency":"low"}]}`, string(raw))
	mockChat.AssertExpectations(t)
}

func TestExtractor_Extract_PromptContainsConversation(t *testing.T) {
	mockChat := new(MockChatClient)
	extractor := NewExtractor(mockChat, zap.NewNop())

	ctx := context.Background()
	var captured string
	mockChat.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		captured = prompt
		return true
	})).Return(`{"questions":[]}`, nil)

	_, err := extractor.Extract(ctx, "customer: can I pay monthly?")

	require.NoError(t, err)
	assert.Contains(t, captured, "customer: can I pay monthly?")
}

func TestExtractor_Extract_EmptyConversation(t *testing.T) {
	extractor := NewExtractor(new(MockChatClient), zap.NewNop())

	_, err := extractor.Extract(context.Background(), "   ")

	assert.Error(t, err)
}

func TestExtractor_Extract_CollaboratorError(t *testing.T) {
	mockChat := new(MockChatClient)
	extractor := NewExtractor(mockChat, zap.NewNop())

	ctx := context.Background()
	mockChat.On("Complete", ctx, mock.Anything).Return("", errors.New("service unreachable"))

	_, err := extractor.Extract(ctx, "customer: hello?")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction request failed")
}
