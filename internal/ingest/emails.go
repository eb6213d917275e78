package ingest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// EmailParser reads simplified JSON email exports. One file per message:
//
//	{"id": "...", "from": "...", "to": "...", "subject": "...",
//	 "date": "...", "body": "...", "thread_id": "..."}
type EmailParser struct {
	logger *zap.Logger
}

// NewEmailParser creates a new EmailParser instance
func NewEmailParser(logger *zap.Logger) *EmailParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailParser{logger: logger}
}

type emailFile struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Body     string `json:"body"`
	ThreadID string `json:"thread_id"`
}

// ParseDirectory parses every .json email export under dir, recursively.
// The second return value counts files that could not be parsed.
func (p *EmailParser) ParseDirectory(dir string) ([]*domain.Conversation, int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open emails directory: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("emails path is not a directory: %s", dir)
	}

	var conversations []*domain.Conversation
	skipped := 0

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".json" {
			return nil
		}

		conversation, parseErr := p.ParseFile(path)
		if parseErr != nil {
			skipped++
			p.logger.Warn("skipping unparseable email",
				zap.String("file", filepath.Base(path)),
				zap.Error(parseErr))
			return nil
		}
		conversations = append(conversations, conversation)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to walk emails directory: %w", err)
	}

	p.logger.Info("parsed emails",
		zap.String("dir", dir),
		zap.Int("parsed", len(conversations)),
		zap.Int("skipped", skipped))
	return conversations, skipped, nil
}

// ParseFile parses a single email export into a one-turn conversation.
func (p *EmailParser) ParseFile(path string) (*domain.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}

	var msg emailFile
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse email json: %w", err)
	}

	id := msg.ID
	if id == "" {
		id = fileStem(path)
	}

	body := strings.TrimSpace(msg.Body)
	if body == "" {
		return nil, fmt.Errorf("email %s has no body", id)
	}

	subject := strings.TrimSpace(msg.Subject)
	text := body
	if subject != "" {
		text = subject + "\n\n" + body
	}

	conversation := domain.NewConversation(id, domain.SourceTypeEmail, []domain.Utterance{
		{
			Speaker:   domain.SpeakerCustomer,
			Text:      text,
			Timestamp: msg.Date,
			SourceID:  id,
		},
	})
	conversation.Metadata["from"] = msg.From
	conversation.Metadata["subject"] = subject
	if msg.ThreadID != "" {
		conversation.Metadata["thread_id"] = msg.ThreadID
	}
	if isReplySubject(subject) {
		conversation.Metadata["is_reply"] = "true"
	}

	if err := domain.ValidateConversation(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func isReplySubject(subject string) bool {
	lower := strings.ToLower(subject)
	return strings.HasPrefix(lower, "re:") || strings.HasPrefix(lower, "fwd:")
}
