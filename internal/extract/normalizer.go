package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// extractionPayload is the expected shape of the collaborator's output.
type extractionPayload struct {
	Questions []questionPayload `json:"questions"`
}

type questionPayload struct {
	Text    string `json:"text"`
	Urgency string `json:"urgency"`
	Theme   string `json:"theme"`
	Answer  string `json:"answer"`
}

// Normalize validates raw extraction output into ExtractedQuestion
// records. Output that is not valid JSON of the expected shape returns
// ErrMalformedExtraction so the caller can skip the conversation; a
// record-level problem (missing text, invalid urgency) skips just that
// record and is logged. A conversation with no detected questions yields
// an empty slice, not an error.
func Normalize(raw []byte, sourceID string, logger *zap.Logger) ([]domain.ExtractedQuestion, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var payload extractionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExtraction, err)
	}

	questions := make([]domain.ExtractedQuestion, 0, len(payload.Questions))
	for i, record := range payload.Questions {
		if strings.TrimSpace(record.Text) == "" {
			logger.Warn("skipping extracted record: missing question text",
				zap.String("source_id", sourceID),
				zap.Int("record", i))
			continue
		}

		urgency, err := domain.ParseUrgency(record.Urgency)
		if err != nil {
			logger.Warn("skipping extracted record: invalid urgency",
				zap.String("source_id", sourceID),
				zap.Int("record", i),
				zap.String("urgency", record.Urgency))
			continue
		}

		question := domain.ExtractedQuestion{
			Text:     strings.TrimSpace(record.Text),
			Urgency:  urgency,
			SourceID: sourceID,
			Theme:    strings.ToLower(strings.TrimSpace(record.Theme)),
			Answer:   strings.TrimSpace(record.Answer),
		}
		if err := domain.ValidateExtractedQuestion(&question); err != nil {
			logger.Warn("skipping extracted record: validation failed",
				zap.String("source_id", sourceID),
				zap.Int("record", i),
				zap.Error(err))
			continue
		}

		questions = append(questions, question)
	}

	return questions, nil
}
