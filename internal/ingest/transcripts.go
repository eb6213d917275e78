// Package ingest parses raw source documents (call transcripts, email
// exports) into domain conversations. Parse failures are per-item: a bad
// file is skipped and counted, never fatal for the run.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gapscanhq/gapscan/internal/domain"
)

// TranscriptParser reads transcript files (.json, .jsonl, .csv) from a
// directory tree.
type TranscriptParser struct {
	logger *zap.Logger
}

// NewTranscriptParser creates a new TranscriptParser instance
func NewTranscriptParser(logger *zap.Logger) *TranscriptParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptParser{logger: logger}
}

// transcriptTurn mirrors the on-disk turn shape. Timestamps appear as
// strings, ints, or floats depending on the exporter.
type transcriptTurn struct {
	Speaker   string          `json:"speaker"`
	Text      string          `json:"text"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type transcriptFile struct {
	ID           string           `json:"id"`
	Turns        []transcriptTurn `json:"turns"`
	Conversation []transcriptTurn `json:"conversation"`
	Metadata     map[string]any   `json:"metadata"`
}

// ParseDirectory parses every supported file under dir, recursively.
// The second return value counts files that could not be parsed.
func (p *TranscriptParser) ParseDirectory(dir string) ([]*domain.Conversation, int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open transcripts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("transcripts path is not a directory: %s", dir)
	}

	var conversations []*domain.Conversation
	skipped := 0

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".jsonl" && ext != ".csv" {
			return nil
		}

		conversation, parseErr := p.ParseFile(path)
		if parseErr != nil {
			skipped++
			p.logger.Warn("skipping unparseable transcript",
				zap.String("file", filepath.Base(path)),
				zap.Error(parseErr))
			return nil
		}
		conversations = append(conversations, conversation)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to walk transcripts directory: %w", err)
	}

	p.logger.Info("parsed transcripts",
		zap.String("dir", dir),
		zap.Int("parsed", len(conversations)),
		zap.Int("skipped", skipped))
	return conversations, skipped, nil
}

// ParseFile parses a single transcript file by extension.
func (p *TranscriptParser) ParseFile(path string) (*domain.Conversation, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return p.parseJSON(path)
	case ".jsonl":
		return p.parseJSONL(path)
	case ".csv":
		return p.parseCSV(path)
	}
	return nil, fmt.Errorf("unsupported transcript file type: %s", filepath.Ext(path))
}

func (p *TranscriptParser) parseJSON(path string) (*domain.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	id := fileStem(path)
	var rawTurns []transcriptTurn
	metadata := map[string]any{}

	var file transcriptFile
	if err := json.Unmarshal(data, &file); err == nil && (len(file.Turns) > 0 || len(file.Conversation) > 0) {
		if file.ID != "" {
			id = file.ID
		}
		rawTurns = file.Turns
		if len(rawTurns) == 0 {
			rawTurns = file.Conversation
		}
		metadata = file.Metadata
	} else if err := json.Unmarshal(data, &rawTurns); err != nil {
		return nil, fmt.Errorf("failed to parse transcript json: %w", err)
	}

	return p.buildConversation(id, rawTurns, metadata)
}

func (p *TranscriptParser) parseJSONL(path string) (*domain.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var rawTurns []transcriptTurn
	metadata := map[string]any{}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Metadata lines carry run-level context instead of a turn.
		var meta struct {
			Type string         `json:"type"`
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &meta); err == nil && meta.Type == "metadata" {
			for k, v := range meta.Data {
				metadata[k] = v
			}
			continue
		}

		var turn transcriptTurn
		if err := json.Unmarshal([]byte(line), &turn); err != nil {
			p.logger.Warn("skipping invalid transcript line",
				zap.String("file", filepath.Base(path)),
				zap.Int("line", i+1))
			continue
		}
		rawTurns = append(rawTurns, turn)
	}

	return p.buildConversation(fileStem(path), rawTurns, metadata)
}

func (p *TranscriptParser) parseCSV(path string) (*domain.Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	speakerCol, hasSpeaker := columns["speaker"]
	textCol, hasText := columns["text"]
	if !hasSpeaker || !hasText {
		return nil, fmt.Errorf("csv transcript must have speaker and text columns")
	}
	timestampCol, hasTimestamp := columns["timestamp"]

	var rawTurns []transcriptTurn
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		turn := transcriptTurn{
			Speaker: row[speakerCol],
			Text:    row[textCol],
		}
		if hasTimestamp && timestampCol < len(row) && row[timestampCol] != "" {
			turn.Timestamp = json.RawMessage(`"` + row[timestampCol] + `"`)
		}
		rawTurns = append(rawTurns, turn)
	}

	return p.buildConversation(fileStem(path), rawTurns, nil)
}

func (p *TranscriptParser) buildConversation(id string, rawTurns []transcriptTurn, metadata map[string]any) (*domain.Conversation, error) {
	var turns []domain.Utterance
	for _, raw := range rawTurns {
		speaker, ok := normalizeSpeaker(raw.Speaker)
		if !ok || strings.TrimSpace(raw.Text) == "" {
			continue
		}
		turns = append(turns, domain.Utterance{
			Speaker:   speaker,
			Text:      strings.TrimSpace(raw.Text),
			Timestamp: timestampString(raw.Timestamp),
			SourceID:  id,
		})
	}

	if len(turns) == 0 {
		return nil, fmt.Errorf("transcript %s has no usable turns", id)
	}

	conversation := domain.NewConversation(id, domain.SourceTypeCallTranscript, turns)
	for k, v := range metadata {
		conversation.Metadata[k] = fmt.Sprint(v)
	}

	if err := domain.ValidateConversation(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// normalizeSpeaker maps exporter speaker labels onto the two roles the
// pipeline distinguishes.
func normalizeSpeaker(raw string) (domain.Speaker, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "customer", "caller", "user", "client":
		return domain.SpeakerCustomer, true
	case "agent", "representative", "support", "operator":
		return domain.SpeakerAgent, true
	}
	return "", false
}

// timestampString renders a raw JSON timestamp (string or number) as text.
func timestampString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
