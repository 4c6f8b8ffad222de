package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	schemafiles "github.com/jonathan/call-scorer/schemas"

	"github.com/jonathan/call-scorer/internal/schemas"
	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/jonathan/call-scorer/internal/speakers"
	"github.com/jonathan/call-scorer/internal/types"
)

// ParseUtterances validates a JSON utterance array and decodes it
func ParseUtterances(data []byte) ([]types.Utterance, error) {
	if err := schemas.ValidateDocument(schemafiles.Utterances, data); err != nil {
		return nil, err
	}
	var utterances []types.Utterance
	if err := json.Unmarshal(data, &utterances); err != nil {
		return nil, fmt.Errorf("failed to decode utterances: %w", err)
	}
	return utterances, nil
}

// savedTranscript is the transcript-bearing part of a transcription or pipeline result file
type savedTranscript struct {
	Transcript     string                   `json:"transcript"`
	Classification *speakers.Classification `json:"classification"`
}

// LoadTranscript reads a transcript file. A .json file holds either diarized utterances, which
// are classified into a labeled transcript, or a saved transcription result. Anything else is
// read as canonical transcript text.
func LoadTranscript(path string) (string, *speakers.Classification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return string(data), nil, nil
	}

	transcript, classification, err := DecodeTranscript(data)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return transcript, classification, nil
}

// DecodeTranscript decodes a JSON transcript document: an utterance array, or an object with a
// "transcript" field as written by transcribe.
func DecodeTranscript(data []byte) (string, *speakers.Classification, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var saved savedTranscript
		if err := json.Unmarshal(trimmed, &saved); err != nil {
			return "", nil, fmt.Errorf("failed to decode transcript document: %w", err)
		}
		if strings.TrimSpace(saved.Transcript) == "" {
			return "", nil, &scoring.NoTranscriptError{Message: "document has no transcript"}
		}
		return saved.Transcript, saved.Classification, nil
	}

	utterances, err := ParseUtterances(trimmed)
	if err != nil {
		return "", nil, err
	}
	classification, err := speakers.Classify(utterances)
	if err != nil {
		return "", nil, err
	}
	return classification.Transcript(), classification, nil
}
