package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/jonathan/call-scorer/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchScoreCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", sampleTranscript)
	writeFile(t, dir, "b.json", sampleUtterances)
	writeFile(t, dir, "notes.md", "ignored")

	output, err := executeCommand(t, "", "batch-score", dir, "--concurrency", "2")
	require.NoError(t, err)

	var summary pipeline.BatchSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	require.Len(t, summary.Results, 2)
	assert.Equal(t, filepath.Join(dir, "a.txt"), summary.Results[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.json"), summary.Results[1].Path)
	assert.Equal(t, 2, summary.Scored)
	assert.Equal(t, 0, summary.Failed)
}

func TestBatchScoreCommand_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", sampleTranscript)
	writeFile(t, dir, "empty.txt", "  ")

	output, err := executeCommand(t, "", "batch-score", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 transcripts failed")

	var summary pipeline.BatchSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 1, summary.Scored)
	assert.Equal(t, 1, summary.Failed)
}

func TestBatchScoreCommand_Verbose(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "call.txt", sampleTranscript)

	output, err := executeCommand(t, "", "batch-score", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ "+path)
	assert.Contains(t, output, "Scored 1, failed 0")
}

func TestBatchScoreCommand_NoTranscripts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "ignored")

	_, err := executeCommand(t, "", "batch-score", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .txt or .json transcripts found")
}

func TestBatchScoreCommand_RequiresArgs(t *testing.T) {
	_, err := executeCommand(t, "", "batch-score")
	assert.Error(t, err)
}
