package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/call-scorer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssemblyAIServer(t *testing.T, status string) (*httptest.Server, *transcriptRequest) {
	t.Helper()
	var captured transcriptRequest

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		file, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		assert.Equal(t, "RIFF-audio", string(data))
		_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio-1"})
	})
	mux.HandleFunc("POST /transcript", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-42", "status": "queued"})
	})
	mux.HandleFunc("GET /transcript/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "job-42" {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{
			"id": "job-42",
			"status": "` + status + `",
			"text": "Hello, thanks for calling. I need help.",
			"confidence": 0.91,
			"words": [
				{"text": "Hello,", "start": 0, "end": 300, "confidence": 0.98, "speaker": "A"},
				{"text": "help.", "start": 2000, "end": 2300, "confidence": 0.55, "speaker": "B"}
			],
			"utterances": [
				{"speaker": "A", "text": "Hello, thanks for calling.", "confidence": 0.95, "start": 0, "end": 1500,
				 "words": [{"text": "Hello,", "start": 0, "end": 300, "confidence": 0.98, "speaker": "A"}]},
				{"speaker": "B", "text": "I need help.", "confidence": 0.8, "start": 1600, "end": 2300}
			],
			"error": ""
		}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestAssemblyAI_Submit(t *testing.T) {
	srv, captured := newAssemblyAIServer(t, "queued")
	client := NewAssemblyAI("test-key", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))

	id, err := client.Submit(context.Background(), []byte("RIFF-audio"))
	require.NoError(t, err)
	assert.Equal(t, "job-42", id)

	assert.Equal(t, "https://cdn.example/audio-1", captured.AudioURL)
	assert.True(t, captured.SpeakerLabels)
	assert.True(t, captured.Punctuate)
	assert.False(t, captured.FormatText)
	assert.True(t, captured.Disfluencies)
	assert.Equal(t, "high", captured.BoostParam)
}

func TestAssemblyAI_SubmitEmptyAudio(t *testing.T) {
	client := NewAssemblyAI("test-key")
	_, err := client.Submit(context.Background(), nil)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "upload", svcErr.Op)
}

func TestAssemblyAI_PollCompleted(t *testing.T) {
	srv, _ := newAssemblyAIServer(t, "completed")
	client := NewAssemblyAI("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	job, err := client.Poll(context.Background(), "job-42")
	require.NoError(t, err)
	assert.Equal(t, types.JobCompleted, job.Status)
	require.Len(t, job.Utterances, 2)
	assert.Equal(t, "A", job.Utterances[0].SpeakerID)
	assert.Len(t, job.Utterances[0].Words, 1)
	assert.Nil(t, job.Utterances[1].Words)
	require.NotNil(t, job.Confidence)
	assert.InDelta(t, 0.91, *job.Confidence, 1e-9)
	assert.Len(t, job.Words, 2)
}

func TestAssemblyAI_PollStatusMapping(t *testing.T) {
	tests := map[string]types.JobStatus{
		"queued":     types.JobPending,
		"processing": types.JobPending,
		"completed":  types.JobCompleted,
		"error":      types.JobError,
	}
	for remote, want := range tests {
		t.Run(remote, func(t *testing.T) {
			srv, _ := newAssemblyAIServer(t, remote)
			client := NewAssemblyAI("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

			job, err := client.Poll(context.Background(), "job-42")
			require.NoError(t, err)
			assert.Equal(t, want, job.Status)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		srv, _ := newAssemblyAIServer(t, "paused")
		client := NewAssemblyAI("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
		_, err := client.Poll(context.Background(), "job-42")
		assert.Error(t, err)
	})
}

func TestAssemblyAI_HTTPError(t *testing.T) {
	srv, _ := newAssemblyAIServer(t, "completed")
	client := NewAssemblyAI("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := client.Poll(context.Background(), "missing")
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
	assert.Equal(t, "poll", svcErr.Op)
	assert.Contains(t, svcErr.Error(), "status 404")
}
