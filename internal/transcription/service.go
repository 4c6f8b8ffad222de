// Package transcription submits call audio to a speech-to-text service and waits for diarized results.
package transcription

import (
	"context"

	"github.com/jonathan/call-scorer/internal/types"
)

// Service is a remote speech-to-text backend with speaker labels
type Service interface {
	// Submit uploads audio and starts a transcription job, returning its ID
	Submit(ctx context.Context, audio []byte) (string, error)
	// Poll fetches the current state of a job
	Poll(ctx context.Context, jobID string) (*types.TranscriptionJob, error)
}
