// Package types provides type definitions for structured data used throughout the call-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobStatus is the lifecycle state of a remote transcription job
type JobStatus string

const (
	// JobPending covers queued and in-progress jobs
	JobPending JobStatus = "pending"
	// JobCompleted means text and utterances are available
	JobCompleted JobStatus = "completed"
	// JobError means the service gave up on the audio
	JobError JobStatus = "error"
)

// TranscriptionJob is a snapshot of a remote transcription job
type TranscriptionJob struct {
	ID         string      `json:"id"`
	Status     JobStatus   `json:"status"`
	Text       string      `json:"text,omitempty"`
	Utterances []Utterance `json:"utterances,omitempty"`
	Confidence *float64    `json:"confidence,omitempty"`
	Words      []Word      `json:"words,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Done reports whether the job reached a terminal state
func (j *TranscriptionJob) Done() bool {
	return j.Status == JobCompleted || j.Status == JobError
}
