package transcription

import "fmt"

// ServiceError represents a failed call to the speech-to-text service or a job the service rejected
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("transcription %s failed", e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// TimeoutError is returned when a job is still pending after the last poll attempt
type TimeoutError struct {
	JobID    string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transcription %s timed out after %d poll attempts; try a shorter audio file", e.JobID, e.Attempts)
}
