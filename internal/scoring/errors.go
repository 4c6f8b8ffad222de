package scoring

import "fmt"

// EmptyRubricError is returned when a rubric has no criteria or no attainable points
type EmptyRubricError struct {
	Message string
}

func (e *EmptyRubricError) Error() string {
	return fmt.Sprintf("empty rubric: %s", e.Message)
}

// NoTranscriptError is returned when the transcript is empty or whitespace only
type NoTranscriptError struct {
	Message string
}

func (e *NoTranscriptError) Error() string {
	return fmt.Sprintf("no transcript: %s", e.Message)
}
