package rubric

import "fmt"

// ParseError represents a rubric document that could not be decoded
type ParseError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rubric parse error in %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("rubric parse error in %s: %s", e.Source, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a decoded rubric that violates criterion constraints
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid rubric: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid rubric: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NotFoundError represents a rubric name that matches no preset or stored rubric
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("rubric not found: %s", e.Name)
}
