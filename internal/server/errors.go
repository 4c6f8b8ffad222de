// Package server provides the HTTP REST API for call scoring.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/call-scorer/internal/rubric"
	"github.com/jonathan/call-scorer/internal/schemas"
	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/jonathan/call-scorer/internal/speakers"
	"github.com/jonathan/call-scorer/internal/transcription"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature whose backing service is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unavailableErr *ErrUnavailable
		parseErr       *rubric.ParseError
		rubricErr      *rubric.ValidationError
		notFoundErr    *rubric.NotFoundError
		schemaErr      *schemas.ValidationError
		loadErr        *schemas.SchemaLoadError
		noTranscript   *scoring.NoTranscriptError
		emptyRubric    *scoring.EmptyRubricError
		timeoutErr     *transcription.TimeoutError
		serviceErr     *transcription.ServiceError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseErr), errors.As(err, &loadErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &rubricErr), errors.As(err, &schemaErr),
		errors.As(err, &noTranscript), errors.As(err, &emptyRubric),
		errors.Is(err, speakers.ErrNoUtterances):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &serviceErr):
		return http.StatusBadGateway
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
