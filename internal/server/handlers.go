package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/call-scorer/internal/db"
	"github.com/jonathan/call-scorer/internal/pipeline"
	"github.com/jonathan/call-scorer/internal/rubric"
	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/jonathan/call-scorer/internal/speakers"
	"github.com/jonathan/call-scorer/internal/types"
)

// AnalyzeRequest is the body for POST /analyses. Exactly one of Transcript or Utterances is set;
// the rubric comes from Rubric, RubricName, or the server default, in that order.
type AnalyzeRequest struct {
	Transcript string          `json:"transcript,omitempty" validate:"required_without=Utterances,excluded_with=Utterances"`
	Utterances json.RawMessage `json:"utterances,omitempty"`
	Rubric     json.RawMessage `json:"rubric,omitempty"`
	RubricName string          `json:"rubricName,omitempty" validate:"excluded_with=Rubric"`
}

// AnalyzeResponse is returned by POST /analyses
type AnalyzeResponse struct {
	Analysis       *types.CallAnalysis      `json:"analysis"`
	Classification *speakers.Classification `json:"classification,omitempty"`
}

// ClassifyRequest is the body for POST /speakers/classify
type ClassifyRequest struct {
	Utterances json.RawMessage `json:"utterances" validate:"required"`
}

// ClassifyResponse is returned by POST /speakers/classify
type ClassifyResponse struct {
	*speakers.Classification
	Transcript string `json:"transcript"`
}

// TranscriptionResponse is returned by POST /transcriptions when scoring is not requested
type TranscriptionResponse struct {
	*pipeline.TranscriptionResult
}

// RubricListResponse is returned by GET /rubrics
type RubricListResponse struct {
	Presets []string           `json:"presets"`
	Stored  []db.RubricSummary `json:"stored,omitempty"`
}

// RubricValidationResponse is returned by POST /rubrics/validate
type RubricValidationResponse struct {
	Valid            bool    `json:"valid"`
	Name             string  `json:"name"`
	Criteria         int     `json:"criteria"`
	MaxPossibleScore float64 `json:"maxPossibleScore"`
}

// handleAnalyze scores a transcript or a list of diarized utterances
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorFrom(w, r, err)
		return
	}

	rb, err := s.resolveRubric(r.Context(), req.Rubric, req.RubricName)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	resp := AnalyzeResponse{}
	transcript := req.Transcript
	if len(req.Utterances) > 0 {
		utterances, err := pipeline.ParseUtterances(req.Utterances)
		if err != nil {
			s.errorFrom(w, r, err)
			return
		}
		resp.Classification, err = speakers.Classify(utterances)
		if err != nil {
			s.errorFrom(w, r, err)
			return
		}
		transcript = resp.Classification.Transcript()
	}

	resp.Analysis, err = scoring.ScoreRubric(transcript, rb)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	resp.Analysis.ID = uuid.NewString()

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleClassifySpeakers labels diarized utterances. The body is either a bare
// utterance array or {"utterances": [...]}.
func (s *Server) handleClassifySpeakers(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.errorFrom(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	raw := json.RawMessage(body)
	if len(body) > 0 && body[0] == '{' {
		var req ClassifyRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.errorFrom(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
			return
		}
		if err := s.validator.Struct(req); err != nil {
			s.errorFrom(w, r, extractValidationErrors(err))
			return
		}
		raw = req.Utterances
	}

	utterances, err := pipeline.ParseUtterances(raw)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	classification, err := speakers.Classify(utterances)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ClassifyResponse{
		Classification: classification,
		Transcript:     classification.Transcript(),
	})
}

// handleTranscribe accepts a multipart "audio" upload, transcribes it, and optionally scores it
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		s.errorFrom(w, r, &ErrUnavailable{Feature: "transcription"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.errorFrom(w, r, &ErrValidation{Field: "audio", Message: "expected multipart form upload: " + err.Error()})
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		s.errorFrom(w, r, &ErrValidation{Field: "audio", Message: "file is required"})
		return
	}
	defer file.Close() //nolint:errcheck

	audio, err := io.ReadAll(file)
	if err != nil {
		s.errorFrom(w, r, &ErrValidation{Field: "audio", Message: err.Error()})
		return
	}
	if len(audio) == 0 {
		s.errorFrom(w, r, &ErrValidation{Field: "audio", Message: "file is empty"})
		return
	}

	score := false
	if v := r.FormValue("score"); v != "" {
		if score, err = strconv.ParseBool(v); err != nil {
			s.errorFrom(w, r, &ErrValidation{Field: "score", Message: "must be a boolean"})
			return
		}
	}

	if !score {
		result, err := pipeline.Transcribe(r.Context(), audio, pipeline.RunOptions{
			Service: s.transcriber,
			Wait:    s.wait,
			Logger:  s.logger,
		})
		if err != nil {
			s.errorFrom(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, TranscriptionResponse{TranscriptionResult: result})
		return
	}

	rb, err := s.resolveRubric(r.Context(), nil, r.FormValue("rubricName"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	result, err := pipeline.RunPipeline(r.Context(), audio, pipeline.RunOptions{
		Service: s.transcriber,
		Rubric:  rb,
		Wait:    s.wait,
		Logger:  s.logger,
	})
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListRubrics lists built-in presets and stored rubrics
func (s *Server) handleListRubrics(w http.ResponseWriter, r *http.Request) {
	resp := RubricListResponse{Presets: rubric.PresetNames()}
	if s.store != nil {
		stored, err := s.store.ListRubrics(r.Context())
		if err != nil {
			s.errorFrom(w, r, err)
			return
		}
		resp.Stored = stored
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleDefaultRubric returns the rubric used when a request names none
func (s *Server) handleDefaultRubric(w http.ResponseWriter, r *http.Request) {
	rb, err := s.defaultRubric(r.Context())
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rb)
}

// handleGetRubric returns a stored rubric or preset by name
func (s *Server) handleGetRubric(w http.ResponseWriter, r *http.Request) {
	rb, err := s.namedRubric(r.Context(), r.PathValue("name"))
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rb)
}

// handlePutRubric validates and stores a rubric under the path name
func (s *Server) handlePutRubric(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFrom(w, r, &ErrUnavailable{Feature: "rubric storage"})
		return
	}
	name := r.PathValue("name")
	if name == "default" {
		s.errorFrom(w, r, &ErrValidation{Field: "name", Message: "default is reserved"})
		return
	}

	rb, err := s.decodeRubricBody(w, r)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	rb.Name = name

	if err := s.store.SaveRubric(r.Context(), rb); err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.logger.WithField("rubric", name).Info("rubric saved")
	s.jsonResponse(w, http.StatusOK, rb)
}

// handleValidateRubric checks a rubric document without storing it
func (s *Server) handleValidateRubric(w http.ResponseWriter, r *http.Request) {
	rb, err := s.decodeRubricBody(w, r)
	if err != nil {
		s.errorFrom(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RubricValidationResponse{
		Valid:            true,
		Name:             rb.Name,
		Criteria:         len(rb.Criteria),
		MaxPossibleScore: rb.MaxPossibleScore(),
	})
}

// decodeJSON reads a size-limited JSON body into dst and runs struct validation
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	if err := s.validator.Struct(dst); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

func (s *Server) decodeRubricBody(w http.ResponseWriter, r *http.Request) (*types.Rubric, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return rubric.Decode("request", body, rubric.FormatJSON)
}

// resolveRubric picks the inline rubric, then a named one, then the server default
func (s *Server) resolveRubric(ctx context.Context, inline json.RawMessage, name string) (*types.Rubric, error) {
	switch {
	case len(inline) > 0:
		return rubric.Decode("request", inline, rubric.FormatJSON)
	case name != "":
		return s.namedRubric(ctx, name)
	default:
		return s.defaultRubric(ctx)
	}
}

func (s *Server) namedRubric(ctx context.Context, name string) (*types.Rubric, error) {
	if name == "default" {
		return s.defaultRubric(ctx)
	}
	if s.store != nil {
		return rubric.StoreSource{Store: s.store, Name: name}.Load(ctx)
	}
	return rubric.Preset(name)
}

func (s *Server) defaultRubric(ctx context.Context) (*types.Rubric, error) {
	return rubric.Load(ctx, s.rubrics)
}

// extractValidationErrors converts the first validator error into an ErrValidation.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: fmt.Sprintf("failed %q check", ve.Tag())}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}
