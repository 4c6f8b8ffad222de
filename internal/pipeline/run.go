// Package pipeline provides the high-level orchestration from recorded audio or a stored
// transcript to a scored call analysis.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/jonathan/call-scorer/internal/speakers"
	"github.com/jonathan/call-scorer/internal/transcription"
	"github.com/jonathan/call-scorer/internal/types"
)

// Step names reported through progress events
const (
	StepTranscribe = "transcribe"
	StepClassify   = "classify_speakers"
	StepScore      = "score"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Service    transcription.Service
	Rubric     *types.Rubric
	Wait       transcription.WaitOptions
	Logger     logrus.FieldLogger
	OnProgress ProgressCallback
}

// Result holds everything produced by one pipeline run
type Result struct {
	RunID          string                       `json:"runId"`
	Job            *types.TranscriptionJob      `json:"job,omitempty"`
	Quality        *transcription.QualityReport `json:"quality,omitempty"`
	Classification *speakers.Classification     `json:"classification,omitempty"`
	Transcript     string                       `json:"transcript"`
	Analysis       *types.CallAnalysis          `json:"analysis"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   runID,
			Content: content,
		})
	}
}

// RunPipeline transcribes audio, labels speakers, and scores the call.
// Scoring starts only after the transcription job has completed.
func RunPipeline(ctx context.Context, audio []byte, opts RunOptions) (*Result, error) {
	if opts.Service == nil {
		return nil, errors.New("transcription service is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	runID := uuid.NewString()
	log := opts.Logger.WithField("run_id", runID)

	emitProgress(&opts, runID, StepTranscribe, "Transcribing audio", nil)
	waitOpts := opts.Wait
	waitOpts.Logger = log
	job, err := transcription.Transcribe(ctx, opts.Service, audio, waitOpts)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return analyzeJob(job, &opts, runID, log)
}

// AnalyzeJob labels and scores an already completed transcription job
func AnalyzeJob(job *types.TranscriptionJob, opts RunOptions) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	runID := uuid.NewString()
	return analyzeJob(job, &opts, runID, opts.Logger.WithField("run_id", runID))
}

func analyzeJob(job *types.TranscriptionJob, opts *RunOptions, runID string, log logrus.FieldLogger) (*Result, error) {
	if job == nil || job.Status != types.JobCompleted {
		return nil, errors.New("transcription job is not completed")
	}

	quality := transcription.Assess(job)
	result := &Result{RunID: runID, Job: job, Quality: &quality}

	transcript, classification, err := TranscriptFromJob(job)
	if err != nil {
		return nil, err
	}
	result.Transcript = transcript
	result.Classification = classification
	if classification != nil {
		log.WithFields(logrus.Fields{
			"agent":    classification.AgentID,
			"speakers": len(classification.Profiles),
		}).Info("speaker roles classified")
		emitProgress(opts, runID, StepClassify, "Identified agent speaker "+classification.AgentID, classification)
	}

	emitProgress(opts, runID, StepScore, "Scoring call", nil)
	analysis, err := scoring.ScoreRubric(transcript, opts.Rubric)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	analysis.ID = runID
	result.Analysis = analysis

	log.WithFields(logrus.Fields{
		"total":      analysis.TotalScore,
		"max":        analysis.MaxPossibleScore,
		"percentage": analysis.Percentage,
		"grade":      analysis.Grade,
	}).Info("call scored")
	return result, nil
}

// TranscriptFromJob renders a completed job as a canonical transcript.
// Jobs without diarized utterances fall back to their plain text and carry no classification.
func TranscriptFromJob(job *types.TranscriptionJob) (string, *speakers.Classification, error) {
	if len(job.Utterances) > 0 {
		classification, err := speakers.Classify(job.Utterances)
		if err != nil {
			return "", nil, fmt.Errorf("speaker classification failed: %w", err)
		}
		return classification.Transcript(), classification, nil
	}

	text := strings.TrimSpace(job.Text)
	if text == "" {
		return "", nil, &scoring.NoTranscriptError{Message: "transcription returned no text"}
	}
	return text, nil, nil
}

// TranscriptionResult is a finished transcription with its canonical labeled transcript
type TranscriptionResult struct {
	Job            *types.TranscriptionJob     `json:"job"`
	Quality        transcription.QualityReport `json:"quality"`
	Classification *speakers.Classification    `json:"classification,omitempty"`
	Transcript     string                      `json:"transcript"`
}

// Transcribe transcribes audio and labels speakers without scoring. opts.Rubric is ignored.
// A job that finishes with no text yields an empty transcript rather than an error.
func Transcribe(ctx context.Context, audio []byte, opts RunOptions) (*TranscriptionResult, error) {
	if opts.Service == nil {
		return nil, errors.New("transcription service is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	waitOpts := opts.Wait
	waitOpts.Logger = opts.Logger

	job, err := transcription.Transcribe(ctx, opts.Service, audio, waitOpts)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result := &TranscriptionResult{Job: job, Quality: transcription.Assess(job)}
	transcript, classification, err := TranscriptFromJob(job)
	var noTranscript *scoring.NoTranscriptError
	if err != nil && !errors.As(err, &noTranscript) {
		return nil, err
	}
	result.Transcript = transcript
	result.Classification = classification
	if classification != nil {
		opts.Logger.WithField("agent", classification.AgentID).Info("speaker roles classified")
	}
	return result, nil
}
