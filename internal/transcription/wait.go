package transcription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/call-scorer/internal/types"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

// Polling defaults
const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxAttempts  = 60
)

var errStillPending = errors.New("transcription still pending")

// WaitOptions controls polling
type WaitOptions struct {
	Interval    time.Duration
	MaxAttempts int
	Logger      logrus.FieldLogger
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Wait polls a job at a fixed interval until it completes, fails, or runs out of attempts.
// Only one poll is in flight at a time. Cancelling ctx abandons the wait.
func Wait(ctx context.Context, svc Service, jobID string, opts WaitOptions) (*types.TranscriptionJob, error) {
	opts = opts.withDefaults()
	log := opts.Logger.WithField("job_id", jobID)

	backoff := retry.WithMaxRetries(uint64(opts.MaxAttempts-1), retry.NewConstant(opts.Interval))

	var (
		job      *types.TranscriptionJob
		attempts int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		polled, err := svc.Poll(ctx, jobID)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"attempt": attempts, "status": polled.Status}).Debug("polled transcription")

		switch polled.Status {
		case types.JobCompleted:
			job = polled
			return nil
		case types.JobError:
			return &ServiceError{Op: "transcribe", Message: polled.Error}
		default:
			return retry.RetryableError(errStillPending)
		}
	})

	if errors.Is(err, errStillPending) {
		return nil, &TimeoutError{JobID: jobID, Attempts: attempts}
	}
	if err != nil {
		return nil, err
	}

	Assess(job).Log(log)
	return job, nil
}

// Transcribe submits audio and waits for the finished job
func Transcribe(ctx context.Context, svc Service, audio []byte, opts WaitOptions) (*types.TranscriptionJob, error) {
	opts = opts.withDefaults()

	jobID, err := svc.Submit(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("failed to submit audio: %w", err)
	}
	opts.Logger.WithField("job_id", jobID).Info("transcription requested")

	return Wait(ctx, svc, jobID, opts)
}
