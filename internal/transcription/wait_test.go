package transcription

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/call-scorer/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu        sync.Mutex
	statuses  []types.JobStatus
	polls     int
	submitErr error
	pollErr   error
	jobError  string
}

func (f *fakeService) Submit(_ context.Context, audio []byte) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "job-" + string(audio), nil
}

func (f *fakeService) Poll(_ context.Context, jobID string) (*types.TranscriptionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	status := types.JobPending
	if f.polls < len(f.statuses) {
		status = f.statuses[f.polls]
	}
	f.polls++

	job := &types.TranscriptionJob{ID: jobID, Status: status, Error: f.jobError}
	if status == types.JobCompleted {
		job.Utterances = []types.Utterance{{SpeakerID: "A", Text: "hello"}}
	}
	return job, nil
}

func quietOptions(maxAttempts int) (WaitOptions, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return WaitOptions{Interval: time.Millisecond, MaxAttempts: maxAttempts, Logger: logger}, hook
}

func TestWait_CompletesAfterPending(t *testing.T) {
	svc := &fakeService{statuses: []types.JobStatus{types.JobPending, types.JobPending, types.JobCompleted}}
	opts, hook := quietOptions(10)

	job, err := Wait(context.Background(), svc, "job-1", opts)
	require.NoError(t, err)
	assert.Equal(t, types.JobCompleted, job.Status)
	assert.Equal(t, 3, svc.polls)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "transcription completed", hook.LastEntry().Message)
	assert.Equal(t, "job-1", hook.LastEntry().Data["job_id"])
}

func TestWait_Timeout(t *testing.T) {
	svc := &fakeService{}
	opts, _ := quietOptions(3)

	_, err := Wait(context.Background(), svc, "job-slow", opts)
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Equal(t, "job-slow", timeoutErr.JobID)
	assert.Equal(t, 3, svc.polls)
}

func TestWait_JobError(t *testing.T) {
	svc := &fakeService{statuses: []types.JobStatus{types.JobError}, jobError: "audio too short"}
	opts, _ := quietOptions(5)

	_, err := Wait(context.Background(), svc, "job-bad", opts)
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Contains(t, err.Error(), "audio too short")
	assert.Equal(t, 1, svc.polls)
}

func TestWait_PollErrorIsNotRetried(t *testing.T) {
	boom := errors.New("connection reset")
	svc := &fakeService{pollErr: boom}
	opts, _ := quietOptions(5)

	_, err := Wait(context.Background(), svc, "job-x", opts)
	assert.ErrorIs(t, err, boom)
}

func TestWait_ContextCancelled(t *testing.T) {
	svc := &fakeService{}
	opts, _ := quietOptions(1000)
	opts.Interval = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Wait(ctx, svc, "job-x", opts)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTranscribe(t *testing.T) {
	svc := &fakeService{statuses: []types.JobStatus{types.JobCompleted}}
	opts, _ := quietOptions(2)

	job, err := Transcribe(context.Background(), svc, []byte("7"), opts)
	require.NoError(t, err)
	assert.Equal(t, "job-7", job.ID)

	svc = &fakeService{submitErr: errors.New("unauthorized")}
	_, err = Transcribe(context.Background(), svc, []byte("7"), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to submit audio")
}

func TestWaitOptions_Defaults(t *testing.T) {
	opts := WaitOptions{}.withDefaults()
	assert.Equal(t, DefaultPollInterval, opts.Interval)
	assert.Equal(t, DefaultMaxAttempts, opts.MaxAttempts)
	assert.NotNil(t, opts.Logger)
}
