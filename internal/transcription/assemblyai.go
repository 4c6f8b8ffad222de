package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/call-scorer/internal/types"
)

// DefaultBaseURL is the AssemblyAI v2 API root
const DefaultBaseURL = "https://api.assemblyai.com/v2"

const maxErrorBody = 4096

// AssemblyAI is a Service backed by the AssemblyAI REST API
type AssemblyAI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures an AssemblyAI client
type Option func(*AssemblyAI)

// WithBaseURL overrides the API root
func WithBaseURL(baseURL string) Option {
	return func(c *AssemblyAI) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *AssemblyAI) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewAssemblyAI creates an AssemblyAI client
func NewAssemblyAI(apiKey string, opts ...Option) *AssemblyAI {
	c := &AssemblyAI{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	Punctuate     bool   `json:"punctuate"`
	FormatText    bool   `json:"format_text"`
	Disfluencies  bool   `json:"disfluencies"`
	BoostParam    string `json:"boost_param"`
}

type transcriptResponse struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	Text       string            `json:"text"`
	Confidence *float64          `json:"confidence"`
	Words      []types.Word      `json:"words"`
	Utterances []types.Utterance `json:"utterances"`
	Error      string            `json:"error"`
}

// Submit uploads the audio and requests a speaker-labeled transcript
func (c *AssemblyAI) Submit(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", &ServiceError{Op: "upload", Message: "audio is empty"}
	}

	uploadURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(transcriptRequest{
		AudioURL:      uploadURL,
		SpeakerLabels: true,
		Punctuate:     true,
		FormatText:    false,
		Disfluencies:  true,
		BoostParam:    "high",
	})
	if err != nil {
		return "", &ServiceError{Op: "request", Message: "failed to encode request", Cause: err}
	}

	var out transcriptResponse
	if err := c.do(ctx, "request", http.MethodPost, "/transcript", "application/json", bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &ServiceError{Op: "request", Message: "response did not include a transcript id"}
	}
	return out.ID, nil
}

// Poll fetches the job and maps queued/processing to pending
func (c *AssemblyAI) Poll(ctx context.Context, jobID string) (*types.TranscriptionJob, error) {
	var out transcriptResponse
	if err := c.do(ctx, "poll", http.MethodGet, "/transcript/"+jobID, "", nil, &out); err != nil {
		return nil, err
	}

	job := &types.TranscriptionJob{
		ID:         jobID,
		Text:       out.Text,
		Utterances: out.Utterances,
		Confidence: out.Confidence,
		Words:      out.Words,
		Error:      out.Error,
	}
	switch out.Status {
	case "completed":
		job.Status = types.JobCompleted
	case "error":
		job.Status = types.JobError
	case "queued", "processing":
		job.Status = types.JobPending
	default:
		return nil, &ServiceError{Op: "poll", Message: fmt.Sprintf("unknown job status %q", out.Status)}
	}
	return job, nil
}

func (c *AssemblyAI) upload(ctx context.Context, audio []byte) (string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", "audio")
	if err != nil {
		return "", &ServiceError{Op: "upload", Message: "failed to build form", Cause: err}
	}
	if _, err := fw.Write(audio); err != nil {
		return "", &ServiceError{Op: "upload", Message: "failed to build form", Cause: err}
	}
	if err := w.Close(); err != nil {
		return "", &ServiceError{Op: "upload", Message: "failed to build form", Cause: err}
	}

	var out uploadResponse
	if err := c.do(ctx, "upload", http.MethodPost, "/upload", w.FormDataContentType(), &b, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", &ServiceError{Op: "upload", Message: "response did not include an upload url"}
	}
	return out.UploadURL, nil
}

func (c *AssemblyAI) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &ServiceError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ServiceError{Op: op, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}
