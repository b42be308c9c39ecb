// Package client is the caller side of the recognition service: a thin
// HTTP client for submitting and polling jobs, plus a manager that
// tracks one current job and saves its artifacts.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Client errors. ErrTaskGone covers both never-existed and swept
// records; the server does not distinguish them.
var (
	ErrSubmitRejected = errors.New("submission rejected")
	ErrTaskGone       = errors.New("task not found or expired")
	ErrUnauthorized   = errors.New("API key rejected")
)

// SubmitResult is the server's acknowledgment of an accepted job.
type SubmitResult struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// TaskStatus mirrors the server's status payload.
type TaskStatus struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	IsFinal bool   `json:"is_final"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (s TaskStatus) Terminal() bool {
	return s.Status == "completed" || s.Status == "failed"
}

// Client talks to one recognition server with one API key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given server. A nil httpClient
// falls back to http.DefaultClient.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Submit uploads the audio file and returns the accepted job's id. The
// call returns as soon as the server queues the work.
func (c *Client) Submit(ctx context.Context, audioPath, language string, isFinal bool) (SubmitResult, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() { _ = f.Close() }()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var werr error
		defer func() { _ = pw.CloseWithError(werr) }()

		if werr = mw.WriteField("language", language); werr != nil {
			return
		}
		if werr = mw.WriteField("is_final", strconv.FormatBool(isFinal)); werr != nil {
			return
		}
		var part io.Writer
		if part, werr = mw.CreateFormFile("file", filepath.Base(audioPath)); werr != nil {
			return
		}
		if _, werr = io.Copy(part, f); werr != nil {
			return
		}
		werr = mw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recognize", pr)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return SubmitResult{}, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusAccepted {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrSubmitRejected, readErrorMessage(resp.Body))
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("failed to decode submit response: %w", err)
	}
	return result, nil
}

// Status fetches the current state of one job.
func (c *Client) Status(ctx context.Context, taskID string) (TaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status/"+taskID, nil)
	if err != nil {
		return TaskStatus{}, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TaskStatus{}, fmt.Errorf("status request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return TaskStatus{}, ErrTaskGone
	case http.StatusUnauthorized, http.StatusForbidden:
		return TaskStatus{}, ErrUnauthorized
	default:
		return TaskStatus{}, fmt.Errorf("status request returned %d: %s",
			resp.StatusCode, readErrorMessage(resp.Body))
	}

	var status TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return TaskStatus{}, fmt.Errorf("failed to decode status response: %w", err)
	}
	return status, nil
}

// readErrorMessage pulls the server's error field out of a failure
// body, falling back to a generic message.
func readErrorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Error == "" {
		return "no error detail"
	}
	return payload.Error
}
