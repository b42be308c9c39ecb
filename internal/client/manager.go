package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPollInterval is how often WaitForResult asks for status.
const DefaultPollInterval = 2 * time.Second

// ErrNoCurrentTask is returned by polling methods before any submission.
var ErrNoCurrentTask = errors.New("no task submitted yet")

// ErrTaskFailed wraps the server-side failure description of the
// current job.
var ErrTaskFailed = errors.New("recognition task failed")

// Manager tracks one current job against a server. Submitting a new
// file supersedes the previous job: its record stays on the server
// until retention removes it, but this manager stops tracking it.
type Manager struct {
	mu           sync.Mutex
	client       *Client
	currentTask  string
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewManager wraps the client with single-task tracking. A
// non-positive pollInterval falls back to DefaultPollInterval.
func NewManager(client *Client, pollInterval time.Duration, logger *slog.Logger) *Manager {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Manager{
		client:       client,
		pollInterval: pollInterval,
		logger:       logger.With("component", "client_manager"),
	}
}

// Submit uploads the file and makes the accepted job the current one.
func (m *Manager) Submit(ctx context.Context, audioPath, language string, isFinal bool) (string, error) {
	result, err := m.client.Submit(ctx, audioPath, language, isFinal)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	previous := m.currentTask
	m.currentTask = result.TaskID
	m.mu.Unlock()

	if previous != "" {
		m.logger.Info("superseding tracked task",
			"previous_task", previous, "task_id", result.TaskID)
	}
	m.logger.Info("task submitted", "task_id", result.TaskID, "is_final", isFinal)

	return result.TaskID, nil
}

// PollOnce fetches the current job's status a single time.
func (m *Manager) PollOnce(ctx context.Context) (TaskStatus, error) {
	m.mu.Lock()
	taskID := m.currentTask
	m.mu.Unlock()

	if taskID == "" {
		return TaskStatus{}, ErrNoCurrentTask
	}
	return m.client.Status(ctx, taskID)
}

// WaitForResult polls the current job until it reaches a terminal
// state, the record disappears, or ctx is canceled. On completion it
// returns the recognized text; a failed job surfaces as ErrTaskFailed.
func (m *Manager) WaitForResult(ctx context.Context) (string, error) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		status, err := m.PollOnce(ctx)
		if err != nil {
			return "", err
		}

		if status.Terminal() {
			if status.Status == "failed" {
				return "", fmt.Errorf("%w: %s", ErrTaskFailed, status.Error)
			}
			return status.Result, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// CurrentTask returns the tracked task id, empty before any submission.
func (m *Manager) CurrentTask() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTask
}

// SaveTranscript writes recognized text to path, defaulting to a
// timestamped filename in dir when path is empty. Returns the path
// written.
func SaveTranscript(dir, path, text string) (string, error) {
	return saveArtifact(dir, path, "transcript", text)
}

// SaveSummary writes generated summary text the same way.
func SaveSummary(dir, path, text string) (string, error) {
	return saveArtifact(dir, path, "summary", text)
}

func saveArtifact(dir, path, kind, text string) (string, error) {
	if path == "" {
		name := fmt.Sprintf("%s_%s.txt", kind, time.Now().Format("20060102_150405"))
		path = filepath.Join(dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return path, nil
}
