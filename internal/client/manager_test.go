package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeServer acknowledges submissions with incrementing task ids and
// serves scripted status responses per task.
type fakeServer struct {
	submits  atomic.Int64
	statuses func(taskID string, poll int64) TaskStatus
	polls    atomic.Int64
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recognize", func(w http.ResponseWriter, r *http.Request) {
		n := f.submits.Add(1)
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(SubmitResult{
			TaskID: "task-" + string(rune('0'+n)),
			Status: "queued",
		})
	})
	mux.HandleFunc("/api/status/", func(w http.ResponseWriter, r *http.Request) {
		taskID := strings.TrimPrefix(r.URL.Path, "/api/status/")
		_ = json.NewEncoder(w).Encode(f.statuses(taskID, f.polls.Add(1)))
	})
	return mux
}

func TestManagerSubmitTracksCurrentTask(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	m := NewManager(NewClient(server.URL, "key", server.Client()), time.Millisecond, discardLogger())
	assert.Empty(t, m.CurrentTask())

	_, err := m.PollOnce(context.Background())
	assert.ErrorIs(t, err, ErrNoCurrentTask)

	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("audio"), 0o600))

	first, err := m.Submit(context.Background(), audio, "en", false)
	require.NoError(t, err)
	assert.Equal(t, first, m.CurrentTask())

	// A second submission supersedes the first.
	second, err := m.Submit(context.Background(), audio, "en", true)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, m.CurrentTask())
}

func TestManagerWaitForResult(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		statuses: func(taskID string, poll int64) TaskStatus {
			if poll < 3 {
				return TaskStatus{TaskID: taskID, Status: "processing"}
			}
			return TaskStatus{TaskID: taskID, Status: "completed", Result: "done at last"}
		},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	m := NewManager(NewClient(server.URL, "key", server.Client()), time.Millisecond, discardLogger())

	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("audio"), 0o600))
	_, err := m.Submit(context.Background(), audio, "", true)
	require.NoError(t, err)

	text, err := m.WaitForResult(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done at last", text)
	assert.GreaterOrEqual(t, fake.polls.Load(), int64(3))
}

func TestManagerWaitForResultFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		statuses: func(taskID string, _ int64) TaskStatus {
			return TaskStatus{TaskID: taskID, Status: "failed", Error: "backend unreachable"}
		},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	m := NewManager(NewClient(server.URL, "key", server.Client()), time.Millisecond, discardLogger())

	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("audio"), 0o600))
	_, err := m.Submit(context.Background(), audio, "", false)
	require.NoError(t, err)

	_, err = m.WaitForResult(context.Background())
	require.ErrorIs(t, err, ErrTaskFailed)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestManagerWaitForResultCanceled(t *testing.T) {
	t.Parallel()

	fake := &fakeServer{
		statuses: func(taskID string, _ int64) TaskStatus {
			return TaskStatus{TaskID: taskID, Status: "processing"}
		},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	m := NewManager(NewClient(server.URL, "key", server.Client()), time.Millisecond, discardLogger())

	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("audio"), 0o600))
	_, err := m.Submit(context.Background(), audio, "", false)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = m.WaitForResult(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSaveTranscriptExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "lecture.txt")
	got, err := SaveTranscript("", path, "the transcript")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "the transcript", string(data))
}

func TestSaveSummaryDefaultFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := SaveSummary(dir, "", "the summary")
	require.NoError(t, err)

	base := filepath.Base(got)
	assert.True(t, strings.HasPrefix(base, "summary_"))
	assert.True(t, strings.HasSuffix(base, ".txt"))

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "the summary", string(data))
}
