package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vox-api/internal/api/shared"
	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/task"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRecognizer struct {
	text string
	err  error
}

func (s *stubRecognizer) Recognize(_ context.Context, _, _ string) (string, error) {
	return s.text, s.err
}

type noopUsage struct{}

func (noopUsage) RecordUsage(_ context.Context, _ string, _ time.Duration) {}

// recognizeFixture wires a handler with a synchronous worker so tests
// observe terminal job states immediately after Submit returns.
type recognizeFixture struct {
	handler  *RecognizeHandler
	registry *task.Registry
	dir      string
}

func newRecognizeFixture(t *testing.T, recognizer *stubRecognizer) *recognizeFixture {
	t.Helper()

	registry := task.NewRegistry(30*time.Minute, 24*time.Hour, discardLogger())
	worker := task.NewWorker(registry, recognizer, noopUsage{}, func(fn func()) { fn() }, discardLogger())
	dir := t.TempDir()

	return &recognizeFixture{
		handler:  NewRecognizeHandler(registry, worker, dir, 1<<20, discardLogger()),
		registry: registry,
		dir:      dir,
	}
}

func multipartRequest(t *testing.T, fields map[string]string, fileField, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = io.Copy(fw, strings.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recognize", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withCredential(t *testing.T, req *http.Request, token string) *http.Request {
	t.Helper()
	cred, err := domain.NewCredential(token, false)
	require.NoError(t, err)
	ctx := context.WithValue(req.Context(), shared.CredentialContextKey, *cred)
	return req.WithContext(ctx)
}

func TestSubmitAcceptsUpload(t *testing.T) {
	t.Parallel()

	f := newRecognizeFixture(t, &stubRecognizer{text: "hello from the lecture"})

	req := multipartRequest(t,
		map[string]string{"language": "en", "is_final": "true"},
		"file", "lecture.wav", "fake audio bytes")
	req = withCredential(t, req, "owner-token-owner-token")

	rr := httptest.NewRecorder()
	f.handler.Submit(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.JobStatusQueued), resp.Status)

	id, err := uuid.Parse(resp.TaskID)
	require.NoError(t, err)

	// Synchronous spawner: the job already ran to completion.
	job, err := f.registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, "hello from the lecture", job.Result)
	assert.True(t, job.IsFinal)

	// Final uploads stay on disk.
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_lecture.wav"))
}

func TestSubmitDisposableUploadRemoved(t *testing.T) {
	t.Parallel()

	f := newRecognizeFixture(t, &stubRecognizer{text: "text"})

	req := multipartRequest(t, nil, "file", "note.wav", "audio")
	req = withCredential(t, req, "owner-token-owner-token")

	rr := httptest.NewRecorder()
	f.handler.Submit(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitMissingFile(t *testing.T) {
	t.Parallel()

	f := newRecognizeFixture(t, &stubRecognizer{text: "text"})

	req := multipartRequest(t, map[string]string{"language": "en"}, "", "", "")
	req = withCredential(t, req, "owner-token-owner-token")

	rr := httptest.NewRecorder()
	f.handler.Submit(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, f.registry.Len())
}

func TestSubmitInvalidIsFinal(t *testing.T) {
	t.Parallel()

	f := newRecognizeFixture(t, &stubRecognizer{text: "text"})

	req := multipartRequest(t,
		map[string]string{"is_final": "maybe"},
		"file", "a.wav", "audio")
	req = withCredential(t, req, "owner-token-owner-token")

	rr := httptest.NewRecorder()
	f.handler.Submit(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, f.registry.Len())
}

func TestSubmitWithoutCredential(t *testing.T) {
	t.Parallel()

	f := newRecognizeFixture(t, &stubRecognizer{text: "text"})

	req := multipartRequest(t, nil, "file", "a.wav", "audio")
	rr := httptest.NewRecorder()
	f.handler.Submit(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name", input: "lecture.wav", want: "lecture.wav"},
		{name: "path traversal", input: "../../etc/passwd", want: "passwd"},
		{name: "spaces and unicode", input: "my lecture é.mp3", want: "my_lecture__.mp3"},
		{name: "empty", input: "", want: "upload"},
		{name: "dot dot", input: "..", want: "upload"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizeFilename(tt.input))
		})
	}
}

func TestSubmitFailedJobReportsError(t *testing.T) {
	t.Parallel()

	f := newRecognizeFixture(t, &stubRecognizer{err: os.ErrDeadlineExceeded})

	req := multipartRequest(t, nil, "file", "a.wav", "audio")
	req = withCredential(t, req, "owner-token-owner-token")

	rr := httptest.NewRecorder()
	f.handler.Submit(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	id, err := uuid.Parse(resp.TaskID)
	require.NoError(t, err)

	job, err := f.registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.NotEmpty(t, job.Error)
}
