package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/vox-api/internal/api/middleware"
	"github.com/phrazzld/vox-api/internal/api/shared"
	"github.com/phrazzld/vox-api/internal/platform/metrics"
	"github.com/phrazzld/vox-api/internal/redact"
	"github.com/phrazzld/vox-api/internal/task"
)

// multipartMemoryLimit bounds how much of the upload is buffered in
// memory before spilling to temp files.
const multipartMemoryLimit = 32 << 20

// RecognizeHandler accepts audio uploads and turns them into queued
// recognition jobs.
type RecognizeHandler struct {
	registry       *task.Registry
	worker         *task.Worker
	uploadDir      string
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewRecognizeHandler creates a new RecognizeHandler.
func NewRecognizeHandler(
	registry *task.Registry,
	worker *task.Worker,
	uploadDir string,
	maxUploadBytes int64,
	logger *slog.Logger,
) *RecognizeHandler {
	return &RecognizeHandler{
		registry:       registry,
		worker:         worker,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "recognize_handler"),
	}
}

// Submit handles POST /api/recognize requests. The multipart form
// carries the audio under "file" plus optional "language" and
// "is_final" fields. Accepted work is answered with 202 before any
// processing happens.
func (h *RecognizeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	cred, ok := middleware.GetCredential(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Credential not found in request context")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Uploaded file too large")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Audio file required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Uploaded file has no name")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = "auto"
	}
	isFinal := false
	if raw := r.FormValue("is_final"); raw != "" {
		isFinal, err = strconv.ParseBool(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid is_final value")
			return
		}
	}

	inputPath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to store uploaded file", err)
		return
	}

	job, err := h.registry.Create(inputPath, isFinal, cred.Token)
	if err != nil {
		// The upload is orphaned if job creation fails; remove it.
		if rmErr := os.Remove(inputPath); rmErr != nil {
			h.logger.Warn("failed to remove orphaned upload", "error", rmErr)
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	metrics.JobsSubmitted.Inc()
	h.worker.SpawnJob(job, language)

	h.logger.Info("job accepted",
		"job_id", job.ID,
		"is_final", isFinal,
		"language", language,
		"filename", redact.String(header.Filename))

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitResponse{
		TaskID: job.ID.String(),
		Status: string(job.Status),
	})
}

// saveUpload streams the multipart file into the upload directory under
// a collision-free name and returns the stored path.
func (h *RecognizeHandler) saveUpload(file io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o750); err != nil {
		return "", err
	}

	name := uuid.New().String() + "_" + sanitizeFilename(originalName)
	path := filepath.Join(h.uploadDir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	return path, nil
}

// sanitizeFilename strips directory components and replaces anything
// outside a conservative character set so a crafted filename cannot
// escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if sanitized == "" || sanitized == "." || sanitized == ".." {
		return "upload"
	}
	return sanitized
}
