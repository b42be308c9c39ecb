package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vox-api/internal/api/shared"
	"github.com/phrazzld/vox-api/internal/platform/logger"
)

func TestTraceMiddlewareAttachesIDAndLogger(t *testing.T) {
	var (
		gotTraceID string
		gotLogger  *slog.Logger
	)
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = shared.GetTraceID(r.Context())
		gotLogger = logger.FromContextOrDefault(r.Context(), fallback)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, gotTraceID, shared.TraceIDLength)
	require.NotNil(t, gotLogger)
	assert.NotSame(t, fallback, gotLogger, "handler should see the request-scoped logger")
}

func TestTraceMiddlewareLoggerCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	var traceID string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		log := logger.FromContextOrDefault(r.Context(), slog.Default())
		log.Info("handling request")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, traceID)
	assert.Contains(t, buf.String(), traceID)
	assert.Contains(t, buf.String(), "handling request")
}
