package task

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/platform/metrics"
	"github.com/phrazzld/vox-api/internal/recognition"
	"github.com/phrazzld/vox-api/internal/redact"
)

// UsageRecorder charges recognition time to the owning credential.
// The implementation must be best-effort: it never returns an error and
// never blocks job completion.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, token string, elapsed time.Duration)
}

// Spawner launches a worker execution unit. The default spawns a bare
// goroutine per job, unbounded — the same admission-free model the
// original ran. Admission control slots in here without touching
// callers.
type Spawner func(fn func())

// GoSpawner runs each job on its own goroutine.
func GoSpawner(fn func()) { go fn() }

// Worker drives submitted jobs through the state machine. One execution
// unit is spawned per job; each unit owns its job's transitions
// exclusively.
type Worker struct {
	registry   *Registry
	recognizer recognition.Recognizer
	usage      UsageRecorder
	spawn      Spawner
	logger     *slog.Logger
}

// NewWorker creates a Worker over the given registry and collaborators.
// A nil spawner defaults to GoSpawner.
func NewWorker(
	registry *Registry,
	recognizer recognition.Recognizer,
	usage UsageRecorder,
	spawn Spawner,
	logger *slog.Logger,
) *Worker {
	if spawn == nil {
		spawn = GoSpawner
	}
	return &Worker{
		registry:   registry,
		recognizer: recognizer,
		usage:      usage,
		spawn:      spawn,
		logger:     logger.With("component", "recognition_worker"),
	}
}

// SpawnJob launches one execution unit for the job and returns
// immediately; submission never blocks on processing.
func (w *Worker) SpawnJob(job domain.Job, language string) {
	w.spawn(func() {
		w.process(context.Background(), job, language)
	})
}

// process runs a single job to its terminal state. Collaborator failures
// become the failed state; the worker itself never retries and never
// panics out of a recognition error.
func (w *Worker) process(ctx context.Context, job domain.Job, language string) {
	logger := w.logger.With("job_id", job.ID, "language", language)

	if err := w.registry.Transition(job.ID, domain.JobStatusProcessing, ""); err != nil {
		logger.Error("failed to mark job processing", "error", err)
		return
	}
	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	logger.Info("processing job")

	start := time.Now()
	text, err := w.recognizer.Recognize(ctx, job.InputPath, language)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error("recognition failed",
			"error", redact.Error(err),
			"elapsed", elapsed)
		if terr := w.registry.Transition(job.ID, domain.JobStatusFailed, err.Error()); terr != nil {
			logger.Error("failed to mark job failed", "error", terr)
		}
		metrics.JobsFailed.Inc()
	} else {
		logger.Info("job completed", "elapsed", elapsed, "result_length", len(text))
		if terr := w.registry.Transition(job.ID, domain.JobStatusCompleted, text); terr != nil {
			logger.Error("failed to mark job completed", "error", terr)
		}
		metrics.JobsCompleted.Inc()
	}

	// Processing time is charged even on failure: the compute was
	// consumed either way.
	w.usage.RecordUsage(ctx, job.OwnerToken, elapsed)

	if job.DeleteAfterProcessing {
		if rerr := os.Remove(job.InputPath); rerr != nil {
			// Best-effort cleanup; never surfaces to the caller.
			logger.Warn("failed to remove input artifact", "error", rerr)
		}
	}
}
