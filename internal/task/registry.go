package task

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/vox-api/internal/domain"
)

// ErrJobNotFound is returned when a job id is unknown, including ids
// whose records have already been swept.
var ErrJobNotFound = errors.New("job not found")

// Registry is the in-memory job table. One mutex covers every read and
// write; check-then-mutate sequences stay inside a single critical
// section so a status check can never race a concurrent mutation.
type Registry struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.Job

	disposableRetention time.Duration
	finalRetention      time.Duration

	logger *slog.Logger
}

// NewRegistry creates an empty registry with the given retention
// windows for disposable and final jobs.
func NewRegistry(disposableRetention, finalRetention time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		jobs:                make(map[uuid.UUID]*domain.Job),
		disposableRetention: disposableRetention,
		finalRetention:      finalRetention,
		logger:              logger.With("component", "task_registry"),
	}
}

// Create inserts a queued job for the given input and owner and returns
// a snapshot of it. The generated id is collision-checked against live
// ids before insertion.
func (r *Registry) Create(inputPath string, isFinal bool, ownerToken string) (domain.Job, error) {
	job, err := domain.NewJob(inputPath, isFinal, ownerToken)
	if err != nil {
		return domain.Job{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, exists := r.jobs[job.ID]; exists; _, exists = r.jobs[job.ID] {
		job.ID = uuid.New()
	}
	r.jobs[job.ID] = job

	return *job, nil
}

// Get returns a snapshot of the job or ErrJobNotFound.
func (r *Registry) Get(id uuid.UUID) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, ErrJobNotFound
	}
	return *job, nil
}

// Transition advances a job to the given status. The payload carries the
// recognized text for completed and the failure description for failed.
//
// A transition against a job the sweeper already removed is a benign
// race and no-ops without error. A transition that would regress or skip
// a state returns domain.ErrInvalidTransition: exactly one worker owns a
// job, so that indicates a bug rather than contention.
func (r *Registry) Transition(id uuid.UUID, status domain.JobStatus, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		r.logger.Debug("transition on removed job ignored",
			"job_id", id, "status", status)
		return nil
	}

	if !job.CanTransition(status) {
		return domain.ErrInvalidTransition
	}

	job.Status = status
	switch status {
	case domain.JobStatusCompleted:
		job.Result = payload
		completed := time.Now().UTC()
		job.CompletedAt = &completed
	case domain.JobStatusFailed:
		job.Error = payload
	}

	return nil
}

// SweepExpired deletes terminal records whose retention window has
// elapsed and returns how many were removed. Eligible ids are collected
// first and deleted second, so the map is never mutated mid-iteration.
// Queued and processing jobs are never touched.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []uuid.UUID
	for id, job := range r.jobs {
		if !job.Terminal() {
			continue
		}

		retention := r.disposableRetention
		if job.IsFinal {
			retention = r.finalRetention
		}

		if now.Sub(job.CreatedAt) > retention {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		delete(r.jobs, id)
	}

	if len(expired) > 0 {
		r.logger.Info("swept expired job records", "count", len(expired))
	}
	return len(expired)
}

// Len reports the number of live job records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
