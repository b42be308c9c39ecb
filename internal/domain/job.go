package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a recognition job
type JobStatus string

// Possible job status values
const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Common validation errors for Job. The field-level sentinels wrap
// ErrValidation so callers can classify them without enumerating each one.
var (
	ErrEmptyJobID         = fmt.Errorf("%w: job ID cannot be empty", ErrValidation)
	ErrEmptyJobInput      = fmt.Errorf("%w: job input path cannot be empty", ErrValidation)
	ErrEmptyJobOwner      = fmt.Errorf("%w: job owner token cannot be empty", ErrValidation)
	ErrJobAlreadyTerminal = errors.New("job already in a terminal status")
)

// Job represents one unit of submitted recognition work, tracked from
// submission through its terminal status. The owning credential never
// changes after creation.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// InputPath points at the caller-supplied upload on disk.
	InputPath string `json:"-"`

	// IsFinal marks a keep-artifact job; DeleteAfterProcessing is
	// derived from it at creation and governs input cleanup.
	IsFinal               bool `json:"is_final"`
	DeleteAfterProcessing bool `json:"-"`

	// OwnerToken is the credential the job's processing time is
	// charged to. Never exposed in responses.
	OwnerToken string `json:"-"`

	// Result holds the recognized text for completed jobs; Error holds
	// a human-readable failure description for failed ones.
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewJob creates a queued Job for the given input and owner.
// The deletion policy follows the finality flag: disposable unless final.
func NewJob(inputPath string, isFinal bool, ownerToken string) (*Job, error) {
	job := &Job{
		ID:                    uuid.New(),
		Status:                JobStatusQueued,
		CreatedAt:             time.Now().UTC(),
		InputPath:             inputPath,
		IsFinal:               isFinal,
		DeleteAfterProcessing: !isFinal,
		OwnerToken:            ownerToken,
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyJobID)
	}

	if j.InputPath == "" {
		return NewValidationError("input_path", "cannot be empty", ErrEmptyJobInput)
	}

	if j.OwnerToken == "" {
		return NewValidationError("owner_token", "cannot be empty", ErrEmptyJobOwner)
	}

	if !isValidJobStatus(j.Status) {
		return NewValidationError("status", "is not a known status", ErrInvalidJobStatus)
	}

	return nil
}

// Terminal reports whether the job has reached a final status.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// CanTransition reports whether moving from the job's current status to
// the given one respects the one-directional state machine:
// queued -> processing -> {completed | failed}.
func (j *Job) CanTransition(to JobStatus) bool {
	switch j.Status {
	case JobStatusQueued:
		return to == JobStatusProcessing
	case JobStatusProcessing:
		return to == JobStatusCompleted || to == JobStatusFailed
	default:
		return false
	}
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}
