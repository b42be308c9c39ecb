package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewJob(t *testing.T) {
	t.Parallel() // Enable parallel execution
	job, err := NewJob("/uploads/abc_test.wav", false, "token-1234567890")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if job.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if job.Status != JobStatusQueued {
		t.Errorf("Expected status %s, got %s", JobStatusQueued, job.Status)
	}

	if job.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if job.CompletedAt != nil {
		t.Error("Expected nil CompletedAt for a queued job")
	}

	if !job.DeleteAfterProcessing {
		t.Error("Expected disposable job to carry the delete-after-processing policy")
	}

	// A final job keeps its artifact.
	finalJob, err := NewJob("/uploads/abc_final.wav", true, "token-1234567890")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if finalJob.DeleteAfterProcessing {
		t.Error("Expected final job to keep its input artifact")
	}

	// Test invalid input path
	_, err = NewJob("", false, "token-1234567890")
	if !errors.Is(err, ErrEmptyJobInput) {
		t.Errorf("Expected error %v, got %v", ErrEmptyJobInput, err)
	}

	// Test invalid owner
	_, err = NewJob("/uploads/abc.wav", false, "")
	if !errors.Is(err, ErrEmptyJobOwner) {
		t.Errorf("Expected error %v, got %v", ErrEmptyJobOwner, err)
	}
}

func TestJobValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validJob := Job{
		ID:         uuid.New(),
		Status:     JobStatusQueued,
		InputPath:  "/uploads/abc.wav",
		OwnerToken: "token-1234567890",
	}

	if err := validJob.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidJob := validJob
	invalidJob.ID = uuid.Nil
	if err := invalidJob.Validate(); !errors.Is(err, ErrEmptyJobID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyJobID, err)
	}

	invalidJob = validJob
	invalidJob.Status = JobStatus("cancelled")
	if err := invalidJob.Validate(); !errors.Is(err, ErrInvalidJobStatus) {
		t.Errorf("Expected error %v, got %v", ErrInvalidJobStatus, err)
	}
}

func TestJobValidationErrorChain(t *testing.T) {
	t.Parallel() // Enable parallel execution
	_, err := NewJob("", false, "token-1234567890")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected a *ValidationError, got %T", err)
	}

	if verr.Field != "input_path" {
		t.Errorf("Expected field input_path, got %q", verr.Field)
	}

	// Field sentinels classify as generic validation failures too.
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected error to wrap ErrValidation, got %v", err)
	}
}

func TestJobCanTransition(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cases := []struct {
		name string
		from JobStatus
		to   JobStatus
		want bool
	}{
		{"queued to processing", JobStatusQueued, JobStatusProcessing, true},
		{"queued to completed skips processing", JobStatusQueued, JobStatusCompleted, false},
		{"queued to failed skips processing", JobStatusQueued, JobStatusFailed, false},
		{"processing to completed", JobStatusProcessing, JobStatusCompleted, true},
		{"processing to failed", JobStatusProcessing, JobStatusFailed, true},
		{"processing to queued regression", JobStatusProcessing, JobStatusQueued, false},
		{"completed is terminal", JobStatusCompleted, JobStatusProcessing, false},
		{"failed is terminal", JobStatusFailed, JobStatusProcessing, false},
		{"completed to failed", JobStatusCompleted, JobStatusFailed, false},
	}

	for _, tc := range cases {
		job := Job{Status: tc.from}
		if got := job.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s: CanTransition(%s -> %s) = %v, want %v",
				tc.name, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestJobTerminal(t *testing.T) {
	t.Parallel() // Enable parallel execution
	for _, status := range []JobStatus{JobStatusQueued, JobStatusProcessing} {
		job := Job{Status: status}
		if job.Terminal() {
			t.Errorf("Expected %s not to be terminal", status)
		}
	}

	for _, status := range []JobStatus{JobStatusCompleted, JobStatusFailed} {
		job := Job{Status: status}
		if !job.Terminal() {
			t.Errorf("Expected %s to be terminal", status)
		}
	}
}
