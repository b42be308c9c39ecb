package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewCredential(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cred, err := NewCredential("k-0123456789abcdef", true)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !cred.IsAdmin {
		t.Error("Expected admin flag to be set")
	}

	if !cred.IsActive {
		t.Error("Expected new credential to be active")
	}

	if cred.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if cred.Usage.TotalRequests != 0 {
		t.Errorf("Expected zero usage, got %d requests", cred.Usage.TotalRequests)
	}

	if cred.Usage.LastUsed != nil {
		t.Error("Expected nil LastUsed for a fresh credential")
	}

	// Test empty token
	_, err = NewCredential("", false)
	if !errors.Is(err, ErrEmptyToken) {
		t.Errorf("Expected error %v, got %v", ErrEmptyToken, err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected error to wrap ErrValidation, got %v", err)
	}
}

func TestCredentialMarkUsed(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cred, err := NewCredential("k-0123456789abcdef", false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now := time.Now()
	cred.MarkUsed(now)
	cred.MarkUsed(now.Add(time.Second))

	if cred.Usage.TotalRequests != 2 {
		t.Errorf("Expected 2 requests, got %d", cred.Usage.TotalRequests)
	}

	if cred.Usage.LastUsed == nil {
		t.Fatal("Expected LastUsed to be set")
	}

	if !cred.Usage.LastUsed.Equal(now.Add(time.Second).UTC()) {
		t.Errorf("Expected LastUsed to track the most recent call, got %v", cred.Usage.LastUsed)
	}
}

func TestCredentialChargeProcessing(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cred, err := NewCredential("k-0123456789abcdef", false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cred.ChargeProcessing(1500 * time.Millisecond)
	cred.ChargeProcessing(500 * time.Millisecond)

	if cred.Usage.TotalProcessingSeconds != 2.0 {
		t.Errorf("Expected 2.0 accumulated seconds, got %v", cred.Usage.TotalProcessingSeconds)
	}
}

func TestRedactToken(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cases := []struct {
		name  string
		token string
		want  string
	}{
		{"long token", "abcdefghijklmnopqrstuvwxyz", "abcde...vwxyz"},
		{"boundary length", "abcdefghijk", "abcde...ghijk"},
		{"short token fully masked", "abcdefghij", "*****"},
		{"empty token", "", "*****"},
	}

	for _, tc := range cases {
		if got := RedactToken(tc.token); got != tc.want {
			t.Errorf("%s: RedactToken(%q) = %q, want %q", tc.name, tc.token, got, tc.want)
		}
	}
}
