package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/recognition"
	"github.com/phrazzld/vox-api/internal/service/auth"
	"github.com/phrazzld/vox-api/internal/store"
	"github.com/phrazzld/vox-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingKey),
		errors.Is(err, auth.ErrInvalidOrDisabledKey):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrNotAdmin):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, task.ErrJobNotFound),
		errors.Is(err, auth.ErrKeyNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, recognition.ErrEmptyInput):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrMissingKey):
		return "API key required"

	case errors.Is(err, auth.ErrInvalidOrDisabledKey):
		return "Invalid or disabled API key"

	case errors.Is(err, auth.ErrNotAdmin):
		return "Admin privileges required"

	case errors.Is(err, auth.ErrKeyNotFound):
		return "API key not found"

	case errors.Is(err, task.ErrJobNotFound):
		return "Task not found"

	case errors.Is(err, recognition.ErrEmptyInput):
		return "Uploaded file is empty"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	case errors.Is(err, store.ErrSnapshotSave):
		return "Failed to persist credentials"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'ToggleKeyRequest.Key' Error:Field validation
	// for 'Key' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
