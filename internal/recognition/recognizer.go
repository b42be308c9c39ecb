// Package recognition defines the seam to the external speech-recognition
// collaborator. The service treats inference as a black box: a failure
// from the recognizer becomes the owning job's failed state, never a
// worker crash.
package recognition

import (
	"context"
	"errors"
)

// Common recognition errors
var (
	// ErrRecognitionFailed wraps any abnormal return from the inference
	// collaborator.
	ErrRecognitionFailed = errors.New("speech recognition failed")

	// ErrEmptyInput is returned when the input reference does not point
	// at usable audio data.
	ErrEmptyInput = errors.New("recognition input is empty")
)

// Recognizer converts an audio artifact on disk into recognized text.
// Implementations do not retry; retry policy belongs to callers, and the
// recognition worker deliberately has none.
type Recognizer interface {
	// Recognize runs inference over the audio at inputPath. The language
	// hint is a code like "zh" or "en", or "auto" for detection.
	Recognize(ctx context.Context, inputPath, language string) (string, error)
}
