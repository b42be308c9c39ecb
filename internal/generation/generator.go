package generation

import "context"

// Chunk is one incremental unit of generated text. A terminal failure is
// delivered as the final chunk with Err set; the stream channel is closed
// after it.
type Chunk struct {
	Text string
	Err  error
}

// StreamGenerator defines the interface for streaming text generation
// from a transcript. This interface serves as a boundary between the
// application core and external AI/LLM services.
//
// Implementations launch a producer goroutine that pushes chunks into
// the returned channel and closes it on exhaustion or failure. The
// producer observes ctx cancellation no later than its next emitted
// chunk, so consumers cancel a stream by cancelling the context and
// draining the channel.
type StreamGenerator interface {
	// Stream begins generating text for the given transcript. The
	// instruction overrides the implementation's default system prompt
	// when non-empty.
	Stream(ctx context.Context, transcript, instruction string) (<-chan Chunk, error)
}
