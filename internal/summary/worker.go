// Package summary runs streaming transcript summarization with at most
// one in-flight stream. Starting a new summary cancels and fully drains
// the previous one first, so events from two streams never interleave.
package summary

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/vox-api/internal/generation"
)

// EventKind distinguishes the three things a summary stream can report.
type EventKind int

const (
	// EventChunk carries an incremental piece of summary text.
	EventChunk EventKind = iota
	// EventFinished marks a successful end of stream and carries the
	// assembled summary.
	EventFinished
	// EventError marks a failed or canceled stream.
	EventError
)

// Event is one notification from a running summary stream. The producer
// closes the event channel after the terminal Finished or Error event.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Runner owns the single summary slot. It is safe for concurrent use;
// Start serializes against itself and against in-flight streams.
type Runner struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	generator generation.StreamGenerator
	logger    *slog.Logger
}

// NewRunner creates a Runner over the given generator.
func NewRunner(generator generation.StreamGenerator, logger *slog.Logger) *Runner {
	return &Runner{
		generator: generator,
		logger:    logger.With("component", "summary_runner"),
	}
}

// Start launches a summary of the transcript, first canceling and
// waiting out any stream already in flight. The instruction overrides
// the generator's default system prompt when non-empty. The returned
// channel delivers chunk events followed by one terminal event, then
// closes; a stream superseded mid-flight may close without its terminal
// event being read.
//
// Start returns an error only when the generator rejects the request
// outright; in that case no prior stream is disturbed either, since the
// previous worker has already been stopped by then.
func (r *Runner) Start(ctx context.Context, transcript, instruction string) (<-chan Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	streamCtx, cancel := context.WithCancel(ctx)
	chunks, err := r.generator.Stream(streamCtx, transcript, instruction)
	if err != nil {
		cancel()
		return nil, err
	}

	events := make(chan Event)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go r.pump(streamCtx, chunks, events, done)

	return events, nil
}

// Stop cancels any in-flight stream and blocks until its producer has
// fully wound down. Stopping an idle Runner is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// stopLocked cancels and drains the current worker. Callers hold r.mu.
func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.logger.Info("stopping in-flight summary stream")
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

// pump forwards generator chunks as events, assembling the full text
// for the terminal Finished event. Consumers that stop reading do not
// wedge the Runner: every send also selects on ctx, and Stop cancels
// ctx before waiting on done.
func (r *Runner) pump(ctx context.Context, chunks <-chan generation.Chunk, events chan<- Event, done chan struct{}) {
	defer close(done)
	defer close(events)

	var assembled strings.Builder

	for chunk := range chunks {
		if chunk.Err != nil {
			r.logger.Error("summary stream failed", "error", chunk.Err)
			r.emit(ctx, events, Event{Kind: EventError, Err: chunk.Err})
			return
		}
		assembled.WriteString(chunk.Text)
		if !r.emit(ctx, events, Event{Kind: EventChunk, Text: chunk.Text}) {
			return
		}
	}

	if err := ctx.Err(); err != nil {
		r.emit(ctx, events, Event{Kind: EventError, Err: err})
		return
	}

	r.logger.Info("summary stream finished", "length", assembled.Len())
	r.emit(ctx, events, Event{Kind: EventFinished, Text: assembled.String()})
}

// emit sends one event unless the stream has been canceled. It reports
// whether the pump should keep going.
func (r *Runner) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
