package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vox-api/internal/generation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedGenerator replays a fixed chunk script per Stream call,
// honoring context cancellation between chunks. blockCh, when set,
// gates each emission so tests can hold a stream open.
type scriptedGenerator struct {
	mu       sync.Mutex
	chunks   []generation.Chunk
	startErr error
	blockCh  chan struct{}
	streams  int
}

func (g *scriptedGenerator) Stream(ctx context.Context, transcript, instruction string) (<-chan generation.Chunk, error) {
	if g.startErr != nil {
		return nil, g.startErr
	}
	g.mu.Lock()
	g.streams++
	g.mu.Unlock()

	out := make(chan generation.Chunk)
	go func() {
		defer close(out)
		for _, c := range g.chunks {
			if g.blockCh != nil {
				select {
				case <-g.blockCh:
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (g *scriptedGenerator) streamCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.streams
}

// drainWithTimeout reads a canceled stream to closure, failing the test
// if it never closes.
func drainWithTimeout(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var got []Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-deadline:
			t.Fatal("canceled stream never closed")
		}
	}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var got []Event
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
}

func TestRunnerStreamsChunksThenFinishes(t *testing.T) {
	t.Parallel()

	gen := &scriptedGenerator{chunks: []generation.Chunk{
		{Text: "The lecture "},
		{Text: "covers Go "},
		{Text: "concurrency."},
	}}
	runner := NewRunner(gen, discardLogger())

	events, err := runner.Start(context.Background(), "transcript", "")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 4)
	assert.Equal(t, EventChunk, got[0].Kind)
	assert.Equal(t, "The lecture ", got[0].Text)
	assert.Equal(t, EventChunk, got[2].Kind)

	final := got[3]
	assert.Equal(t, EventFinished, final.Kind)
	assert.Equal(t, "The lecture covers Go concurrency.", final.Text)
	assert.NoError(t, final.Err)
}

func TestRunnerDeliversStreamError(t *testing.T) {
	t.Parallel()

	streamErr := errors.New("model unavailable")
	gen := &scriptedGenerator{chunks: []generation.Chunk{
		{Text: "partial "},
		{Err: streamErr},
	}}
	runner := NewRunner(gen, discardLogger())

	events, err := runner.Start(context.Background(), "transcript", "")
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, EventChunk, got[0].Kind)
	assert.Equal(t, EventError, got[1].Kind)
	assert.ErrorIs(t, got[1].Err, streamErr)
}

func TestRunnerStartRejectionPropagates(t *testing.T) {
	t.Parallel()

	startErr := errors.New("empty transcript")
	runner := NewRunner(&scriptedGenerator{startErr: startErr}, discardLogger())

	events, err := runner.Start(context.Background(), "", "")
	assert.ErrorIs(t, err, startErr)
	assert.Nil(t, events)
}

func TestRunnerSupersedesInFlightStream(t *testing.T) {
	t.Parallel()

	blockCh := make(chan struct{})
	gen := &scriptedGenerator{
		chunks:  []generation.Chunk{{Text: "never delivered"}},
		blockCh: blockCh,
	}
	runner := NewRunner(gen, discardLogger())

	first, err := runner.Start(context.Background(), "first transcript", "")
	require.NoError(t, err)

	// Second start must cancel and drain the first worker before the
	// new stream goes live.
	gen2 := &scriptedGenerator{chunks: []generation.Chunk{{Text: "second"}}}
	runner.generator = gen2
	second, err := runner.Start(context.Background(), "second transcript", "")
	require.NoError(t, err)

	// The first channel closes without delivering its chunk; at most a
	// cancellation error sneaks out first.
	for _, ev := range drainWithTimeout(t, first) {
		assert.Equal(t, EventError, ev.Kind)
		assert.ErrorIs(t, ev.Err, context.Canceled)
	}

	got := collect(t, second)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Text)
	assert.Equal(t, EventFinished, got[1].Kind)
}

func TestRunnerStopCancelsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	blockCh := make(chan struct{})
	gen := &scriptedGenerator{
		chunks:  []generation.Chunk{{Text: "pending"}},
		blockCh: blockCh,
	}
	runner := NewRunner(gen, discardLogger())

	events, err := runner.Start(context.Background(), "transcript", "")
	require.NoError(t, err)

	runner.Stop()
	runner.Stop()

	for _, ev := range drainWithTimeout(t, events) {
		assert.Equal(t, EventError, ev.Kind)
	}
	assert.Equal(t, 1, gen.streamCount())
}
