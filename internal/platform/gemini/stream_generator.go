package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/phrazzld/vox-api/internal/config"
	"github.com/phrazzld/vox-api/internal/generation"
)

// defaultSystemPrompt matches the original deployment's summarization
// behavior: callers override it by passing an instruction to Stream.
const defaultSystemPrompt = "You are a helpful assistant that processes lecture transcripts. " +
	"Organize the content into clear sections with headings, bullet points, and highlight key concepts."

// chunkBuffer bounds the producer/consumer gap of a summary stream.
const chunkBuffer = 16

// StreamGenerator implements generation.StreamGenerator over the Gemini
// streaming API.
type StreamGenerator struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewStreamGenerator creates a Gemini-backed stream generator with the
// provided dependencies.
func NewStreamGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLM,
) (*StreamGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &StreamGenerator{
		logger: logger.With("component", "gemini_stream_generator"),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Ensure StreamGenerator implements the generation interface
var _ generation.StreamGenerator = (*StreamGenerator)(nil)

// Stream starts a streaming generation call and returns the chunk
// channel. The producer goroutine owns the channel: it forwards each
// incremental response, converts an API failure into a terminal error
// chunk, and closes the channel when the stream is exhausted or the
// context is cancelled.
func (g *StreamGenerator) Stream(
	ctx context.Context,
	transcript, instruction string,
) (<-chan generation.Chunk, error) {
	if transcript == "" {
		return nil, generation.ErrEmptyTranscript
	}

	systemPrompt := defaultSystemPrompt
	if instruction != "" {
		systemPrompt = instruction
	}

	prompt := fmt.Sprintf("Here is the transcript to process:\n\n%s", transcript)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	out := make(chan generation.Chunk, chunkBuffer)

	go func() {
		defer close(out)

		g.logger.DebugContext(ctx, "starting summary stream",
			"model", g.model,
			"transcript_length", len(transcript))

		for resp, err := range g.client.Models.GenerateContentStream(
			ctx, g.model, genai.Text(prompt), cfg,
		) {
			if err != nil {
				g.logger.ErrorContext(ctx, "summary stream failed", "error", err)
				g.emit(ctx, out, generation.Chunk{
					Err: fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err),
				})
				return
			}

			if blockErr := blockedError(resp); blockErr != nil {
				g.logger.WarnContext(ctx, "summary stream blocked", "error", blockErr)
				g.emit(ctx, out, generation.Chunk{Err: blockErr})
				return
			}

			text := resp.Text()
			if text == "" {
				continue
			}

			if !g.emit(ctx, out, generation.Chunk{Text: text}) {
				return
			}
		}

		g.logger.DebugContext(ctx, "summary stream finished")
	}()

	return out, nil
}

// blockedError classifies a safety-filtered response. The API signals a
// block either through prompt feedback or a SAFETY finish reason on a
// candidate; both end the stream without usable text.
func blockedError(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return nil
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	for _, cand := range resp.Candidates {
		if cand != nil && cand.FinishReason == genai.FinishReasonSafety {
			return fmt.Errorf("%w: response blocked by safety filters",
				generation.ErrContentBlocked)
		}
	}

	return nil
}

// emit delivers a chunk unless the consumer has cancelled. Returns false
// when the context is done, which stops the producer promptly.
func (g *StreamGenerator) emit(
	ctx context.Context,
	out chan<- generation.Chunk,
	chunk generation.Chunk,
) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
