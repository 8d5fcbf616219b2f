package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/scholarit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextGenerator implements ai.TextGenerator using OpenAI-compatible chat APIs.
type TextGenerator struct {
	client      llms.Model
	callTimeout time.Duration
	logger      *slog.Logger
}

// newTextGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTextGenerator(config *ai.Config) (*TextGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for generation
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &TextGenerator{
		client:      client,
		callTimeout: config.CallTimeout,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewTextGenerator creates a new text generator using the provided configuration.
//
// Returns ai.TextGenerator interface to enforce abstraction.
func NewTextGenerator(config *ai.Config) (ai.TextGenerator, error) {
	return newTextGenerator(config)
}

// Generate completes the prompt with bounded output length and the given
// sampling temperature. Each call carries its own timeout so a dead service
// fails the call instead of hanging the request.
func (g *TextGenerator) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	g.logger.Debug("generating text", "promptLength", len(prompt), "maxTokens", maxTokens)

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		g.logger.Error("failed to generate text", "err", err)
		return "", err
	}

	return response, nil
}
