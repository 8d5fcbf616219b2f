package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/scholarit/ai/mock"
	"github.com/stretchr/testify/assert"
)

func newTestExpander(generator *mock.MockTextGenerator) *expander {
	return &expander{generator: generator, logger: slog.Default()}
}

func TestExpander_AcceptsLongerExpansion(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.GenerateFunc = func(_ context.Context, _ string, _ int, _ float64) (string, error) {
		return "neural network pruning sparsity compression weight magnitude", nil
	}

	expanded := newTestExpander(generator).Expand(context.Background(), "neural pruning")
	assert.Equal(t, "neural network pruning sparsity compression weight magnitude", expanded)
}

func TestExpander_RejectsShorterExpansion(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.GenerateFunc = func(_ context.Context, _ string, _ int, _ float64) (string, error) {
		return "pruning", nil
	}

	expanded := newTestExpander(generator).Expand(context.Background(), "neural network pruning")
	assert.Equal(t, "neural network pruning", expanded)
}

func TestExpander_RejectsRunawayExpansion(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.GenerateFunc = func(_ context.Context, _ string, _ int, _ float64) (string, error) {
		return strings.Repeat("pruning ", 60), nil
	}

	expanded := newTestExpander(generator).Expand(context.Background(), "neural pruning")
	assert.Equal(t, "neural pruning", expanded)
}

func TestExpander_FailsOpenOnProviderError(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.GenerateFunc = func(_ context.Context, _ string, _ int, _ float64) (string, error) {
		return "", errors.New("model unavailable")
	}

	expanded := newTestExpander(generator).Expand(context.Background(), "neural pruning")
	assert.Equal(t, "neural pruning", expanded)
}

func TestExpander_StripsMarkdownAndQuotes(t *testing.T) {
	generator := mock.NewMockTextGenerator()
	generator.GenerateFunc = func(_ context.Context, _ string, _ int, _ float64) (string, error) {
		return "```\n\"neural network pruning sparsity  compression\"\n```", nil
	}

	expanded := newTestExpander(generator).Expand(context.Background(), "neural pruning")
	assert.Equal(t, "neural network pruning sparsity compression", expanded)
}

func TestCleanExpansion(t *testing.T) {
	assert.Equal(t, "a b c", cleanExpansion("  *a*\nb\t `c` "))
	assert.Equal(t, "quoted terms", cleanExpansion(`"quoted terms"`))
	assert.Equal(t, "", cleanExpansion("\n\n"))
}
