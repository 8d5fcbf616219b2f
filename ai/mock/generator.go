package mock

import "context"

// MockTextGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields.
type MockTextGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, the prompt is echoed back unchanged, which keeps the
	// ranking core deterministic in tests.
	GenerateFunc func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)

	callCount int
}

// NewMockTextGenerator creates a mock generator with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{}
}

// Generate returns the prompt unchanged unless a custom GenerateFunc is set.
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxTokens, temperature)
	}

	return prompt, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockTextGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTextGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
