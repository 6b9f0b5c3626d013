package llm

import (
	"context"
	"fmt"
	"sync"
)

// Call records one Generate invocation on a MockGenerator.
type Call struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
}

// MockResponse is one scripted reply. A non-nil Err is returned instead of Text.
type MockResponse struct {
	Text string
	Err  error
}

// MockGenerator replays scripted responses in order and records every call.
// Once the script is exhausted it returns an error.
type MockGenerator struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Call
}

// NewMockGenerator creates a generator that replies with responses in order.
func NewMockGenerator(responses ...MockResponse) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Temperature: temperature})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock generator: no scripted response for call %d", len(m.calls))
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	return next.Text, next.Err
}

// Calls returns the recorded calls in order.
func (m *MockGenerator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
