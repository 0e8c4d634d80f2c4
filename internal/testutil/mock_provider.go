// Package testutil provides test doubles shared across package tests.
package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shillcollin/docvision/core"
)

// MockProvider is a configurable mock implementation of core.Provider. Call
// counters let tests assert the fail-fast contract: invalid input must never
// reach the delegate.
type MockProvider struct {
	mu sync.Mutex

	// Configurable responses
	TextResponse   *core.TextResult
	ObjectResponse *core.ObjectResultRaw
	Caps           core.Capabilities

	// Error injection
	TextErr   error
	ObjectErr error

	// Call tracking
	TextCalls   []core.Request
	ObjectCalls []core.Request

	// Custom handlers (override default behavior)
	OnGenerateText   func(ctx context.Context, req core.Request) (*core.TextResult, error)
	OnGenerateObject func(ctx context.Context, req core.Request) (*core.ObjectResultRaw, error)
}

// NewMockProvider creates a MockProvider with sensible defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		TextResponse: &core.TextResult{
			Text:     "mock response",
			Model:    "mock-model",
			Provider: "mock",
			Usage: core.Usage{
				InputTokens:  10,
				OutputTokens: 5,
				TotalTokens:  15,
			},
			FinishReason: core.StopReason{Type: "stop"},
		},
		ObjectResponse: &core.ObjectResultRaw{
			JSON:     json.RawMessage(`{"data":"mock"}`),
			Model:    "mock-model",
			Provider: "mock",
			Usage: core.Usage{
				InputTokens:  10,
				OutputTokens: 5,
				TotalTokens:  15,
			},
		},
		Caps: core.Capabilities{
			Images:            true,
			StructuredOutputs: true,
			Provider:          "mock",
			Models:            []string{"mock-model"},
		},
	}
}

// GenerateText implements core.Provider.
func (m *MockProvider) GenerateText(ctx context.Context, req core.Request) (*core.TextResult, error) {
	m.mu.Lock()
	m.TextCalls = append(m.TextCalls, req)
	m.mu.Unlock()

	if m.OnGenerateText != nil {
		return m.OnGenerateText(ctx, req)
	}
	if m.TextErr != nil {
		return nil, m.TextErr
	}
	return m.TextResponse, nil
}

// GenerateObject implements core.Provider.
func (m *MockProvider) GenerateObject(ctx context.Context, req core.Request) (*core.ObjectResultRaw, error) {
	m.mu.Lock()
	m.ObjectCalls = append(m.ObjectCalls, req)
	m.mu.Unlock()

	if m.OnGenerateObject != nil {
		return m.OnGenerateObject(ctx, req)
	}
	if m.ObjectErr != nil {
		return nil, m.ObjectErr
	}
	return m.ObjectResponse, nil
}

// Capabilities implements core.Provider.
func (m *MockProvider) Capabilities() core.Capabilities { return m.Caps }

// CallCount returns the total number of delegate calls across both surfaces.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TextCalls) + len(m.ObjectCalls)
}

// Reset clears recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TextCalls = nil
	m.ObjectCalls = nil
}
