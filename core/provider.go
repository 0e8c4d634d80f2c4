package core

import "context"

// Provider is the delegate chat client interface implemented by all model
// adapters. The facade makes exactly one call per invocation; retry and
// backoff policy, if any, belongs to the implementation behind this
// interface, never to the caller-facing pipeline.
type Provider interface {
	// GenerateText performs a blocking multimodal completion.
	GenerateText(ctx context.Context, req Request) (*TextResult, error)
	// GenerateObject performs a completion constrained to emit JSON.
	GenerateObject(ctx context.Context, req Request) (*ObjectResultRaw, error)
	Capabilities() Capabilities
}

// Capabilities describes the features supported by a provider.
type Capabilities struct {
	Images            bool
	StructuredOutputs bool

	MaxInputTokens  int
	MaxOutputTokens int
	MaxImageBytes   int64

	Provider string
	Models   []string
}
