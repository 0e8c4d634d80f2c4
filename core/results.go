package core

// Usage captures token accounting returned by providers.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// StopReason documents why generation ended.
type StopReason struct {
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// TextResult represents a free-form text generation response.
type TextResult struct {
	Text         string     `json:"text"`
	Model        string     `json:"model"`
	Provider     string     `json:"provider"`
	Usage        Usage      `json:"usage"`
	FinishReason StopReason `json:"finish_reason"`
	LatencyMS    int64      `json:"latency_ms,omitempty"`
}

// ObjectResultRaw contains structured JSON output as raw bytes.
type ObjectResultRaw struct {
	JSON     []byte `json:"json"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Usage    Usage  `json:"usage"`
}

// ObjectResult provides a typed representation of structured output.
type ObjectResult[T any] struct {
	Value    T
	RawJSON  []byte
	Model    string
	Provider string
	Usage    Usage
}
