package core

// Request represents a single generation request handed to a Provider.
type Request struct {
	Model string `json:"model,omitempty"`

	Messages []Message `json:"messages"`

	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	TopP        float32 `json:"top_p,omitempty"`

	Metadata        map[string]any `json:"metadata,omitempty"`
	ProviderOptions map[string]any `json:"provider_options,omitempty"`
}

// Clone returns a shallow copy of the request with safe slice and map
// duplication where necessary.
func (r Request) Clone() Request {
	clone := r
	if len(r.Messages) > 0 {
		clone.Messages = append([]Message(nil), r.Messages...)
	}
	if r.Metadata != nil {
		clone.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			clone.Metadata[k] = v
		}
	}
	if r.ProviderOptions != nil {
		clone.ProviderOptions = make(map[string]any, len(r.ProviderOptions))
		for k, v := range r.ProviderOptions {
			clone.ProviderOptions[k] = v
		}
	}
	return clone
}
