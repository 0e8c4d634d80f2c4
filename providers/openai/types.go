package openai

import (
	"encoding/json"
	"strings"

	"github.com/shillcollin/docvision/core"
)

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	TopP           float32         `json:"top_p,omitempty"`
	ResponseFormat any             `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string          `json:"role"`
	Content []openAIContent `json:"content,omitempty"`
}

type openAIContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
	Usage   openAIUsage            `json:"usage"`
}

type chatCompletionChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (m openAIMessage) JoinText() string {
	var b strings.Builder
	for _, c := range m.Content {
		if c.Text != "" {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

func (m openAIMessage) MarshalJSON() ([]byte, error) {
	type alias openAIMessage
	return json.Marshal(alias(m))
}

// UnmarshalJSON accepts both content shapes the API emits: a plain string in
// completions responses and a part array when echoing requests.
func (m *openAIMessage) UnmarshalJSON(data []byte) error {
	type rawMessage struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if len(data) == 0 {
		return nil
	}
	var raw rawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Content = nil
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}
	switch raw.Content[0] {
	case '{', '[':
		var parts []openAIContent
		if err := json.Unmarshal(raw.Content, &parts); err != nil {
			return err
		}
		m.Content = parts
		return nil
	default:
		var text string
		if err := json.Unmarshal(raw.Content, &text); err != nil {
			return err
		}
		if text != "" {
			m.Content = []openAIContent{{Type: "text", Text: text}}
		}
		return nil
	}
}

func (u openAIUsage) toCore() core.Usage {
	return core.Usage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
}
