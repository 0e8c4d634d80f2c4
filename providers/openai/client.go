// Package openai implements the core.Provider interface over OpenAI's chat
// completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shillcollin/docvision/core"
	"github.com/shillcollin/docvision/internal/httpclient"
	"github.com/shillcollin/docvision/obs"
)

// Client implements the core.Provider interface for OpenAI.
type Client struct {
	httpClient *http.Client
	opts       options
}

// New constructs a new OpenAI client.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.New(httpclient.WithTimeout(o.timeout))
	}
	return &Client{
		httpClient: o.httpClient,
		opts:       o,
	}
}

func (c *Client) GenerateText(ctx context.Context, req core.Request) (_ *core.TextResult, err error) {
	ctx, recorder := obs.StartRequest(ctx, "providers.openai.GenerateText",
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.operation", "chat.completions"),
	)
	var usageTokens obs.UsageTokens
	defer func() {
		recorder.End(err, usageTokens)
	}()

	payload, err := c.buildChatPayload(req)
	if err != nil {
		return nil, err
	}
	recorder.AddAttributes(attribute.String("ai.model", payload.Model))

	body, err := c.doRequest(ctx, "POST", "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp chatCompletionResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, core.NewError(core.ErrProvider, "decode openai response", core.WithWrapped(err))
	}
	if len(resp.Choices) == 0 {
		return nil, core.NewError(core.ErrProvider, "openai: empty choices")
	}
	choice := resp.Choices[0]
	usage := resp.Usage.toCore()
	usageTokens = obs.UsageFromCore(usage)

	return &core.TextResult{
		Text:         choice.Message.JoinText(),
		Model:        resp.Model,
		Provider:     "openai",
		Usage:        usage,
		FinishReason: core.StopReason{Type: choice.FinishReason},
	}, nil
}

func (c *Client) GenerateObject(ctx context.Context, req core.Request) (_ *core.ObjectResultRaw, err error) {
	ctx, recorder := obs.StartRequest(ctx, "providers.openai.GenerateObject",
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.operation", "chat.completions.json"),
	)
	var usageTokens obs.UsageTokens
	defer func() {
		recorder.End(err, usageTokens)
	}()

	req = req.Clone()
	if req.ProviderOptions == nil {
		req.ProviderOptions = map[string]any{}
	}
	req.ProviderOptions["response_format"] = map[string]any{"type": "json_object"}
	payload, err := c.buildChatPayload(req)
	if err != nil {
		return nil, err
	}
	recorder.AddAttributes(attribute.String("ai.model", payload.Model))

	body, err := c.doRequest(ctx, "POST", "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp chatCompletionResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, core.NewError(core.ErrProvider, "decode openai response", core.WithWrapped(err))
	}
	if len(resp.Choices) == 0 {
		return nil, core.NewError(core.ErrProvider, "openai: empty choices")
	}
	usage := resp.Usage.toCore()
	usageTokens = obs.UsageFromCore(usage)
	return &core.ObjectResultRaw{
		JSON:     []byte(resp.Choices[0].Message.JoinText()),
		Model:    resp.Model,
		Provider: "openai",
		Usage:    usage,
	}, nil
}

func (c *Client) Capabilities() core.Capabilities {
	return core.Capabilities{
		Images:            true,
		StructuredOutputs: true,
		Provider:          "openai",
	}
}

func (c *Client) buildChatPayload(req core.Request) (*chatCompletionRequest, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return nil, err
	}
	payload := &chatCompletionRequest{
		Model:    chooseModel(req.Model, c.opts.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = req.MaxTokens
	}
	if req.Temperature != 0 {
		payload.Temperature = req.Temperature
	}
	if req.TopP != 0 {
		payload.TopP = req.TopP
	}
	if rf, ok := req.ProviderOptions["response_format"]; ok {
		payload.ResponseFormat = rf
	}
	return payload, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) (io.ReadCloser, error) {
	buf := &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.opts.baseURL, "/")+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.opts.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.apiKey)
	}
	for k, v := range c.opts.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewError(core.ErrProvider, "openai request", core.WithWrapped(err))
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, core.NewError(core.ErrProvider,
			fmt.Sprintf("openai: %s: %s", resp.Status, data),
			core.WithDetails(map[string]any{"status": resp.StatusCode}))
	}
	return resp.Body, nil
}

func convertMessages(messages []core.Message) ([]openAIMessage, error) {
	result := make([]openAIMessage, 0, len(messages))
	for _, msg := range messages {
		omsg := openAIMessage{Role: roleString(msg.Role)}
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case core.Text:
				omsg.Content = append(omsg.Content, openAIContent{Type: "text", Text: p.Text})
			case core.Image:
				url, err := p.Source.DataURL()
				if err != nil {
					return nil, fmt.Errorf("encode image part: %w", err)
				}
				omsg.Content = append(omsg.Content, openAIContent{Type: "image_url", ImageURL: &openAIImageURL{URL: url}})
			case core.ImageURL:
				omsg.Content = append(omsg.Content, openAIContent{Type: "image_url", ImageURL: &openAIImageURL{URL: p.URL, Detail: p.Detail}})
			default:
				return nil, fmt.Errorf("unsupported part type %T", part)
			}
		}
		result = append(result, omsg)
	}
	return result, nil
}

func roleString(role core.Role) string {
	switch role {
	case core.System:
		return "system"
	case core.Assistant:
		return "assistant"
	default:
		return "user"
	}
}

func chooseModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	if fallback != "" {
		return fallback
	}
	return "gpt-4o-mini"
}

var _ core.Provider = (*Client)(nil)
