// Package anthropic implements the core.Provider interface over Anthropic's
// Messages API.
package anthropic

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

const defaultMaxTokens = 4096

// Client implements the core.Provider interface for Anthropic.
type Client struct {
	opts       options
	httpClient *http.Client
}

// New constructs a new Anthropic client.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.New(httpclient.WithTimeout(o.timeout))
	}
	if _, ok := o.headers["anthropic-version"]; !ok {
		o.headers["anthropic-version"] = "2023-06-01"
	}
	return &Client{opts: o, httpClient: o.httpClient}
}

func (c *Client) GenerateText(ctx context.Context, req core.Request) (_ *core.TextResult, err error) {
	ctx, recorder := obs.StartRequest(ctx, "providers.anthropic.GenerateText",
		attribute.String("ai.provider", "anthropic"),
		attribute.String("ai.operation", "messages"),
	)
	var usageTokens obs.UsageTokens
	defer func() {
		recorder.End(err, usageTokens)
	}()

	payload, err := c.buildPayload(req)
	if err != nil {
		return nil, err
	}
	recorder.AddAttributes(attribute.String("ai.model", payload.Model))
	body, err := c.doRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp anthropicResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, core.NewError(core.ErrProvider, "decode anthropic response", core.WithWrapped(err))
	}
	usage := resp.Usage.toCore()
	usageTokens = obs.UsageFromCore(usage)
	return &core.TextResult{
		Text:         resp.JoinText(),
		Model:        resp.Model,
		Provider:     "anthropic",
		Usage:        usage,
		FinishReason: core.StopReason{Type: resp.StopReason},
	}, nil
}

// GenerateObject relies on prompt-driven JSON: the Messages API has no JSON
// response mode, so the raw text is returned for schema validation upstream.
func (c *Client) GenerateObject(ctx context.Context, req core.Request) (*core.ObjectResultRaw, error) {
	res, err := c.GenerateText(ctx, req)
	if err != nil {
		return nil, err
	}
	return &core.ObjectResultRaw{
		JSON:     []byte(res.Text),
		Model:    res.Model,
		Provider: res.Provider,
		Usage:    res.Usage,
	}, nil
}

func (c *Client) Capabilities() core.Capabilities {
	return core.Capabilities{
		Images:            true,
		StructuredOutputs: true,
		Provider:          "anthropic",
	}
}

func (c *Client) buildPayload(req core.Request) (*anthropicRequest, error) {
	systemPrompt, messages := splitSystem(req.Messages)
	converted, err := convertMessages(messages)
	if err != nil {
		return nil, err
	}
	if len(converted) == 0 {
		return nil, core.NewError(core.ErrProvider, "anthropic: request requires at least one user message")
	}
	payload := &anthropicRequest{
		Model:       chooseModel(req.Model, c.opts.model),
		MaxTokens:   chooseMaxTokens(req.MaxTokens),
		Messages:    converted,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		System:      systemPrompt,
	}
	return payload, nil
}

func (c *Client) doRequest(ctx context.Context, payload *anthropicRequest) (io.ReadCloser, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.opts.baseURL, "/")+"/messages", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.opts.apiKey)
	for k, v := range c.opts.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewError(core.ErrProvider, "anthropic request", core.WithWrapped(err))
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, core.NewError(core.ErrProvider,
			fmt.Sprintf("anthropic: %s: %s", resp.Status, data),
			core.WithDetails(map[string]any{"status": resp.StatusCode}))
	}
	return resp.Body, nil
}

func splitSystem(messages []core.Message) (string, []core.Message) {
	system := ""
	rest := make([]core.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == core.System {
			for _, part := range msg.Parts {
				if t, ok := part.(core.Text); ok {
					if system != "" {
						system += "\n"
					}
					system += t.Text
				}
			}
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}

func convertMessages(messages []core.Message) ([]anthropicMessage, error) {
	result := make([]anthropicMessage, 0, len(messages))
	for _, msg := range messages {
		amsg := anthropicMessage{Role: roleString(msg.Role)}
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case core.Text:
				amsg.Content = append(amsg.Content, anthropicContent{Type: "text", Text: p.Text})
			case core.Image:
				encoded, err := p.Source.Base64()
				if err != nil {
					return nil, fmt.Errorf("encode image part: %w", err)
				}
				amsg.Content = append(amsg.Content, anthropicContent{
					Type: "image",
					Source: &anthropicImageSource{
						Type:      "base64",
						MediaType: p.Source.MIME,
						Data:      encoded,
					},
				})
			case core.ImageURL:
				amsg.Content = append(amsg.Content, anthropicContent{
					Type:   "image",
					Source: &anthropicImageSource{Type: "url", URL: p.URL},
				})
			default:
				return nil, fmt.Errorf("unsupported part type %T", part)
			}
		}
		result = append(result, amsg)
	}
	return result, nil
}

func roleString(role core.Role) string {
	if role == core.Assistant {
		return "assistant"
	}
	return "user"
}

func chooseModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	if fallback != "" {
		return fallback
	}
	return "claude-3-5-sonnet-latest"
}

func chooseMaxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	return defaultMaxTokens
}

var _ core.Provider = (*Client)(nil)
