package docvision

import (
	"context"
	"strings"

	"github.com/shillcollin/docvision/core"
	"github.com/shillcollin/docvision/document"
	"github.com/shillcollin/docvision/imaging"
)

// buildRequest runs the full validation pipeline and assembles the provider
// request: prompt check, input resolution, image normalization, capability
// gate, payload assembly. Any failure here means the provider was never
// contacted.
func (c *Client) buildRequest(ctx context.Context, prompt string, in document.Input) (core.Request, int, error) {
	if strings.TrimSpace(prompt) == "" {
		return core.Request{}, 0, core.NewError(core.ErrEmptyPrompt, "prompt must not be empty")
	}

	raw, err := document.Resolve(ctx, in, c.renderer)
	if err != nil {
		return core.Request{}, 0, err
	}
	images, err := imaging.NormalizeAll(raw, c.opts.allowedTypes...)
	if err != nil {
		return core.Request{}, 0, err
	}

	if !c.provider.Capabilities().Images {
		return core.Request{}, 0, core.NewError(core.ErrCapability,
			"provider does not accept image inputs")
	}

	parts := make([]core.Part, 0, len(images)+1)
	parts = append(parts, core.TextPart(prompt))
	for _, img := range images {
		parts = append(parts, img.Part())
	}

	messages := make([]core.Message, 0, 2)
	if c.opts.systemPrompt != "" {
		messages = append(messages, core.SystemMessage(c.opts.systemPrompt))
	}
	messages = append(messages, core.UserMessage(parts...))
	if err := core.ValidateMessages(messages); err != nil {
		return core.Request{}, 0, err
	}

	req := core.Request{
		Model:       c.opts.model,
		Messages:    messages,
		Temperature: c.opts.temperature,
		TopP:        c.opts.topP,
		MaxTokens:   c.opts.maxTokens,
	}
	return req, len(images), nil
}
