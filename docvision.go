package docvision

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shillcollin/docvision/core"
	"github.com/shillcollin/docvision/document"
	"github.com/shillcollin/docvision/obs"
	"github.com/shillcollin/docvision/pdfrender"
)

// Client binds a chat provider to the document pipeline.
type Client struct {
	provider core.Provider
	renderer document.Rasterizer
	opts     options
}

// New constructs a Client around the given provider.
func New(provider core.Provider, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	renderer := o.renderer
	if renderer == nil {
		renderer = pdfrender.New(o.renderOptions...)
	}
	return &Client{provider: provider, renderer: renderer, opts: o}
}

// Provider exposes the underlying provider, mainly for capability checks.
func (c *Client) Provider() core.Provider { return c.provider }

// Invoke sends the prompt plus the document's image blocks to the provider
// and returns the plain text result. All input validation happens before the
// provider is contacted.
func (c *Client) Invoke(ctx context.Context, prompt string, in document.Input) (_ *core.TextResult, err error) {
	ctx, recorder := obs.StartRequest(ctx, "docvision.Invoke",
		attribute.String("ai.operation", "invoke"),
		attribute.String("ai.provider", c.provider.Capabilities().Provider),
	)
	var usageTokens obs.UsageTokens
	defer func() {
		recorder.End(err, usageTokens)
	}()

	req, imageBlocks, err := c.buildRequest(ctx, prompt, in)
	if err != nil {
		return nil, err
	}
	recorder.AddAttributes(attribute.Int("ai.payload.image_blocks", imageBlocks))
	obs.RecordImageBlocks(imageBlocks, attribute.String("ai.operation", "invoke"))

	start := time.Now()
	res, err := c.provider.GenerateText(ctx, req)
	if err != nil {
		return nil, core.WrapError(err, core.ErrProvider)
	}
	if res.LatencyMS == 0 {
		res.LatencyMS = time.Since(start).Milliseconds()
	}
	usageTokens = obs.UsageFromCore(res.Usage)
	return res, nil
}

// AsyncResult carries the outcome of an asynchronous invocation.
type AsyncResult struct {
	Result *core.TextResult
	Err    error
}

// InvokeAsync runs Invoke on a goroutine. The returned channel is buffered
// and receives exactly one result before closing, so abandoning it never
// leaks the worker.
func (c *Client) InvokeAsync(ctx context.Context, prompt string, in document.Input) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		defer close(ch)
		res, err := c.Invoke(ctx, prompt, in)
		ch <- AsyncResult{Result: res, Err: err}
	}()
	return ch
}
