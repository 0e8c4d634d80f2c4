package docvision

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shillcollin/docvision/core"
	"github.com/shillcollin/docvision/document"
	"github.com/shillcollin/docvision/internal/jsonschema"
	"github.com/shillcollin/docvision/obs"
)

// InvokeObject runs the document pipeline and decodes the provider's response
// into T, validated against the JSON schema derived from T. Free function
// because methods cannot be generic. The schema is also embedded into the
// request as an instruction so providers without a native JSON response mode
// still produce conforming output.
func InvokeObject[T any](ctx context.Context, c *Client, prompt string, in document.Input, opts ...core.StructuredOptions) (_ *core.ObjectResult[T], err error) {
	ctx, recorder := obs.StartRequest(ctx, "docvision.InvokeObject",
		attribute.String("ai.operation", "invoke_object"),
		attribute.String("ai.provider", c.provider.Capabilities().Provider),
	)
	var usageTokens obs.UsageTokens
	defer func() {
		recorder.End(err, usageTokens)
	}()

	if !c.provider.Capabilities().StructuredOutputs {
		return nil, core.NewError(core.ErrCapability,
			"provider does not support structured outputs")
	}

	req, imageBlocks, err := c.buildRequest(ctx, prompt, in)
	if err != nil {
		return nil, err
	}
	if err := bindSchema[T](&req); err != nil {
		return nil, err
	}
	recorder.AddAttributes(attribute.Int("ai.payload.image_blocks", imageBlocks))
	obs.RecordImageBlocks(imageBlocks, attribute.String("ai.operation", "invoke_object"))

	res, err := core.GenerateObjectTyped[T](ctx, c.provider, req, opts...)
	if err != nil {
		return nil, err
	}
	usageTokens = obs.UsageFromCore(res.Usage)
	return res, nil
}

// ObjectAsyncResult carries the outcome of an asynchronous structured
// invocation.
type ObjectAsyncResult[T any] struct {
	Result *core.ObjectResult[T]
	Err    error
}

// InvokeObjectAsync runs InvokeObject on a goroutine, mirroring InvokeAsync.
func InvokeObjectAsync[T any](ctx context.Context, c *Client, prompt string, in document.Input, opts ...core.StructuredOptions) <-chan ObjectAsyncResult[T] {
	ch := make(chan ObjectAsyncResult[T], 1)
	go func() {
		defer close(ch)
		res, err := InvokeObject[T](ctx, c, prompt, in, opts...)
		ch <- ObjectAsyncResult[T]{Result: res, Err: err}
	}()
	return ch
}

// bindSchema prepends a system instruction carrying the derived JSON schema.
func bindSchema[T any](req *core.Request) error {
	schemaDoc, err := jsonschema.Derive[T]()
	if err != nil {
		return core.NewError(core.ErrStructuredOutput, "derive schema", core.WithWrapped(err))
	}
	if schemaDoc == nil {
		return nil
	}
	encoded, err := json.Marshal(schemaDoc)
	if err != nil {
		return core.NewError(core.ErrStructuredOutput, "encode schema", core.WithWrapped(err))
	}
	instruction := fmt.Sprintf(
		"Respond with a single JSON object matching this JSON Schema. No prose, no code fences.\n%s",
		encoded)
	req.Messages = append([]core.Message{core.SystemMessage(instruction)}, req.Messages...)
	return nil
}
