package docvision

import (
	"github.com/shillcollin/docvision/document"
	"github.com/shillcollin/docvision/pdfrender"
)

// Option customises a Client.
type Option func(*options)

type options struct {
	model         string
	systemPrompt  string
	maxTokens     int
	temperature   float32
	topP          float32
	renderer      document.Rasterizer
	renderOptions []pdfrender.Option
	allowedTypes  []string
}

func defaultOptions() options {
	return options{}
}

// WithModel sets the model passed to the provider.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithSystemPrompt adds a system message ahead of every invocation.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) { o.systemPrompt = prompt }
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) Option {
	return func(o *options) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *options) { o.temperature = t }
}

// WithTopP sets nucleus sampling.
func WithTopP(p float32) Option {
	return func(o *options) { o.topP = p }
}

// WithRenderer replaces the PDF rasterizer. The default renderer uses MuPDF
// at 96 DPI emitting PNG pages.
func WithRenderer(r document.Rasterizer) Option {
	return func(o *options) { o.renderer = r }
}

// WithRenderOptions configures the default MuPDF renderer. Ignored when
// WithRenderer supplies a custom rasterizer.
func WithRenderOptions(opts ...pdfrender.Option) Option {
	return func(o *options) { o.renderOptions = append(o.renderOptions, opts...) }
}

// WithAllowedImageTypes overrides the MIME allow-list used to validate image
// inputs and rendered pages.
func WithAllowedImageTypes(types ...string) Option {
	return func(o *options) { o.allowedTypes = append([]string(nil), types...) }
}
