// Command docvision-cli sends a PDF or a set of images to a vision chat
// model and prints the response. Intended as a smoke-test harness, not a
// production surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shillcollin/docvision"
	"github.com/shillcollin/docvision/core"
	"github.com/shillcollin/docvision/document"
	"github.com/shillcollin/docvision/obs"
	"github.com/shillcollin/docvision/pdfrender"
	"github.com/shillcollin/docvision/providers/anthropic"
	"github.com/shillcollin/docvision/providers/openai"
)

type imageList []string

func (l *imageList) String() string { return strings.Join(*l, ",") }

func (l *imageList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	_ = godotenv.Load()

	var (
		images  imageList
		pdfPath = flag.String("pdf", "", "path to a PDF document")
		prompt  = flag.String("prompt", "", "prompt to send alongside the document")
		model   = flag.String("model", "gpt-4o-mini", "model identifier; anthropic models route to the Anthropic API")
		dpi     = flag.Float64("dpi", 96, "rasterization resolution for PDF pages")
		format  = flag.String("format", "png", "page image format: png or jpeg")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall request timeout")
		trace   = flag.Bool("trace", false, "print spans to stdout")
	)
	flag.Var(&images, "image", "path to an image; repeat for multiple images")
	flag.Parse()

	if err := run(images, *pdfPath, *prompt, *model, *dpi, *format, *timeout, *trace); err != nil {
		fmt.Fprintln(os.Stderr, "docvision-cli:", err)
		os.Exit(1)
	}
}

func run(images imageList, pdfPath, prompt, model string, dpi float64, format string, timeout time.Duration, trace bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if trace {
		shutdown, err := obs.Init(ctx, obs.Options{
			ServiceName: "docvision-cli",
			Exporter:    obs.ExporterStdout,
		})
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown(context.Background())
	}

	provider, err := pickProvider(model)
	if err != nil {
		return err
	}

	renderFormat := pdfrender.FormatPNG
	if format == "jpeg" {
		renderFormat = pdfrender.FormatJPEG
	}
	client := docvision.New(provider,
		docvision.WithModel(model),
		docvision.WithRenderOptions(pdfrender.WithDPI(dpi), pdfrender.WithFormat(renderFormat)),
	)

	input, err := buildInput(images, pdfPath)
	if err != nil {
		return err
	}

	res, err := client.Invoke(ctx, prompt, input)
	if err != nil {
		if code := core.CodeOf(err); code != "" {
			return fmt.Errorf("[%s] %w", code, err)
		}
		return err
	}

	fmt.Println(res.Text)
	fmt.Fprintf(os.Stderr, "model=%s tokens=%d\n", res.Model, res.Usage.TotalTokens)
	return nil
}

func pickProvider(model string) (core.Provider, error) {
	if strings.HasPrefix(model, "claude") {
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return anthropic.New(anthropic.WithAPIKey(key), anthropic.WithModel(model)), nil
	}
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return openai.New(openai.WithAPIKey(key), openai.WithModel(model)), nil
}

func buildInput(images imageList, pdfPath string) (document.Input, error) {
	switch {
	case pdfPath != "" && len(images) > 0:
		return document.Input{}, fmt.Errorf("pass either -pdf or -image, not both")
	case pdfPath != "":
		return document.PDFPath(pdfPath), nil
	case len(images) > 0:
		srcs := make([]document.Source, 0, len(images))
		for _, p := range images {
			srcs = append(srcs, document.Path(p))
		}
		return document.Images(srcs...), nil
	default:
		return document.Input{}, fmt.Errorf("pass -pdf or at least one -image")
	}
}
