// Package pdfrender rasterizes PDF documents into per-page images. Rendering
// is delegated to MuPDF through go-fitz; this package only fixes page
// ordering, output encoding and error classification.
package pdfrender

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/shillcollin/docvision/core"
)

// Format selects the encoding of rendered pages.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

const (
	defaultDPI         = 96.0
	defaultJPEGQuality = 90
)

// Option mutates renderer options.
type Option func(*options)

type options struct {
	dpi         float64
	format      Format
	jpegQuality int
}

func defaultOptions() options {
	return options{
		dpi:         defaultDPI,
		format:      FormatPNG,
		jpegQuality: defaultJPEGQuality,
	}
}

// WithDPI sets the rasterization resolution.
func WithDPI(dpi float64) Option {
	return func(o *options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithFormat sets the per-page output encoding.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithJPEGQuality sets the JPEG encoder quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(o *options) {
		if q >= 1 && q <= 100 {
			o.jpegQuality = q
		}
	}
}

// Renderer converts PDFs into ordered page images.
type Renderer struct {
	opts options
}

// New constructs a Renderer.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{opts: o}
}

// RenderBytes rasterizes an in-memory PDF, one encoded image per page in
// page order. Unparsable or zero-page documents fail with pdf_decode.
func (r *Renderer) RenderBytes(ctx context.Context, pdf []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, core.NewError(core.ErrPDFDecode, "open pdf from memory", core.WithWrapped(err))
	}
	defer doc.Close()
	return r.renderDoc(ctx, doc)
}

// RenderFile rasterizes a PDF from the filesystem. The path must be readable;
// MuPDF reports unreadable files the same way as corrupt ones, so both
// surface as pdf_decode here (the resolver checks readability first).
func (r *Renderer) RenderFile(ctx context.Context, path string) ([][]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, core.NewError(core.ErrPDFDecode, fmt.Sprintf("open pdf %s", path), core.WithWrapped(err))
	}
	defer doc.Close()
	return r.renderDoc(ctx, doc)
}

func (r *Renderer) renderDoc(ctx context.Context, doc *fitz.Document) ([][]byte, error) {
	pages := doc.NumPage()
	if pages == 0 {
		return nil, core.NewError(core.ErrPDFDecode, "pdf has zero pages")
	}

	out := make([][]byte, 0, pages)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, r.opts.dpi)
		if err != nil {
			return nil, core.NewError(core.ErrPDFDecode, fmt.Sprintf("render page %d", i+1), core.WithWrapped(err))
		}
		buf := &bytes.Buffer{}
		switch r.opts.format {
		case FormatJPEG:
			err = jpeg.Encode(buf, img, &jpeg.Options{Quality: r.opts.jpegQuality})
		default:
			err = png.Encode(buf, img)
		}
		if err != nil {
			return nil, fmt.Errorf("encode page %d as %s: %w", i+1, r.opts.format, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}
