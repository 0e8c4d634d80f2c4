// Package document normalizes caller-supplied PDF or image inputs into an
// ordered sequence of raw image buffers. Exactly one of the two input shapes
// may be set per call; the ordering of the result mirrors the caller's input
// order (or page order for PDFs) because it determines the order of image
// blocks in the final payload.
package document

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/shillcollin/docvision/core"
)

var pdfMagic = []byte("%PDF-")

// SourceKind tags the accepted shapes of a single binary source.
type SourceKind string

const (
	SourceBytes SourceKind = "bytes"
	SourcePath  SourceKind = "path"
)

// Source is a tagged union over the shapes a caller may supply for a PDF or
// an image: an in-memory buffer or a filesystem path.
type Source struct {
	Kind  SourceKind
	Data  []byte
	Paths string
}

// Bytes wraps an in-memory buffer.
func Bytes(data []byte) Source {
	return Source{Kind: SourceBytes, Data: data}
}

// Path wraps a filesystem path.
func Path(path string) Source {
	return Source{Kind: SourcePath, Paths: path}
}

// Read materializes the source into raw bytes. Unreadable paths fail with
// file_access; unrecognized variants are a usage error, never silent.
func (s Source) Read() ([]byte, error) {
	switch s.Kind {
	case SourceBytes:
		return s.Data, nil
	case SourcePath:
		data, err := os.ReadFile(s.Paths)
		if err != nil {
			return nil, core.NewError(core.ErrFileAccess,
				fmt.Sprintf("read %s", s.Paths), core.WithWrapped(err))
		}
		return data, nil
	default:
		return nil, core.NewError(core.ErrMissingInput,
			fmt.Sprintf("unrecognized source kind %q", s.Kind))
	}
}

// Input is the caller-facing union: exactly one of PDF or Images may be set.
type Input struct {
	PDF    *Source
	Images []Source
}

// PDF builds an Input from a single PDF source.
func PDF(src Source) Input {
	return Input{PDF: &src}
}

// PDFBytes builds an Input from in-memory PDF bytes.
func PDFBytes(data []byte) Input { return PDF(Bytes(data)) }

// PDFPath builds an Input from a PDF file path.
func PDFPath(path string) Input { return PDF(Path(path)) }

// Images builds an Input from an ordered sequence of image sources. The
// images shape counts as supplied even with zero sources, so Resolve reports
// empty_image_list rather than missing_input.
func Images(srcs ...Source) Input {
	if srcs == nil {
		srcs = []Source{}
	}
	return Input{Images: srcs}
}

// Rasterizer is the external page-rendering collaborator. Implementations
// emit one raw image buffer per page, in page order.
type Rasterizer interface {
	RenderBytes(ctx context.Context, pdf []byte) ([][]byte, error)
	RenderFile(ctx context.Context, path string) ([][]byte, error)
}

// Resolve turns an Input into an ordered sequence of raw image buffers.
// It fails before any I/O when both or neither input shape is set.
func Resolve(ctx context.Context, in Input, r Rasterizer) ([][]byte, error) {
	if in.PDF != nil && in.Images != nil {
		return nil, core.NewError(core.ErrAmbiguousInput, "provide only one of pdf or images")
	}
	if in.PDF == nil && in.Images == nil {
		return nil, core.NewError(core.ErrMissingInput, "either pdf or images must be provided")
	}

	if in.PDF != nil {
		return resolvePDF(ctx, *in.PDF, r)
	}
	return resolveImages(in.Images)
}

func resolvePDF(ctx context.Context, src Source, r Rasterizer) ([][]byte, error) {
	switch src.Kind {
	case SourcePath:
		// Surface unreadable paths as file_access before MuPDF folds them
		// into a generic open failure.
		if _, err := os.Stat(src.Paths); err != nil {
			return nil, core.NewError(core.ErrFileAccess,
				fmt.Sprintf("stat %s", src.Paths), core.WithWrapped(err))
		}
		return r.RenderFile(ctx, src.Paths)
	case SourceBytes:
		if !bytes.HasPrefix(src.Data, pdfMagic) {
			return nil, core.NewError(core.ErrPDFDecode, "document is not a pdf")
		}
		return r.RenderBytes(ctx, src.Data)
	default:
		return nil, core.NewError(core.ErrMissingInput,
			fmt.Sprintf("unrecognized pdf source kind %q", src.Kind))
	}
}

func resolveImages(srcs []Source) ([][]byte, error) {
	if len(srcs) == 0 {
		return nil, core.NewError(core.ErrEmptyImageList, "images sequence is empty")
	}
	out := make([][]byte, 0, len(srcs))
	for i, src := range srcs {
		data, err := src.Read()
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out = append(out, data)
	}
	return out, nil
}
