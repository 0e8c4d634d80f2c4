package pdfrender

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"testing"

	"github.com/shillcollin/docvision/core"
)

// buildPDF constructs a minimal PDF where page i has a MediaBox of width
// 72*(i+1) points, so rendered pages are distinguishable by dimensions.
func buildPDF(pages int) []byte {
	type object struct {
		num  int
		body string
	}
	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", i+3)
	}
	objects := []object{
		{1, "<</Type/Catalog/Pages 2 0 R>>"},
		{2, fmt.Sprintf("<</Type/Pages/Kids[%s]/Count %d>>", kids, pages)},
	}
	for i := 0; i < pages; i++ {
		objects = append(objects, object{i + 3,
			fmt.Sprintf("<</Type/Page/Parent 2 0 R/MediaBox[0 0 %d 72]>>", 72*(i+1))})
	}

	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for _, obj := range objects {
		offsets[obj.num] = buf.Len()
		fmt.Fprintf(buf, "%d 0 obj%sendobj\n", obj.num, obj.body)
	}
	xref := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(buf, "trailer<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestRenderBytesPageOrder(t *testing.T) {
	r := New(WithDPI(96))
	images, err := r.RenderBytes(context.Background(), buildPDF(3))
	if err != nil {
		t.Fatalf("RenderBytes: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(images))
	}
	// Page widths grow with page number, so decoded widths prove ordering.
	for i, data := range images {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("page %d is not a png: %v", i+1, err)
		}
		want := 96 * (i + 1)
		if got := img.Bounds().Dx(); got != want {
			t.Fatalf("page %d width: got %d want %d", i+1, got, want)
		}
	}
}

func TestRenderBytesCorrupt(t *testing.T) {
	r := New()
	_, err := r.RenderBytes(context.Background(), []byte("definitely not a pdf"))
	if !core.IsPDFDecode(err) {
		t.Fatalf("expected pdf_decode, got %v", err)
	}
}

func TestRenderBytesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New()
	if _, err := r.RenderBytes(ctx, buildPDF(1)); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRenderFileMissing(t *testing.T) {
	r := New()
	_, err := r.RenderFile(context.Background(), "testdata/does-not-exist.pdf")
	if !core.IsPDFDecode(err) {
		t.Fatalf("expected pdf_decode, got %v", err)
	}
}

func TestJPEGFormat(t *testing.T) {
	r := New(WithFormat(FormatJPEG), WithJPEGQuality(80))
	images, err := r.RenderBytes(context.Background(), buildPDF(1))
	if err != nil {
		t.Fatalf("RenderBytes: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 page, got %d", len(images))
	}
	if !bytes.HasPrefix(images[0], []byte{0xff, 0xd8, 0xff}) {
		t.Fatalf("output is not jpeg")
	}
}
