package docvision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shillcollin/docvision/core"
	"github.com/shillcollin/docvision/document"
	"github.com/shillcollin/docvision/internal/testutil"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// makePNG returns bytes that sniff as image/png with a distinguishing tail.
func makePNG(tail ...byte) []byte {
	return append(append([]byte(nil), pngSignature...), tail...)
}

type stubRasterizer struct {
	pages      [][]byte
	err        error
	bytesCalls int
	fileCalls  int
}

func (s *stubRasterizer) RenderBytes(ctx context.Context, pdf []byte) ([][]byte, error) {
	s.bytesCalls++
	return s.pages, s.err
}

func (s *stubRasterizer) RenderFile(ctx context.Context, path string) ([][]byte, error) {
	s.fileCalls++
	return s.pages, s.err
}

func TestInvokeSingleImageProducesOneImageBlock(t *testing.T) {
	mock := testutil.NewMockProvider()
	client := New(mock, WithModel("mock-model"))

	res, err := client.Invoke(context.Background(), "Describe this.", document.Images(document.Bytes(makePNG(1))))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.Text != "mock response" {
		t.Fatalf("unexpected text: %s", res.Text)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly one delegate call, got %d", mock.CallCount())
	}

	req := mock.TextCalls[0]
	if req.Model != "mock-model" {
		t.Fatalf("model not forwarded: %q", req.Model)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(req.Messages))
	}
	parts := req.Messages[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected prompt plus one image block, got %d parts", len(parts))
	}
	if _, ok := parts[0].(core.Text); !ok {
		t.Fatalf("first part must be the prompt, got %T", parts[0])
	}
	img, ok := parts[1].(core.Image)
	if !ok {
		t.Fatalf("second part must be an image block, got %T", parts[1])
	}
	if img.Source.MIME != "image/png" {
		t.Fatalf("sniffed mime not forwarded: %s", img.Source.MIME)
	}
}

func TestInvokeEmptyPromptNeverReachesProvider(t *testing.T) {
	mock := testutil.NewMockProvider()
	client := New(mock)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := client.Invoke(context.Background(), prompt, document.Images(document.Bytes(makePNG())))
		if !core.IsEmptyPrompt(err) {
			t.Fatalf("prompt %q: expected empty_prompt, got %v", prompt, err)
		}
	}
	if mock.CallCount() != 0 {
		t.Fatalf("provider must not be called on validation failure, got %d calls", mock.CallCount())
	}
}

func TestInvokeInputValidationFailsFast(t *testing.T) {
	mock := testutil.NewMockProvider()
	raster := &stubRasterizer{}
	client := New(mock, WithRenderer(raster))
	ctx := context.Background()

	pdf := document.Bytes([]byte("%PDF-1.7"))
	cases := []struct {
		name  string
		input document.Input
		check func(error) bool
	}{
		{"both shapes", document.Input{PDF: &pdf, Images: []document.Source{document.Bytes(makePNG())}}, core.IsAmbiguousInput},
		{"neither shape", document.Input{}, core.IsMissingInput},
		{"empty image list", document.Images(), core.IsEmptyImageList},
		{"corrupt pdf", document.PDFBytes([]byte("not a pdf")), core.IsPDFDecode},
		{"empty image bytes", document.Images(document.Bytes(nil)), core.IsEmptyImageData},
		{"unsupported image", document.Images(document.Bytes([]byte("plain text, not an image"))), core.IsUnsupportedImage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock.Reset()
			_, err := client.Invoke(ctx, "Describe this.", tc.input)
			if !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if mock.CallCount() != 0 {
				t.Fatalf("provider must not be called on validation failure, got %d calls", mock.CallCount())
			}
		})
	}
	if raster.bytesCalls != 0 || raster.fileCalls != 0 {
		t.Fatalf("rasterizer must not run for invalid inputs: %+v", raster)
	}
}

func TestInvokePreservesImageOrder(t *testing.T) {
	mock := testutil.NewMockProvider()
	client := New(mock)

	a, b, c := makePNG('a'), makePNG('b'), makePNG('c')
	_, err := client.Invoke(context.Background(), "Compare.", document.Images(
		document.Bytes(a), document.Bytes(b), document.Bytes(c),
	))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	parts := mock.TextCalls[0].Messages[0].Parts
	if len(parts) != 4 {
		t.Fatalf("expected prompt plus three image blocks, got %d parts", len(parts))
	}
	for i, want := range [][]byte{a, b, c} {
		img := parts[i+1].(core.Image)
		if string(img.Source.Bytes) != string(want) {
			t.Fatalf("image block %d out of order", i)
		}
	}
}

func TestInvokePDFPagesBecomeOrderedBlocks(t *testing.T) {
	mock := testutil.NewMockProvider()
	raster := &stubRasterizer{pages: [][]byte{makePNG(1), makePNG(2)}}
	client := New(mock, WithRenderer(raster))

	_, err := client.Invoke(context.Background(), "Summarize.", document.PDFBytes([]byte("%PDF-1.7\n...")))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if raster.bytesCalls != 1 {
		t.Fatalf("expected one rasterization, got %d", raster.bytesCalls)
	}
	parts := mock.TextCalls[0].Messages[0].Parts
	if len(parts) != 3 {
		t.Fatalf("expected prompt plus two page blocks, got %d parts", len(parts))
	}
	for i, want := range raster.pages {
		img := parts[i+1].(core.Image)
		if string(img.Source.Bytes) != string(want) {
			t.Fatalf("page block %d out of order", i)
		}
	}
}

func TestInvokeCapabilityGate(t *testing.T) {
	mock := testutil.NewMockProvider()
	mock.Caps.Images = false
	client := New(mock)

	_, err := client.Invoke(context.Background(), "Describe.", document.Images(document.Bytes(makePNG())))
	if !core.IsCapability(err) {
		t.Fatalf("expected capability_not_supported, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("provider must not be called, got %d calls", mock.CallCount())
	}
}

func TestInvokeRecordsLatency(t *testing.T) {
	mock := testutil.NewMockProvider()
	mock.OnGenerateText = func(ctx context.Context, req core.Request) (*core.TextResult, error) {
		time.Sleep(5 * time.Millisecond)
		return &core.TextResult{Text: "slow response"}, nil
	}
	client := New(mock)

	res, err := client.Invoke(context.Background(), "Describe.", document.Images(document.Bytes(makePNG())))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.LatencyMS < 1 {
		t.Fatalf("latency not recorded: %d", res.LatencyMS)
	}
}

func TestInvokeProviderErrorsCarryCode(t *testing.T) {
	mock := testutil.NewMockProvider()
	mock.TextErr = errors.New("upstream exploded")
	client := New(mock)

	_, err := client.Invoke(context.Background(), "Describe.", document.Images(document.Bytes(makePNG())))
	if !core.IsProvider(err) {
		t.Fatalf("expected provider_error, got %v", err)
	}
}

func TestInvokeAsyncMatchesSync(t *testing.T) {
	mock := testutil.NewMockProvider()
	client := New(mock)
	input := document.Images(document.Bytes(makePNG()))

	syncRes, syncErr := client.Invoke(context.Background(), "Describe.", input)
	async := <-client.InvokeAsync(context.Background(), "Describe.", input)

	if (syncErr == nil) != (async.Err == nil) {
		t.Fatalf("sync/async error mismatch: %v vs %v", syncErr, async.Err)
	}
	if syncRes.Text != async.Result.Text {
		t.Fatalf("sync/async result mismatch: %q vs %q", syncRes.Text, async.Result.Text)
	}
}

func TestInvokeAsyncSurfacesValidationErrors(t *testing.T) {
	mock := testutil.NewMockProvider()
	client := New(mock)

	res := <-client.InvokeAsync(context.Background(), "  ", document.Images(document.Bytes(makePNG())))
	if !core.IsEmptyPrompt(res.Err) {
		t.Fatalf("expected empty_prompt, got %v", res.Err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("provider must not be called, got %d calls", mock.CallCount())
	}
}

func TestSystemPromptPrepended(t *testing.T) {
	mock := testutil.NewMockProvider()
	client := New(mock, WithSystemPrompt("You read receipts."))

	_, err := client.Invoke(context.Background(), "Total?", document.Images(document.Bytes(makePNG())))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	msgs := mock.TextCalls[0].Messages
	if len(msgs) != 2 || msgs[0].Role != core.System {
		t.Fatalf("system message missing: %+v", msgs)
	}
}
