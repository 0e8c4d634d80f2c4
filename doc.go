// Package docvision invokes multimodal chat models over PDF or image
// documents. A PDF is rasterized into per-page images, loose images are
// validated against a MIME allow-list, and the resulting ordered image blocks
// are attached to a single user message next to the caller's prompt. Input
// validation happens before any provider traffic; typed structured output is
// available through InvokeObject.
package docvision
