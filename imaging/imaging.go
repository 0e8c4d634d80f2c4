// Package imaging validates raw image bytes and encodes them for multimodal
// payloads. Detection is content sniffing on magic bytes; file names and
// caller-supplied labels are never trusted.
package imaging

import (
	"encoding/base64"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/shillcollin/docvision/core"
)

// DefaultAllowedTypes is the MIME allow-list accepted by default. It matches
// the image formats vision chat APIs accept. Override per call by passing an
// explicit list to Normalize.
var DefaultAllowedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
}

// Image is a validated pair of raw bytes and their sniffed MIME type.
type Image struct {
	Bytes []byte
	MIME  string
}

// Normalize inspects the buffer's magic signature, verifies it against the
// allow-list and returns the validated image. A zero-length buffer fails with
// empty_image_data; an unrecognized or disallowed signature fails with
// unsupported_image_type.
func Normalize(raw []byte, allowed ...string) (Image, error) {
	if len(raw) == 0 {
		return Image{}, core.NewError(core.ErrEmptyImageData, "image buffer is empty")
	}
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	detected := mimetype.Detect(raw)
	for _, mime := range allowed {
		if detected.Is(mime) {
			return Image{Bytes: raw, MIME: mime}, nil
		}
	}
	return Image{}, core.NewError(core.ErrUnsupportedImage,
		fmt.Sprintf("detected type %s is not an allowed image format", detected.String()),
		core.WithDetails(map[string]any{"detected": detected.String(), "allowed": allowed}))
}

// NormalizeAll validates a sequence of buffers, preserving order. The index
// of the first offending buffer is reported in the error.
func NormalizeAll(raw [][]byte, allowed ...string) ([]Image, error) {
	images := make([]Image, 0, len(raw))
	for i, buf := range raw {
		img, err := Normalize(buf, allowed...)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Bytes)
}

// DataURL renders the image as an RFC 2397 data URL.
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIME, i.Base64())
}

// Part converts the image into a message part carrying bytes plus MIME.
func (i Image) Part() core.Image {
	return core.ImagePart(i.Bytes, i.MIME)
}
