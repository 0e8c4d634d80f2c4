package core

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Role identifies the author of a message.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Message represents a single conversation turn. An invocation built by this
// library carries exactly one user message: a text part followed by one image
// part per page or input image, in input order.
type Message struct {
	Role     Role           `json:"role"`
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// PartType identifies the type of content stored in a Part.
type PartType string

const (
	PartTypeText     PartType = "text"
	PartTypeImage    PartType = "image"
	PartTypeImageURL PartType = "image_url"
)

// Part is the interface implemented by all message fragments.
type Part interface {
	Type() PartType
	Content() any
}

// Text represents text content.
type Text struct {
	Text string `json:"text"`
}

func (t Text) Type() PartType { return PartTypeText }
func (t Text) Content() any   { return t.Text }

// Image references binary image content.
type Image struct {
	Source BlobRef `json:"source"`
	Alt    string  `json:"alt,omitempty"`
}

func (i Image) Type() PartType { return PartTypeImage }
func (i Image) Content() any   { return i.Source }

// ImageURL references remote image content.
type ImageURL struct {
	URL    string `json:"url"`
	MIME   string `json:"mime,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (i ImageURL) Type() PartType { return PartTypeImageURL }
func (i ImageURL) Content() any   { return i.URL }

// BlobKind identifies how binary data is held.
type BlobKind string

const (
	BlobBytes BlobKind = "bytes"
	BlobPath  BlobKind = "path"
)

// BlobRef carries binary data plus the MIME type the codec detected for it.
type BlobRef struct {
	Kind BlobKind `json:"kind"`

	Bytes []byte `json:"bytes,omitempty"`
	Path  string `json:"path,omitempty"`

	MIME string `json:"mime"`
	Size int64  `json:"size,omitempty"`
}

// Validate ensures the blob reference is well-formed.
func (b BlobRef) Validate() error {
	if b.Kind == "" {
		return errors.New("blob kind is required")
	}
	if b.MIME == "" {
		return errors.New("blob MIME type is required")
	}
	switch b.Kind {
	case BlobBytes:
		if len(b.Bytes) == 0 {
			return errors.New("bytes kind requires data")
		}
	case BlobPath:
		if b.Path == "" {
			return errors.New("path kind requires path")
		}
	default:
		return fmt.Errorf("unknown blob kind: %s", b.Kind)
	}
	return nil
}

// Base64 returns a base64 representation of the binary data when available.
func (b BlobRef) Base64() (string, error) {
	switch b.Kind {
	case BlobBytes:
		return base64.StdEncoding.EncodeToString(b.Bytes), nil
	default:
		return "", fmt.Errorf("base64 conversion unsupported for kind %s", b.Kind)
	}
}

// DataURL renders the blob as an RFC 2397 data URL for providers that accept
// inline image content.
func (b BlobRef) DataURL() (string, error) {
	encoded, err := b.Base64()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", b.MIME, encoded), nil
}
