package core

import "fmt"

// SystemMessage creates a system message with the given text.
func SystemMessage(text string) Message {
	return Message{Role: System, Parts: []Part{Text{Text: text}}}
}

// UserMessage creates a user message for the provided parts.
func UserMessage(parts ...Part) Message {
	clone := append([]Part(nil), parts...)
	return Message{Role: User, Parts: clone}
}

// TextPart is a convenience for constructing a text part.
func TextPart(text string) Text {
	return Text{Text: text}
}

// ImagePart builds an Image part from bytes.
func ImagePart(data []byte, mime string) Image {
	return Image{Source: BlobRef{Kind: BlobBytes, Bytes: data, MIME: mime, Size: int64(len(data))}}
}

// ImageURLPart builds an ImageURL part.
func ImageURLPart(url string, mime string) ImageURL {
	return ImageURL{URL: url, MIME: mime}
}

// ValidateMessages ensures each message has valid parts.
func ValidateMessages(messages []Message) error {
	for i, msg := range messages {
		if msg.Role == "" {
			return fmt.Errorf("message %d missing role", i)
		}
		if len(msg.Parts) == 0 {
			return fmt.Errorf("message %d missing parts", i)
		}
		for j, part := range msg.Parts {
			switch part.(type) {
			case Text, Image, ImageURL:
				// Known part types.
			default:
				return fmt.Errorf("message %d part %d has unsupported type %T", i, j, part)
			}
		}
	}
	return nil
}
