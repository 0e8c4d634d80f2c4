package core

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes pipeline and delegate errors. Every failure the
// library surfaces carries one of these codes so callers can branch on cause.
type ErrorCode string

const (
	// Input resolution.
	ErrAmbiguousInput ErrorCode = "ambiguous_input"
	ErrMissingInput   ErrorCode = "missing_input"
	ErrEmptyImageList ErrorCode = "empty_image_list"
	ErrFileAccess     ErrorCode = "file_access"

	// Rasterization and encoding.
	ErrPDFDecode        ErrorCode = "pdf_decode"
	ErrEmptyImageData   ErrorCode = "empty_image_data"
	ErrUnsupportedImage ErrorCode = "unsupported_image_type"

	// Payload construction.
	ErrEmptyPrompt ErrorCode = "empty_prompt"

	// Delegate call.
	ErrCapability       ErrorCode = "capability_not_supported"
	ErrStructuredOutput ErrorCode = "structured_output"
	ErrProvider         ErrorCode = "provider_error"
)

// AIError provides rich context for library consumers.
type AIError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	wrapped error
}

func (e *AIError) Error() string {
	if e == nil {
		return ""
	}
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *AIError) Unwrap() error { return e.wrapped }

// WrapError creates a new AIError with the provided code. Errors that already
// carry a code pass through unchanged so the original cause stays visible.
func WrapError(err error, code ErrorCode) *AIError {
	if err == nil {
		return nil
	}
	var ai *AIError
	if errors.As(err, &ai) {
		return ai
	}
	return &AIError{Code: code, Message: err.Error(), wrapped: err}
}

// NewError builds an AIError explicitly.
func NewError(code ErrorCode, message string, opts ...ErrorOption) *AIError {
	e := &AIError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ErrorOption mutates an AIError during construction.
type ErrorOption func(*AIError)

// WithDetails attaches structured context.
func WithDetails(details map[string]any) ErrorOption {
	return func(e *AIError) { e.Details = details }
}

// WithWrapped attaches an underlying error.
func WithWrapped(err error) ErrorOption {
	return func(e *AIError) { e.wrapped = err }
}

func classify(code ErrorCode) func(error) bool {
	return func(err error) bool {
		var ai *AIError
		if err == nil {
			return false
		}
		if errors.As(err, &ai) {
			return ai.Code == code
		}
		return false
	}
}

// Helper predicates for common error handling patterns.
var (
	IsAmbiguousInput   = classify(ErrAmbiguousInput)
	IsMissingInput     = classify(ErrMissingInput)
	IsEmptyImageList   = classify(ErrEmptyImageList)
	IsFileAccess       = classify(ErrFileAccess)
	IsPDFDecode        = classify(ErrPDFDecode)
	IsEmptyImageData   = classify(ErrEmptyImageData)
	IsUnsupportedImage = classify(ErrUnsupportedImage)
	IsEmptyPrompt      = classify(ErrEmptyPrompt)
	IsCapability       = classify(ErrCapability)
	IsStructuredOutput = classify(ErrStructuredOutput)
	IsProvider         = classify(ErrProvider)
)

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var ai *AIError
	if errors.As(err, &ai) {
		return ai.Code
	}
	return ""
}
