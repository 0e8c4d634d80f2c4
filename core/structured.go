package core

import (
	"context"
	"encoding/json"

	"github.com/shillcollin/docvision/internal/jsonschema"
)

// StrictMode controls structured output repair behaviour.
type StrictMode int

const (
	// StrictProvider trusts the provider to emit valid JSON.
	StrictProvider StrictMode = iota
	// StrictRepair attempts limited JSON repair before failing.
	StrictRepair
)

// StructuredOptions customise typed structured output helpers.
type StructuredOptions struct {
	Mode StrictMode
}

// GenerateObjectTyped generates structured output and unmarshals into T,
// validating the payload against the schema derived from T. Decode failures
// surface as structured_output errors; provider failures pass through.
func GenerateObjectTyped[T any](ctx context.Context, p Provider, req Request, opts ...StructuredOptions) (*ObjectResult[T], error) {
	var options StructuredOptions
	if len(opts) > 0 {
		options = opts[0]
	}
	raw, err := p.GenerateObject(ctx, req)
	if err != nil {
		return nil, err
	}

	decoded, rawJSON, err := decodeStructured[T](raw.JSON, options)
	if err != nil {
		return nil, err
	}

	return &ObjectResult[T]{
		Value:    decoded,
		RawJSON:  rawJSON,
		Model:    raw.Model,
		Provider: raw.Provider,
		Usage:    raw.Usage,
	}, nil
}

// decodeStructured handles repair, validation and decoding into T.
func decodeStructured[T any](data []byte, options StructuredOptions) (T, []byte, error) {
	var out T
	validator, err := makeValidator[T]()
	if err != nil {
		var zero T
		return zero, nil, NewError(ErrStructuredOutput, "derive schema", WithWrapped(err))
	}

	attempt := func(payload []byte) error {
		if validator != nil {
			if err := validator.Validate(payload); err != nil {
				return err
			}
		}
		return json.Unmarshal(payload, &out)
	}

	if err := attempt(data); err != nil {
		if options.Mode != StrictRepair {
			return out, nil, NewError(ErrStructuredOutput, "decode structured output", WithWrapped(err))
		}
		repaired, repairErr := jsonschema.RepairJSON(data)
		if repairErr != nil {
			return out, nil, NewError(ErrStructuredOutput, "repair json", WithWrapped(repairErr))
		}
		if err2 := attempt(repaired); err2 != nil {
			return out, nil, NewError(ErrStructuredOutput, "decode repaired json", WithWrapped(err2))
		}
		data = repaired
	}
	// Re-encode to canonical JSON for RawJSON.
	normalized, err := json.Marshal(out)
	if err != nil {
		return out, nil, NewError(ErrStructuredOutput, "re-encode structured output", WithWrapped(err))
	}
	return out, normalized, nil
}

func makeValidator[T any]() (*jsonschema.Validator, error) {
	schemaDoc, err := jsonschema.Derive[T]()
	if err != nil {
		return nil, err
	}
	if schemaDoc == nil {
		return nil, nil
	}
	return jsonschema.Compile(schemaDoc)
}
