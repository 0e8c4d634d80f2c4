package core

import (
	"context"
	"testing"
)

type fakeProvider struct {
	object []byte
	err    error
	caps   Capabilities
}

func (f fakeProvider) GenerateText(context.Context, Request) (*TextResult, error) {
	return nil, nil
}

func (f fakeProvider) GenerateObject(context.Context, Request) (*ObjectResultRaw, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ObjectResultRaw{JSON: f.object, Model: "fake", Provider: "fake"}, nil
}

func (f fakeProvider) Capabilities() Capabilities { return f.caps }

type invoiceSummary struct {
	Vendor string  `json:"vendor"`
	Total  float64 `json:"total" minimum:"0"`
}

func TestGenerateObjectTyped(t *testing.T) {
	provider := fakeProvider{object: []byte(`{"vendor":"acme","total":41.5}`)}
	res, err := GenerateObjectTyped[invoiceSummary](context.Background(), provider, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value.Vendor != "acme" || res.Value.Total != 41.5 {
		t.Fatalf("unexpected value: %+v", res.Value)
	}
	if len(res.RawJSON) == 0 {
		t.Fatalf("expected canonical raw json")
	}
}

func TestGenerateObjectTypedWithRepair(t *testing.T) {
	provider := fakeProvider{object: []byte(`{"vendor":"acme","total":1,}`)}
	if _, err := GenerateObjectTyped[invoiceSummary](context.Background(), provider, Request{}); err == nil {
		t.Fatalf("expected decode failure without repair")
	}
	res, err := GenerateObjectTyped[invoiceSummary](context.Background(), provider, Request{}, StructuredOptions{Mode: StrictRepair})
	if err != nil {
		t.Fatalf("unexpected error with repair: %v", err)
	}
	if res.Value.Vendor != "acme" {
		t.Fatalf("unexpected value: %+v", res.Value)
	}
}

func TestGenerateObjectTypedSchemaViolation(t *testing.T) {
	provider := fakeProvider{object: []byte(`{"vendor":"acme","total":-3}`)}
	_, err := GenerateObjectTyped[invoiceSummary](context.Background(), provider, Request{})
	if err == nil {
		t.Fatalf("expected schema violation")
	}
	if !IsStructuredOutput(err) {
		t.Fatalf("expected structured_output code, got %v", CodeOf(err))
	}
}

func TestGenerateObjectTypedProviderErrorPassthrough(t *testing.T) {
	want := NewError(ErrProvider, "rate limited")
	provider := fakeProvider{err: want}
	_, err := GenerateObjectTyped[invoiceSummary](context.Background(), provider, Request{})
	if !IsProvider(err) {
		t.Fatalf("expected provider error passthrough, got %v", err)
	}
}
