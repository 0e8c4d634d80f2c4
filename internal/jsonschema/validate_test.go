package jsonschema

import "testing"

func TestValidateRequiredAndBounds(t *testing.T) {
	s, err := Derive[extraction]()
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	v, err := Compile(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := v.Validate([]byte(`{"title":"a","pages":2}`)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if err := v.Validate([]byte(`{"pages":2}`)); err == nil {
		t.Fatalf("missing required field accepted")
	}
	if err := v.Validate([]byte(`{"title":"a","pages":0}`)); err == nil {
		t.Fatalf("below-minimum accepted")
	}
}

func TestRepairJSON(t *testing.T) {
	fixed, err := RepairJSON([]byte(`{"a":1,}`))
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if string(fixed) != `{"a":1}` {
		t.Fatalf("unexpected repair output: %s", fixed)
	}
	if _, err := RepairJSON([]byte(`{"a"`)); err == nil {
		t.Fatalf("unrepairable json accepted")
	}
}
