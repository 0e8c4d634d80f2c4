package jsonschema

import "testing"

type extraction struct {
	Title string   `json:"title" description:"document title"`
	Pages int      `json:"pages" minimum:"1"`
	Tags  []string `json:"tags,omitempty"`
}

func TestDeriveStruct(t *testing.T) {
	s, err := Derive[extraction]()
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if s.Type != "object" {
		t.Fatalf("expected object, got %s", s.Type)
	}
	if s.Properties["title"].Description != "document title" {
		t.Fatalf("description tag not applied")
	}
	if s.Properties["pages"].Minimum == nil || *s.Properties["pages"].Minimum != 1 {
		t.Fatalf("minimum tag not applied")
	}
	if len(s.Required) != 2 {
		t.Fatalf("omitempty field should not be required: %v", s.Required)
	}
}
