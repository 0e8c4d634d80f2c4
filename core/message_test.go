package core

import (
	"encoding/base64"
	"testing"
)

func TestBlobRefValidate(t *testing.T) {
	cases := []struct {
		name    string
		blob    BlobRef
		wantErr bool
	}{
		{"bytes ok", BlobRef{Kind: BlobBytes, Bytes: []byte{1}, MIME: "image/png"}, false},
		{"path ok", BlobRef{Kind: BlobPath, Path: "/tmp/a.png", MIME: "image/png"}, false},
		{"missing kind", BlobRef{MIME: "image/png"}, true},
		{"missing mime", BlobRef{Kind: BlobBytes, Bytes: []byte{1}}, true},
		{"empty bytes", BlobRef{Kind: BlobBytes, MIME: "image/png"}, true},
		{"empty path", BlobRef{Kind: BlobPath, MIME: "image/png"}, true},
		{"unknown kind", BlobRef{Kind: "url", MIME: "image/png"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.blob.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBlobRefBase64RoundTrip(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	blob := BlobRef{Kind: BlobBytes, Bytes: raw, MIME: "image/png"}
	encoded, err := blob.Base64()
	if err != nil {
		t.Fatalf("Base64: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatalf("round trip mismatch")
	}

	if _, err := (BlobRef{Kind: BlobPath, Path: "x", MIME: "image/png"}).Base64(); err == nil {
		t.Fatalf("expected error for path blob")
	}
}

func TestBlobRefDataURL(t *testing.T) {
	blob := BlobRef{Kind: BlobBytes, Bytes: []byte("abc"), MIME: "image/jpeg"}
	url, err := blob.DataURL()
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	want := "data:image/jpeg;base64,YWJj"
	if url != want {
		t.Fatalf("got %q want %q", url, want)
	}
}

func TestValidateMessages(t *testing.T) {
	ok := []Message{UserMessage(TextPart("hi"), ImagePart([]byte{1}, "image/png"))}
	if err := ValidateMessages(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateMessages([]Message{{Role: User}}); err == nil {
		t.Fatalf("expected error for empty parts")
	}
	if err := ValidateMessages([]Message{{Parts: []Part{TextPart("x")}}}); err == nil {
		t.Fatalf("expected error for missing role")
	}
}
