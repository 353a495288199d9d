package qr

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestGateURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		token   string
		want    string
	}{
		{
			name:    "plain base",
			baseURL: "https://party.example.com",
			token:   "abc123",
			want:    "https://party.example.com/q/abc123",
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "https://party.example.com/",
			token:   "abc123",
			want:    "https://party.example.com/q/abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(tt.baseURL)
			if got := r.GateURL(tt.token); got != tt.want {
				t.Errorf("GateURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	r := NewRenderer("https://party.example.com")
	want := "https://party.example.com/q/abc123.png"
	if got := r.ImageURL("abc123"); got != want {
		t.Errorf("ImageURL() = %q, want %q", got, want)
	}
}

func TestPNG(t *testing.T) {
	r := NewRenderer("https://party.example.com")

	png, err := r.PNG("abc123")
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	if len(png) == 0 {
		t.Fatal("PNG() returned empty image")
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("PNG() output does not start with the PNG signature")
	}
}
