// Package qr renders the QR images guests scan at the gate.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Renderer produces QR code PNGs pointing at the gate URL for a pass token
type Renderer struct {
	baseURL string
}

// NewRenderer creates a renderer rooted at the public base URL of the service
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/")}
}

// GateURL returns the public URL encoded into the QR image for a token
func (r *Renderer) GateURL(token string) string {
	return fmt.Sprintf("%s/q/%s", r.baseURL, token)
}

// ImageURL returns the URL where the QR PNG for a token is served
func (r *Renderer) ImageURL(token string) string {
	return fmt.Sprintf("%s/q/%s.png", r.baseURL, token)
}

// PNG renders the gate URL for a token as a PNG QR code
func (r *Renderer) PNG(token string) ([]byte, error) {
	png, err := qrcode.Encode(r.GateURL(token), qrcode.Medium, defaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
