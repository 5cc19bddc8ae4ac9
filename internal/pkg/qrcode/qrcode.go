// Package qrcode renders attendance verification codes as PNG QR images.
package qrcode

import (
	"errors"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MaxSize     = 1024
)

// ErrInvalidSize is returned for non-positive or oversized images
var ErrInvalidSize = errors.New("invalid size: must be between 1 and 1024 pixels")

// Encoder renders content as a PNG of size x size pixels
type Encoder func(content string, level goqrcode.RecoveryLevel, size int) ([]byte, error)

// Generator produces QR code images
type Generator struct {
	encode Encoder
}

// NewGenerator creates a generator; a nil encoder uses go-qrcode
func NewGenerator(encode Encoder) *Generator {
	if encode == nil {
		encode = goqrcode.Encode
	}
	return &Generator{encode: encode}
}

// PNG encodes content at medium error correction
func (g *Generator) PNG(content string, size int) ([]byte, error) {
	if size <= 0 || size > MaxSize {
		return nil, ErrInvalidSize
	}
	if content == "" {
		return nil, errors.New("qr code content cannot be empty")
	}
	return g.encode(content, goqrcode.Medium, size)
}
