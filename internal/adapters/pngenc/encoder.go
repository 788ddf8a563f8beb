package pngenc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// Encoder encodes captured frames as PNG.
type Encoder struct {
	// Compression defaults to png.DefaultCompression.
	Compression png.CompressionLevel
}

// EncodePNG returns the PNG encoding of img.
func (e Encoder) EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image to encode")
	}
	enc := png.Encoder{CompressionLevel: e.Compression}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
