package pngenc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	data, err := Encoder{}.EncodePNG(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("expected png signature")
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got := decoded.Bounds(); got != img.Bounds() {
		t.Errorf("bounds: expected %v, got %v", img.Bounds(), got)
	}
	r, _, _, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("expected red pixel, got r=%d", r>>8)
	}
}

func TestEncodePNG_NilImage(t *testing.T) {
	if _, err := (Encoder{}).EncodePNG(nil); err == nil {
		t.Fatal("expected error for nil image")
	}
}
