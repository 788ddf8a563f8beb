package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sync"
)

// Static is a capture service for headless hosts. It has no render loop,
// so every HideChrome is followed by exactly one synthetic frame: the image
// it was built with. Capturing without hiding the chrome first is an error.
type Static struct {
	mu       sync.Mutex
	frame    image.Image
	hidden   bool
	captures int
}

// NewStatic returns a capture service that yields img.
func NewStatic(img image.Image) *Static {
	return &Static{frame: img}
}

// FromPNG decodes data and returns a capture service that yields it.
func FromPNG(data []byte) (*Static, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return NewStatic(img), nil
}

// FromFile reads a PNG file from disk.
func FromFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot file: %w", err)
	}
	return FromPNG(data)
}

func (s *Static) HideChrome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = true
}

func (s *Static) ShowChrome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = false
}

// CaptureNextFrame renders the synthetic frame and returns it.
func (s *Static) CaptureNextFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hidden {
		return nil, errors.New("capture requested while chrome is visible")
	}
	if s.frame == nil {
		return nil, errors.New("no frame available")
	}
	s.captures++
	return s.frame, nil
}
