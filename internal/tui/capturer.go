package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

// chromeMsg tells the model to hide or show the report form.
type chromeMsg struct {
	hidden bool
}

// Capturer grabs the terminal frame rendered right after the report form is
// hidden. The model hands every rendered frame to it from View, so the
// captured image is exactly what the user would have seen without the form.
type Capturer struct {
	bus *bus

	mu      sync.Mutex
	waiting chan string
}

func newCapturer(b *bus) *Capturer {
	return &Capturer{bus: b}
}

// HideChrome asks the model to stop drawing the form and arms the capture.
// It blocks until the request is queued and must not be called from Update.
func (c *Capturer) HideChrome() {
	c.mu.Lock()
	c.waiting = make(chan string, 1)
	c.mu.Unlock()
	c.bus.post(chromeMsg{hidden: true})
}

// ShowChrome asks the model to draw the form again.
func (c *Capturer) ShowChrome() {
	c.mu.Lock()
	c.waiting = nil
	c.mu.Unlock()
	c.bus.post(chromeMsg{hidden: false})
}

// CaptureNextFrame waits for the first frame rendered without the form.
func (c *Capturer) CaptureNextFrame(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	ch := c.waiting
	c.mu.Unlock()
	if ch == nil {
		return nil, errors.New("capture requested while the form is visible")
	}

	select {
	case frame := <-ch:
		return Rasterize(frame), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for frame: %w", ctx.Err())
	}
}

// frameRendered receives every frame the model draws. Only the first frame
// drawn with the form hidden is kept.
func (c *Capturer) frameRendered(frame string, chromeHidden bool) {
	if !chromeHidden {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiting == nil {
		return
	}
	select {
	case c.waiting <- frame:
	default:
	}
}
