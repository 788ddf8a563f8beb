package tui

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCapturer_RequiresHiddenChrome(t *testing.T) {
	c := newCapturer(newBus())
	if _, err := c.CaptureNextFrame(context.Background()); err == nil {
		t.Fatal("expected error before HideChrome")
	}
}

func TestCapturer_FirstHiddenFrameWins(t *testing.T) {
	b := newBus()
	c := newCapturer(b)

	c.HideChrome()
	if msg := <-b.ch; msg != (chromeMsg{hidden: true}) {
		t.Fatalf("expected hide message, got %#v", msg)
	}

	c.frameRendered("form still visible\nform", false)
	c.frameRendered("ab\ncd", true)
	c.frameRendered("a much longer line that arrives later", true)

	img, err := c.CaptureNextFrame(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := img.Bounds().Dx(), 2*cellWidth+2*framePadding; got != want {
		t.Errorf("expected the first hidden frame (width %d), got width %d", want, got)
	}

	c.ShowChrome()
	if msg := <-b.ch; msg != (chromeMsg{hidden: false}) {
		t.Fatalf("expected show message, got %#v", msg)
	}
	if _, err := c.CaptureNextFrame(context.Background()); err == nil {
		t.Error("expected error after ShowChrome")
	}
}

func TestCapturer_WaitsForFrame(t *testing.T) {
	b := newBus()
	c := newCapturer(b)
	c.HideChrome()

	go func() {
		time.Sleep(10 * time.Millisecond)
		c.frameRendered("late frame", true)
	}()

	if _, err := c.CaptureNextFrame(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCapturer_Timeout(t *testing.T) {
	c := newCapturer(newBus())
	c.HideChrome()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.CaptureNextFrame(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
