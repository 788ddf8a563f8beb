package ports

import (
	"context"
	"image"
)

// FrameCapturer grabs a frame of the host application without the
// reporting UI in it.
//
// The controller calls HideChrome, then CaptureNextFrame, then ShowChrome.
// CaptureNextFrame must return the frame produced by the first render pass
// that completes after HideChrome; returning an earlier frame would leak
// the form into the screenshot.
type FrameCapturer interface {
	HideChrome()
	CaptureNextFrame(ctx context.Context) (image.Image, error)
	ShowChrome()
}

// ImageEncoder turns a captured frame into PNG bytes.
type ImageEncoder interface {
	EncodePNG(img image.Image) ([]byte, error)
}
