package tui

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellWidth    = 7
	cellHeight   = 13
	framePadding = 8
)

var (
	backgroundColor = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	foregroundColor = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
)

// Rasterize draws a rendered terminal frame as an image, one 7x13 cell per
// column. Styling escape sequences are dropped; only the text is kept.
func Rasterize(frame string) *image.RGBA {
	lines := strings.Split(ansi.Strip(frame), "\n")
	cols := 1
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		lines[i] = line
		if w := ansi.StringWidth(line); w > cols {
			cols = w
		}
	}

	bounds := image.Rect(0, 0, cols*cellWidth+2*framePadding, len(lines)*cellHeight+2*framePadding)
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foregroundColor),
		Face: face,
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		drawer.Dot = fixed.P(framePadding, framePadding+i*cellHeight+face.Ascent)
		drawer.DrawString(line)
	}
	return img
}
