// Package animation renders decoded sprite frames as an animated GIF.
package animation

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
)

// DefaultDelay is the delay between frames in 100ths of a second, roughly
// the rate the game animates at.
const DefaultDelay = 5

// Palette index 0 is reserved for transparent pixels
const maxColors = 255

var errNoFrames = errors.New("animation: no frames to encode")

func paletted(m *image.RGBA) *image.Paletted {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	p := append(color.Palette{color.RGBA{}}, q.Quantize(make(color.Palette, 0, maxColors), m)...)

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm
}

// Encode writes frames to w as a looping GIF with delay between each frame.
// Every frame gets its own palette. Empty frames are skipped.
func Encode(w io.Writer, frames []*image.RGBA, delay int) error {
	g := &gif.GIF{}

	for _, m := range frames {
		if m.Rect.Empty() {
			continue
		}

		pm := paletted(m)
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)

		if pm.Rect.Dx() > g.Config.Width {
			g.Config.Width = pm.Rect.Dx()
		}
		if pm.Rect.Dy() > g.Config.Height {
			g.Config.Height = pm.Rect.Dy()
		}
	}

	if len(g.Image) == 0 {
		return errNoFrames
	}

	return gif.EncodeAll(w, g)
}
