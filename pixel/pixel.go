/*
Package pixel converts between the packed 16-bit colors used by the Creatures
sprite formats and 8-bit RGBA.

Two layouts exist, 5-5-5 (0RRRRRGG GGGBBBBB) and 5-6-5 (RRRRRGGG GGGBBBBB).
Sprite files carry a 32-bit flags word that selects between them.
*/
package pixel

import "image/color"

// Format is a packed 16-bit pixel layout.
type Format int

const (
	// RGB565 is 5 bits red, 6 bits green, 5 bits blue.
	RGB565 Format = iota
	// RGB555 is 5 bits each of red, green and blue.
	RGB555
)

const (
	code555 = 2
	code565 = 1
	codeRLE = 2
)

// FromCode returns the Format selected by a file-level pixel format word.
// Only the value 2 selects RGB555, everything else is RGB565.
func FromCode(code uint32) Format {
	if code == code555 {
		return RGB555
	}
	return RGB565
}

// Code returns the pixel format word to write for f. The run-length encoded
// C16 format sets an extra bit for 5-6-5 data.
func (f Format) Code(rle bool) uint32 {
	if f == RGB555 {
		return code555
	}
	if rle {
		return code565 | codeRLE
	}
	return code565
}

func (f Format) String() string {
	if f == RGB555 {
		return "555"
	}
	return "565"
}

// RGBA unpacks p into an opaque color.
func (f Format) RGBA(p uint16) color.RGBA {
	if f == RGB555 {
		return color.RGBA{
			uint8((p & 0x7c00) >> 7),
			uint8((p & 0x03e0) >> 2),
			uint8((p & 0x001f) << 3),
			0xff,
		}
	}
	return color.RGBA{
		uint8((p & 0xf800) >> 8),
		uint8((p & 0x07e0) >> 3),
		uint8((p & 0x001f) << 3),
		0xff,
	}
}

// Pack quantizes c to f by dropping the low bits of each channel. Alpha is
// ignored.
func (f Format) Pack(c color.Color) uint16 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	r, g, b := uint16(n.R), uint16(n.G), uint16(n.B)
	if f == RGB555 {
		return r>>3<<10 | g>>3<<5 | b>>3
	}
	return r>>3<<11 | g>>2<<5 | b>>3
}

// Model returns a color.Model that snaps colors to those representable in f.
func (f Format) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		if _, _, _, a := c.RGBA(); a == 0 {
			return color.RGBA{}
		}
		return f.RGBA(f.Pack(c))
	})
}
