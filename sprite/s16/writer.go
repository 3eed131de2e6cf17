package s16

import (
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/pray/pixel"
	"github.com/pkg/errors"
)

var errTooBig = errors.New("s16: too many frames or frame too large")

type encoder struct {
	w io.Writer
	f pixel.Format
}

func (e *encoder) encode(frames []image.Image) error {
	if err := binary.Write(e.w, binary.LittleEndian, e.f.Code(false)); err != nil {
		return err
	}
	if err := binary.Write(e.w, binary.LittleEndian, uint16(len(frames))); err != nil {
		return err
	}

	offset := headerSize + frameHeaderSize*len(frames)
	for _, m := range frames {
		b := m.Bounds()
		if err := binary.Write(e.w, binary.LittleEndian, struct {
			Offset        uint32
			Width, Height uint16
		}{uint32(offset), uint16(b.Dx()), uint16(b.Dy())}); err != nil {
			return err
		}
		offset += b.Dx() * b.Dy() * 2
	}

	for _, m := range frames {
		b := m.Bounds()
		row := make([]uint16, b.Dx())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := m.At(x, y)
				if _, _, _, a := c.RGBA(); a == 0 {
					row[x-b.Min.X] = 0
					continue
				}
				row[x-b.Min.X] = e.f.Pack(c)
			}
			if err := binary.Write(e.w, binary.LittleEndian, row); err != nil {
				return err
			}
		}
	}

	return nil
}

// Encode writes frames to w as an S16 file using pixel format f. Transparent
// pixels are written as black.
func Encode(w io.Writer, frames []image.Image, f pixel.Format) error {
	if len(frames) > 0xffff {
		return errTooBig
	}
	for _, m := range frames {
		if b := m.Bounds(); b.Dx() > 0xffff || b.Dy() > 0xffff {
			return errTooBig
		}
	}

	e := encoder{w: w, f: f}

	return e.encode(frames)
}
