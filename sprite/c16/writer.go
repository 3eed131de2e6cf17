package c16

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"

	"github.com/bodgit/pray/pixel"
	"github.com/pkg/errors"
)

var errTooBig = errors.New("c16: too many frames or frame too large")

type encoder struct {
	w io.Writer
	f pixel.Format
}

func transparent(m image.Image, x, y int) bool {
	_, _, _, a := m.At(x, y).RGBA()
	return a == 0
}

// scanline run-length encodes row y of m, greedily taking the longest run of
// pixels sharing the same transparency.
func (e *encoder) scanline(m image.Image, y int) []byte {
	b := m.Bounds()
	out := new(bytes.Buffer)
	for x := b.Min.X; x < b.Max.X; {
		t := transparent(m, x, y)
		n := 1
		for x+n < b.Max.X && n < maxRun && transparent(m, x+n, y) == t {
			n++
		}

		if t {
			binary.Write(out, binary.LittleEndian, uint16(n<<1|runTransparent))
		} else {
			binary.Write(out, binary.LittleEndian, uint16(n<<1|runColor))
			for i := 0; i < n; i++ {
				binary.Write(out, binary.LittleEndian, e.f.Pack(m.At(x+i, y)))
			}
		}
		x += n
	}
	binary.Write(out, binary.LittleEndian, uint16(0))
	return out.Bytes()
}

func frameHeaderSize(m image.Image) int {
	if h := m.Bounds().Dy(); h > 1 {
		return 8 + 4*(h-1)
	}
	return 8
}

func (e *encoder) encode(frames []image.Image) error {
	if err := binary.Write(e.w, binary.LittleEndian, e.f.Code(true)); err != nil {
		return err
	}
	if err := binary.Write(e.w, binary.LittleEndian, uint16(len(frames))); err != nil {
		return err
	}

	offset := headerSize
	for _, m := range frames {
		offset += frameHeaderSize(m)
	}

	// Encode everything up front so the scanline offsets are known
	lines := make([][][]byte, len(frames))
	for i, m := range frames {
		b := m.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			lines[i] = append(lines[i], e.scanline(m, y))
		}
	}

	for i, m := range frames {
		b := m.Bounds()
		offsets := make([]uint32, 0, len(lines[i]))
		for _, l := range lines[i] {
			offsets = append(offsets, uint32(offset))
			offset += len(l)
		}
		if len(offsets) == 0 {
			offsets = append(offsets, uint32(offset))
		}
		// End of frame marker
		offset += 2

		if err := binary.Write(e.w, binary.LittleEndian, offsets[0]); err != nil {
			return err
		}
		if err := binary.Write(e.w, binary.LittleEndian, []uint16{uint16(b.Dx()), uint16(b.Dy())}); err != nil {
			return err
		}
		if err := binary.Write(e.w, binary.LittleEndian, offsets[1:]); err != nil {
			return err
		}
	}

	for i := range frames {
		for _, l := range lines[i] {
			if _, err := e.w.Write(l); err != nil {
				return err
			}
		}
		if _, err := e.w.Write([]byte{0, 0}); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes frames to w as a C16 file using pixel format f. Pixels with
// zero alpha become transparent runs, everything else is stored opaque.
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
