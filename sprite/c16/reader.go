package c16

import (
	"encoding/binary"
	"image"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/internal/buffer"
	"github.com/bodgit/pray/pixel"
	"github.com/pkg/errors"
)

// Config describes a C16 file without its pixel data.
type Config struct {
	Format pixel.Format
	Sizes  []image.Point
}

type frameHeader struct {
	offsets []uint32
	size    image.Point
}

type decoder struct {
	r *buffer.Reader

	format  pixel.Format
	headers []frameHeader
	frames  []*image.RGBA
}

func (d *decoder) readHeader() error {
	code, err := d.r.Uint32()
	if err != nil {
		return err
	}
	d.format = pixel.FromCode(code)

	count, err := d.r.Uint16()
	if err != nil {
		return err
	}

	d.headers = make([]frameHeader, count)
	for i := range d.headers {
		first, err := d.r.Uint32()
		if err != nil {
			return err
		}
		width, err := d.r.Uint16()
		if err != nil {
			return err
		}
		height, err := d.r.Uint16()
		if err != nil {
			return err
		}

		h := frameHeader{size: image.Pt(int(width), int(height))}
		if height > 0 {
			h.offsets = make([]uint32, height)
			h.offsets[0] = first
			for y := 1; y < int(height); y++ {
				if h.offsets[y], err = d.r.Uint32(); err != nil {
					return err
				}
			}
		}
		d.headers[i] = h
	}
	return nil
}

func (d *decoder) readScanline(m *image.RGBA, y int, offset uint32) error {
	if err := d.r.Seek(int64(offset)); err != nil {
		return errors.Wrap(errs.InvalidPixelData, err.Error())
	}

	width := m.Rect.Dx()
	for x := 0; x < width; {
		run, err := d.r.Uint16()
		if err != nil {
			return errors.Wrap(errs.InvalidPixelData, err.Error())
		}

		length := int(run >> 1)
		switch {
		case length == 0:
			return errors.Wrapf(errs.InvalidPixelData, "zero length run at x=%d", x)
		case x+length > width:
			return errors.Wrapf(errs.InvalidPixelData, "run of %d at x=%d overruns width %d", length, x, width)
		}

		if run&1 == runColor {
			b, err := d.r.Bytes(length * 2)
			if err != nil {
				return errors.Wrap(errs.InvalidPixelData, err.Error())
			}
			for i := 0; i < length; i++ {
				m.SetRGBA(x+i, y, d.format.RGBA(binary.LittleEndian.Uint16(b[i*2:])))
			}
		}
		// Transparent runs are already zero

		x += length
	}
	return nil
}

func (d *decoder) decode(b []byte, configOnly bool) error {
	d.r = buffer.New(b)

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	d.frames = make([]*image.RGBA, 0, len(d.headers))
	for i, h := range d.headers {
		m := image.NewRGBA(image.Rectangle{Max: h.size})
		for y, offset := range h.offsets {
			if err := d.readScanline(m, y, offset); err != nil {
				return errors.Wrapf(err, "c16: frame %d scanline %d", i, y)
			}
		}
		d.frames = append(d.frames, m)
	}
	return nil
}

// Decode reads every frame of the C16 file b. Scanline offsets are absolute
// positions within b.
func Decode(b []byte) ([]*image.RGBA, error) {
	var d decoder
	if err := d.decode(b, false); err != nil {
		return nil, err
	}
	return d.frames, nil
}

// DecodeConfig returns the pixel format and frame sizes of the C16 file b
// without decoding any scanlines.
func DecodeConfig(b []byte) (Config, error) {
	var d decoder
	if err := d.decode(b, true); err != nil {
		return Config{}, err
	}
	config := Config{Format: d.format, Sizes: make([]image.Point, len(d.headers))}
	for i, h := range d.headers {
		config.Sizes[i] = h.size
	}
	return config, nil
}
