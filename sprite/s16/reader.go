package s16

import (
	"encoding/binary"
	"image"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/internal/buffer"
	"github.com/bodgit/pray/pixel"
	"github.com/pkg/errors"
)

// Config describes an S16 file without its pixel data.
type Config struct {
	Format pixel.Format
	Sizes  []image.Point
}

type frameHeader struct {
	offset uint32
	size   image.Point
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
		if d.headers[i].offset, err = d.r.Uint32(); err != nil {
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
		d.headers[i].size = image.Pt(int(width), int(height))
	}
	return nil
}

func (d *decoder) readFrame(h frameHeader) (*image.RGBA, error) {
	if err := d.r.Seek(int64(h.offset)); err != nil {
		return nil, errors.Wrap(errs.InvalidPixelData, err.Error())
	}
	n := h.size.X * h.size.Y
	b, err := d.r.Bytes(n * 2)
	if err != nil {
		return nil, errors.Wrap(errs.InvalidPixelData, err.Error())
	}

	m := image.NewRGBA(image.Rectangle{Max: h.size})
	for i := 0; i < n; i++ {
		c := d.format.RGBA(binary.LittleEndian.Uint16(b[i*2:]))
		if c.R == 0 && c.G == 0 && c.B == 0 {
			c.A = 0
		}
		m.Pix[i*4+0] = c.R
		m.Pix[i*4+1] = c.G
		m.Pix[i*4+2] = c.B
		m.Pix[i*4+3] = c.A
	}
	return m, nil
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
		m, err := d.readFrame(h)
		if err != nil {
			return errors.Wrapf(err, "s16: frame %d", i)
		}
		d.frames = append(d.frames, m)
	}
	return nil
}

// Decode reads every frame of the S16 file b. Frame offsets are absolute
// positions within b.
func Decode(b []byte) ([]*image.RGBA, error) {
	var d decoder
	if err := d.decode(b, false); err != nil {
		return nil, err
	}
	return d.frames, nil
}

// DecodeConfig returns the pixel format and frame sizes of the S16 file b
// without decoding any pixel data.
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
