package blk

import (
	"encoding/binary"
	"image"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/internal/buffer"
	"github.com/bodgit/pray/pixel"
	"github.com/pkg/errors"
)

// Config describes a BLK file without its pixel data.
type Config struct {
	Format pixel.Format
	Cols   int
	Rows   int
	Count  int
}

type decoder struct {
	r *buffer.Reader

	config  Config
	offsets []uint32
	frames  []*image.RGBA
}

func (d *decoder) readHeader() error {
	code, err := d.r.Uint32()
	if err != nil {
		return err
	}
	d.config.Format = pixel.FromCode(code)

	var v [3]uint16
	for i := range v {
		if v[i], err = d.r.Uint16(); err != nil {
			return err
		}
	}
	d.config.Cols, d.config.Rows, d.config.Count = int(v[0]), int(v[1]), int(v[2])

	d.offsets = make([]uint32, d.config.Count)
	for i := range d.offsets {
		offset, err := d.r.Uint32()
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
		if width != TileSize || height != TileSize {
			return errors.Wrapf(errs.InvalidImageDimensions, "blk: tile %d is %dx%d", i, width, height)
		}
		d.offsets[i] = offset + offsetBias
	}
	return nil
}

func (d *decoder) readTile(offset uint32) (*image.RGBA, error) {
	if err := d.r.Seek(int64(offset)); err != nil {
		return nil, errors.Wrap(errs.InvalidPixelData, err.Error())
	}
	b, err := d.r.Bytes(tileBytes)
	if err != nil {
		return nil, errors.Wrap(errs.InvalidPixelData, err.Error())
	}

	m := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	for i := 0; i < tilePixels; i++ {
		c := d.config.Format.RGBA(binary.LittleEndian.Uint16(b[i*2:]))
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

	d.frames = make([]*image.RGBA, 0, len(d.offsets))
	for i, offset := range d.offsets {
		m, err := d.readTile(offset)
		if err != nil {
			return errors.Wrapf(err, "blk: tile %d", i)
		}
		d.frames = append(d.frames, m)
	}
	return nil
}

// Decode reads every tile of the BLK file b. Tile offsets are absolute
// positions within b.
func Decode(b []byte) ([]*image.RGBA, error) {
	var d decoder
	if err := d.decode(b, false); err != nil {
		return nil, err
	}
	return d.frames, nil
}

// DecodeConfig returns the pixel format, grid and tile count of the BLK file b
// without decoding any pixel data.
func DecodeConfig(b []byte) (Config, error) {
	var d decoder
	if err := d.decode(b, true); err != nil {
		return Config{}, err
	}
	return d.config, nil
}
