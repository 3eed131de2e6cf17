package blk

import (
	"encoding/binary"
	"image"
	"image/draw"
	"io"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/pixel"
	"github.com/pkg/errors"
)

var errGrid = errors.New("blk: tile count does not match grid")

type fileHeader struct {
	Format uint32
	Cols   uint16
	Rows   uint16
	Count  uint16
}

type tileHeader struct {
	Offset uint32
	Width  uint16
	Height uint16
}

type encoder struct {
	w io.Writer
	f pixel.Format
}

func (e *encoder) encode(tiles []image.Image, cols, rows int) error {
	if err := binary.Write(e.w, binary.LittleEndian, fileHeader{
		Format: e.f.Code(false),
		Cols:   uint16(cols),
		Rows:   uint16(rows),
		Count:  uint16(len(tiles)),
	}); err != nil {
		return err
	}

	offset := headerSize + tileHeadSize*len(tiles)
	for range tiles {
		if err := binary.Write(e.w, binary.LittleEndian, tileHeader{
			Offset: uint32(offset - offsetBias),
			Width:  TileSize,
			Height: TileSize,
		}); err != nil {
			return err
		}
		offset += tileBytes
	}

	row := make([]uint16, TileSize)
	for _, m := range tiles {
		b := m.Bounds()
		for y := 0; y < TileSize; y++ {
			for x := 0; x < TileSize; x++ {
				c := m.At(b.Min.X+x, b.Min.Y+y)
				if _, _, _, a := c.RGBA(); a == 0 {
					row[x] = 0
					continue
				}
				row[x] = e.f.Pack(c)
			}
			if err := binary.Write(e.w, binary.LittleEndian, row); err != nil {
				return err
			}
		}
	}

	return nil
}

// Encode writes tiles to w as a BLK file of cols by rows tiles using pixel
// format f. Tiles must be in column-major order and each exactly 128 by 128.
func Encode(w io.Writer, tiles []image.Image, cols, rows int, f pixel.Format) error {
	if cols*rows != len(tiles) || len(tiles) > 0xffff {
		return errGrid
	}
	for i, m := range tiles {
		if b := m.Bounds(); b.Dx() != TileSize || b.Dy() != TileSize {
			return errors.Wrapf(errs.InvalidImageDimensions, "blk: tile %d is %dx%d", i, b.Dx(), b.Dy())
		}
	}

	e := encoder{w: w, f: f}

	return e.encode(tiles, cols, rows)
}

// Assemble composes tiles, stored a column at a time, into a single
// background image of cols by rows tiles.
func Assemble(tiles []*image.RGBA, cols, rows int) (*image.RGBA, error) {
	if cols*rows != len(tiles) {
		return nil, errGrid
	}
	m := image.NewRGBA(image.Rect(0, 0, cols*TileSize, rows*TileSize))
	for i, t := range tiles {
		x, y := i/rows, i%rows
		r := image.Rect(x*TileSize, y*TileSize, (x+1)*TileSize, (y+1)*TileSize)
		draw.Draw(m, r, t, t.Bounds().Min, draw.Src)
	}
	return m, nil
}

// Split cuts m into 128 by 128 tiles in column-major order, ready for Encode.
func Split(m image.Image) ([]image.Image, int, int, error) {
	b := m.Bounds()
	if b.Dx()%TileSize != 0 || b.Dy()%TileSize != 0 {
		return nil, 0, 0, errors.Wrapf(errs.InvalidImageDimensions, "blk: %dx%d is not a whole number of tiles", b.Dx(), b.Dy())
	}
	cols, rows := b.Dx()/TileSize, b.Dy()/TileSize

	tiles := make([]image.Image, 0, cols*rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			t := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
			draw.Draw(t, t.Bounds(), m, b.Min.Add(image.Pt(x*TileSize, y*TileSize)), draw.Src)
			tiles = append(tiles, t)
		}
	}
	return tiles, cols, rows, nil
}
