/*
Package blk implements a decoder and encoder for the BLK background format.

A BLK file is a grid of uncompressed 128 by 128 pixel tiles. The file starts
with a 32-bit pixel format word followed by the number of tile columns and
rows and the total number of tiles, all as 16-bit values. Each tile then has
an 8 byte header; a 32-bit offset to its pixel data and its width and height
which must both be 128. The stored offset does not count the leading pixel
format word so the data actually starts four bytes later. Pixels are 16-bit
packed colors in row-major order and are always opaque.

Tiles are stored a column at a time, so tile i sits at column i / rows and
row i % rows of the background.
*/
package blk

const (
	// TileSize is the width and height of every tile.
	TileSize = 128

	tilePixels   = TileSize * TileSize
	tileBytes    = tilePixels * 2
	headerSize   = 10
	tileHeadSize = 8
	offsetBias   = 4
)
