/*
Package c16 implements a decoder and encoder for the C16 sprite format.

A C16 file holds any number of independently sized frames whose scanlines are
run-length encoded. The file starts with a 32-bit pixel format word and a
16-bit frame count. Each frame header is variable length: the absolute offset
of the first scanline, the 16-bit width and height, then the absolute offsets
of the remaining height-1 scanlines.

Each scanline is a sequence of runs. A run starts with a 16-bit header whose
low bit gives the run type (0 transparent, 1 color) and whose upper 15 bits
give the run length in pixels. Color runs are followed by that many 16-bit
packed pixels, transparent runs carry no payload. The run lengths of a
scanline add up to exactly the frame width. Writers terminate every scanline
with a zero header and every frame with a further zero header; readers seek
to each scanline and do not rely on either.
*/
package c16

const (
	headerSize = 6

	runTransparent = 0
	runColor       = 1
	maxRun         = 0x7fff
)
