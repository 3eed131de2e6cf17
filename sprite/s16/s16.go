/*
Package s16 implements a decoder and encoder for the S16 sprite format.

An S16 file holds any number of independently sized, uncompressed frames. The
file starts with a 32-bit pixel format word and a 16-bit frame count. Each
frame has an 8 byte header; a 32-bit absolute offset to its pixel data and its
16-bit width and height. Pixels are 16-bit packed colors in row-major order.

Black is the transparent color; any pixel that decodes to pure black is given
an alpha of zero.
*/
package s16

const (
	headerSize      = 6
	frameHeaderSize = 8
)
