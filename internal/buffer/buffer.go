// Package buffer provides a little-endian reader over an in-memory byte slice
// that supports absolute seeks, as needed by formats that address their
// payload by offset from the start of the file.
package buffer

import (
	"encoding/binary"

	"github.com/bodgit/pray/errs"
	"github.com/pkg/errors"
)

// Reader reads little-endian values from b starting at the current offset.
// Every read that would run past the end of b fails with errs.TruncatedInput
// and leaves the offset unchanged.
type Reader struct {
	b   []byte
	off int
}

// New returns a Reader positioned at the start of b.
func New(b []byte) *Reader {
	return &Reader{b: b}
}

// Offset returns the current absolute offset.
func (r *Reader) Offset() int {
	return r.off
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.b) - r.off
}

// Seek moves to the absolute offset off, which may equal the length of the
// buffer but not exceed it.
func (r *Reader) Seek(off int64) error {
	if off < 0 || off > int64(len(r.b)) {
		return errors.Wrapf(errs.TruncatedInput, "seek to %d past end of %d byte buffer", off, len(r.b))
	}
	r.off = int(off)
	return nil
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, errors.Wrapf(errs.TruncatedInput, "need %d bytes at offset %d, have %d", n, r.off, r.Len())
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Bytes returns the next n bytes. The returned slice aliases the buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.next(n)
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
