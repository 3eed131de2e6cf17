package pray

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bodgit/pray/internal/buffer"
	"github.com/pkg/errors"
)

const (
	idSize     = 4
	nameSize   = 128
	headerSize = idSize + nameSize + 4*3

	flagCompressed = 1
)

var (
	errBadID       = errors.New("pray: block id must be 4 bytes")
	errNameTooLong = errors.New("pray: block name longer than 127 bytes")
)

// Header is the fixed 144 byte header preceding every block. Name is
// everything before the first NUL of the name field; whatever follows it is
// padding and is discarded.
type Header struct {
	ID             string
	Name           string
	CompressedSize uint32
	Size           uint32
	Compressed     bool
}

func readHeader(r *buffer.Reader) (Header, error) {
	var h Header

	id, err := r.Bytes(idSize)
	if err != nil {
		return h, err
	}
	h.ID = string(id)

	name, err := r.Bytes(nameSize)
	if err != nil {
		return h, err
	}
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	h.Name = string(name)

	if h.CompressedSize, err = r.Uint32(); err != nil {
		return h, err
	}
	if h.Size, err = r.Uint32(); err != nil {
		return h, err
	}
	flags, err := r.Uint32()
	if err != nil {
		return h, err
	}
	h.Compressed = flags&flagCompressed != 0

	return h, nil
}

func (h Header) write(w io.Writer) error {
	if len(h.ID) != idSize {
		return errBadID
	}
	if len(h.Name) >= nameSize {
		return errNameTooLong
	}

	var raw struct {
		ID             [idSize]byte
		Name           [nameSize]byte
		CompressedSize uint32
		Size           uint32
		Flags          uint32
	}
	copy(raw.ID[:], h.ID)
	copy(raw.Name[:], h.Name)
	raw.CompressedSize = h.CompressedSize
	raw.Size = h.Size
	if h.Compressed {
		raw.Flags = flagCompressed
	}

	return binary.Write(w, binary.LittleEndian, &raw)
}
