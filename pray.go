/*
Package pray implements the PRAY archive format used to package agents for
Creatures 3 and Docking Station.

An archive is the four bytes "PRAY" followed by a sequence of blocks. Every
block starts with a 144 byte header; a four character block type, a 128 byte
NUL-padded name, the stored and original sizes of the payload as 32-bit
values and a 32-bit flags word where bit 0 marks the payload as
zlib-compressed. All integers are little-endian.

Agent (AGNT, DSAG), egg (EGGS) and garden box (DSGB) blocks carry a tag table
describing the object and naming the files it depends on, with any CAOS
scripts inlined. FILE blocks carry those files. Anything else is kept as an
opaque Generic block.

Decoding and encoding work entirely in memory and hold no state between
calls so they are safe to use concurrently.
*/
package pray

import (
	"bytes"
	"strings"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/internal/buffer"
	"github.com/pkg/errors"
)

// Magic is the signature every archive starts with.
const Magic = "PRAY"

// Archive is a decoded PRAY archive. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Archive struct {
	// Blocks holds every block in archive order.
	Blocks []Block
	// Files holds the contents of every FILE block plus the scripts lifted
	// out of tag blocks.
	Files []*File
}

// Tags returns every block other than FILE blocks, in archive order.
func (a *Archive) Tags() []Tag {
	var tags []Tag
	for _, b := range a.Blocks {
		if t, ok := b.(Tag); ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// File returns the file with the given filename, or nil.
func (a *Archive) File(filename string) *File {
	for _, f := range a.Files {
		if f.Filename() == filename {
			return f
		}
	}
	return nil
}

// MarshalBinary encodes the archive.
func (a *Archive) MarshalBinary() ([]byte, error) {
	return Encode(a.Tags(), a.Files)
}

// UnmarshalBinary replaces the archive with the decoded contents of b.
func (a *Archive) UnmarshalBinary(b []byte) error {
	n, err := Decode(b)
	if err != nil {
		return err
	}
	*a = *n
	return nil
}

func readMagic(r *buffer.Reader) error {
	magic, err := r.Bytes(len(Magic))
	if err != nil || string(magic) != Magic {
		return errs.InvalidMagic
	}
	return nil
}

type rawBlock struct {
	Header
	payload []byte
}

// walk calls fn for every block in b with its payload as stored.
func walk(b []byte, fn func(rawBlock) error) error {
	r := buffer.New(b)

	if err := readMagic(r); err != nil {
		return err
	}

	for r.Len() > 0 {
		h, err := readHeader(r)
		if err != nil {
			return errors.Wrapf(err, "pray: block header at offset %d", r.Offset())
		}
		payload, err := r.Bytes(int(h.CompressedSize))
		if err != nil {
			return errors.Wrapf(err, "pray: block %q %s", h.ID, h.Name)
		}
		if err := fn(rawBlock{h, payload}); err != nil {
			return err
		}
	}

	return nil
}

// Headers returns the header of every block in b without decoding any
// payloads.
func Headers(b []byte) ([]Header, error) {
	var headers []Header
	if err := walk(b, func(rb rawBlock) error {
		headers = append(headers, rb.Header)
		return nil
	}); err != nil {
		return nil, err
	}
	return headers, nil
}

func (a *Archive) decodeBlock(h Header, payload []byte) error {
	switch h.ID {
	case idAgent, idDSAgent:
		game := Creatures3
		if h.ID == idDSAgent {
			game = DockingStation
		}
		agent, scripts, err := decodeAgent(h.Name, game, payload)
		if err != nil {
			return err
		}
		a.Blocks = append(a.Blocks, agent)
		a.Files = append(a.Files, scripts...)
	case idEgg:
		egg, err := decodeEgg(h.Name, payload)
		if err != nil {
			return err
		}
		a.Blocks = append(a.Blocks, egg)
	case idGardenBox:
		gb, scripts, err := decodeGardenBox(h.Name, payload)
		if err != nil {
			return err
		}
		a.Blocks = append(a.Blocks, gb)
		a.Files = append(a.Files, scripts...)
	case idFile:
		name, ext := splitFilename(h.Name)
		f := &File{Name: name, Extension: ext, Data: payload}
		a.Blocks = append(a.Blocks, f)
		a.Files = append(a.Files, f)
	default:
		a.Blocks = append(a.Blocks, &Generic{
			ID:         h.ID,
			Name:       h.Name,
			Data:       payload,
			Compressed: h.Compressed,
		})
	}
	return nil
}

// Decode decodes the archive in b. Any error aborts the whole decode.
func Decode(b []byte) (*Archive, error) {
	a := new(Archive)

	if err := walk(b, func(rb rawBlock) error {
		// Decoded blocks never alias b
		payload := append([]byte(nil), rb.payload...)
		if rb.Compressed {
			var err error
			if payload, err = inflate(payload, rb.Size); err != nil {
				return errors.Wrapf(err, "pray: block %q %s", rb.ID, rb.Name)
			}
		}
		if err := a.decodeBlock(rb.Header, payload); err != nil {
			return errors.Wrapf(err, "pray: block %q %s", rb.ID, rb.Name)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return a, nil
}

func writeBlock(w *bytes.Buffer, id, name string, data []byte, compress bool) error {
	h := Header{
		ID:             id,
		Name:           name,
		CompressedSize: uint32(len(data)),
		Size:           uint32(len(data)),
		Compressed:     compress,
	}

	if compress {
		z, err := deflate(data)
		if err != nil {
			return err
		}
		h.CompressedSize = uint32(len(z))
		data = z
	}

	if err := h.write(w); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// Encode builds an archive from tags, in order, followed by a FILE block for
// every file that is not a script. Scripts are inlined into the tags that
// depend on them instead. FILE blocks are always compressed.
func Encode(tags []Tag, files []*File) ([]byte, error) {
	pool := make(map[string]*File, len(files))
	for _, f := range files {
		if _, ok := pool[f.Filename()]; !ok {
			pool[f.Filename()] = f
		}
	}

	w := new(bytes.Buffer)
	w.WriteString(Magic)

	for _, t := range tags {
		data, compress, err := t.marshal(pool)
		if err != nil {
			return nil, errors.Wrapf(err, "pray: block %q %s", t.BlockID(), t.BlockName())
		}
		if err := writeBlock(w, t.BlockID(), t.BlockName(), data, compress); err != nil {
			return nil, errors.Wrapf(err, "pray: block %q %s", t.BlockID(), t.BlockName())
		}
	}

	written := make(map[string]struct{}, len(files))
	for _, f := range files {
		if f.IsScript() {
			continue
		}
		if _, ok := written[f.Filename()]; ok {
			continue
		}
		written[f.Filename()] = struct{}{}

		if err := writeBlock(w, idFile, f.Filename(), f.Data, true); err != nil {
			return nil, errors.Wrapf(err, "pray: file %s", f.Filename())
		}
	}

	return w.Bytes(), nil
}

// Dependencies returns the dependency list of a tag, or nil for tags that
// have none.
func Dependencies(t Tag) []string {
	switch t := t.(type) {
	case *Agent:
		return t.Dependencies
	case *Egg:
		return t.Dependencies
	case *GardenBox:
		return t.Dependencies
	}
	return nil
}

// IsSourceFile reports whether filename has an extension NewFile accepts.
func IsSourceFile(filename string) bool {
	_, ext := splitFilename(filename)
	_, ok := fileExtensions[strings.ToLower(ext)]
	return ok
}
