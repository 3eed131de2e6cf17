/*
Package table implements the length-prefixed key/value table carried inside
PRAY tag blocks.

A table is a count of integer entries followed by that many entries, then a
count of string entries followed by that many entries. Every name and string
value is prefixed with its length and there is no padding:

	int_count:u32 { name_len:u32 name value:u32 }*
	str_count:u32 { name_len:u32 name value_len:u32 value }*

All integers are little-endian.
*/
package table

import (
	"bytes"
	"encoding/binary"

	"github.com/bodgit/pray/internal/buffer"
	"github.com/pkg/errors"
)

// Table is a decoded tag table. Later entries with the same name replace
// earlier ones.
type Table struct {
	Ints    map[string]uint32
	Strings map[string]string
}

// Int returns the integer value for name and whether it was present.
func (t *Table) Int(name string) (uint32, bool) {
	v, ok := t.Ints[name]
	return v, ok
}

// String returns the string value for name, or the empty string.
func (t *Table) String(name string) string {
	return t.Strings[name]
}

// readString consumes exactly n bytes, dropping any zero bytes rather than
// stopping at them.
func readString(r *buffer.Reader) (string, error) {
	n, err := r.Uint32()
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(b, 0) < 0 {
		return string(b), nil
	}
	s := make([]byte, 0, len(b))
	for _, c := range b {
		if c != 0 {
			s = append(s, c)
		}
	}
	return string(s), nil
}

// Read decodes a table from the start of b. Trailing bytes are ignored.
func Read(b []byte) (*Table, error) {
	r := buffer.New(b)
	t := &Table{
		Ints:    make(map[string]uint32),
		Strings: make(map[string]string),
	}

	count, err := r.Uint32()
	if err != nil {
		return nil, errors.Wrap(err, "table: integer count")
	}
	for i := uint32(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, errors.Wrapf(err, "table: integer %d name", i)
		}
		v, err := r.Uint32()
		if err != nil {
			return nil, errors.Wrapf(err, "table: integer %q", name)
		}
		t.Ints[name] = v
	}

	if count, err = r.Uint32(); err != nil {
		return nil, errors.Wrap(err, "table: string count")
	}
	for i := uint32(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, errors.Wrapf(err, "table: string %d name", i)
		}
		v, err := readString(r)
		if err != nil {
			return nil, errors.Wrapf(err, "table: string %q", name)
		}
		t.Strings[name] = v
	}

	return t, nil
}

type intEntry struct {
	name  string
	value uint32
}

type stringEntry struct {
	name, value string
}

// Builder accumulates table entries in the order they are added so the
// encoded bytes are deterministic.
type Builder struct {
	ints    []intEntry
	strings []stringEntry
}

// Int appends an integer entry.
func (b *Builder) Int(name string, value uint32) *Builder {
	b.ints = append(b.ints, intEntry{name, value})
	return b
}

// String appends a string entry.
func (b *Builder) String(name, value string) *Builder {
	b.strings = append(b.strings, stringEntry{name, value})
	return b
}

func writeString(w *bytes.Buffer, s string) {
	binary.Write(w, binary.LittleEndian, uint32(len(s)))
	w.WriteString(s)
}

// Bytes encodes the table.
func (b *Builder) Bytes() []byte {
	w := new(bytes.Buffer)

	binary.Write(w, binary.LittleEndian, uint32(len(b.ints)))
	for _, e := range b.ints {
		writeString(w, e.name)
		binary.Write(w, binary.LittleEndian, e.value)
	}

	binary.Write(w, binary.LittleEndian, uint32(len(b.strings)))
	for _, e := range b.strings {
		writeString(w, e.name)
		writeString(w, e.value)
	}

	return w.Bytes()
}
