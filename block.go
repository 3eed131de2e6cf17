package pray

import (
	"strings"

	"github.com/bodgit/pray/errs"
	"github.com/pkg/errors"
)

// Block is one of *Agent, *Egg, *GardenBox, *File or *Generic.
type Block interface {
	// BlockID returns the four character block type.
	BlockID() string
	// BlockName returns the name stored in the block header.
	BlockName() string

	block()
}

// Tag is a block that is encoded in the order given, that is every block
// other than *File.
type Tag interface {
	Block

	// marshal returns the block payload and whether it should be
	// compressed. Scripts are looked up by filename in files.
	marshal(files map[string]*File) ([]byte, bool, error)
}

const (
	idAgent     = "AGNT"
	idDSAgent   = "DSAG"
	idEgg       = "EGGS"
	idGardenBox = "DSGB"
	idFile      = "FILE"
)

// File is a named file carried in the archive, either as a FILE block or as
// a script inlined in a tag block.
type File struct {
	Name      string
	Extension string
	Data      []byte
}

var fileExtensions = map[string]struct{}{
	"att":       {},
	"blk":       {},
	"c16":       {},
	"catalogue": {},
	"cos":       {},
	"gen":       {},
	"gno":       {},
	"mng":       {},
	"s16":       {},
	"wav":       {},
}

func splitFilename(filename string) (string, string) {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[:i], filename[i+1:]
	}
	return filename, ""
}

// NewFile returns a File for filename and its contents. It fails with
// errs.UnsupportedFileType unless the extension is one the game loads from
// an agent archive.
func NewFile(filename string, data []byte) (*File, error) {
	name, ext := splitFilename(filename)
	if _, ok := fileExtensions[strings.ToLower(ext)]; !ok || name == "" {
		return nil, errors.Wrapf(errs.UnsupportedFileType, "pray: %q", filename)
	}
	return &File{Name: name, Extension: ext, Data: data}, nil
}

// Filename returns the name and extension joined with a dot. Files are
// identified by their filename.
func (f *File) Filename() string {
	if f.Extension == "" {
		return f.Name
	}
	return f.Name + "." + f.Extension
}

// IsScript reports whether the file is a CAOS script.
func (f *File) IsScript() bool {
	return strings.EqualFold(f.Extension, "cos")
}

// BlockID implements Block.
func (f *File) BlockID() string { return idFile }

// BlockName implements Block.
func (f *File) BlockName() string { return f.Filename() }

func (*File) block() {}

// Generic is a block of a type the codec does not interpret. Its payload is
// kept verbatim, decompressed.
type Generic struct {
	ID         string
	Name       string
	Data       []byte
	Compressed bool
}

// BlockID implements Block.
func (g *Generic) BlockID() string { return g.ID }

// BlockName implements Block.
func (g *Generic) BlockName() string { return g.Name }

func (*Generic) block() {}

func (g *Generic) marshal(map[string]*File) ([]byte, bool, error) {
	return g.Data, g.Compressed, nil
}
