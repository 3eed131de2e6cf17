// Package sprite decodes any of the Creatures sprite formats based on the
// filename extension.
package sprite

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/sprite/blk"
	"github.com/bodgit/pray/sprite/c16"
	"github.com/bodgit/pray/sprite/s16"
	"github.com/pkg/errors"
)

// Extensions lists the recognised sprite file extensions.
var Extensions = []string{"blk", "c16", "s16"}

// Extension returns the lowercased extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsSprite reports whether filename has a sprite extension.
func IsSprite(filename string) bool {
	switch Extension(filename) {
	case "blk", "c16", "s16":
		return true
	}
	return false
}

// Decode decodes the frames of the sprite file b, choosing the codec from the
// extension of filename.
func Decode(filename string, b []byte) ([]*image.RGBA, error) {
	switch Extension(filename) {
	case "blk":
		return blk.Decode(b)
	case "c16":
		return c16.Decode(b)
	case "s16":
		return s16.Decode(b)
	default:
		return nil, errors.Wrapf(errs.UnsupportedFileType, "sprite: %s", filename)
	}
}
