/*
Package cache keeps decoded sprite frames in a SQLite database so repeated
scans of the same files do not decode them again.

Entries are keyed by the SHA1 of the sprite file contents plus its extension,
so renamed or duplicated files share an entry.
*/
package cache

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/ioutil"
	"log"

	"github.com/bodgit/pray/sprite"
	"github.com/fxamacker/cbor/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Cache is a sprite frame cache. It is safe for concurrent use.
type Cache struct {
	db     *sql.DB
	logger *log.Logger
}

type frame struct {
	Width  int    `cbor:"1,keyasint"`
	Height int    `cbor:"2,keyasint"`
	PNG    []byte `cbor:"3,keyasint,omitempty"`
}

type entry struct {
	Extension string  `cbor:"1,keyasint"`
	Frames    []frame `cbor:"2,keyasint"`
}

// New opens or creates the cache database at file. A nil logger discards
// output.
func New(file string, logger *log.Logger) (*Cache, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, extension TEXT NOT NULL, frames BLOB NOT NULL, UNIQUE(sha1, extension))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Len returns the number of cached sprites.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM sprite").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Sprite returns the decoded frames of the sprite file b. The codec is
// chosen from the extension of filename, as with sprite.Decode.
func (c *Cache) Sprite(filename string, b []byte) ([]*image.RGBA, error) {
	ext := sprite.Extension(filename)
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var blob []byte
	switch err := c.db.QueryRow("SELECT frames FROM sprite WHERE sha1 = ? AND extension = ?", sha, ext).Scan(&blob); err {
	case sql.ErrNoRows:
		c.logger.Printf("Cache miss for \"%s\", with SHA1 \"%s\"\n", filename, sha)

		frames, err := sprite.Decode(filename, b)
		if err != nil {
			return nil, err
		}

		blob, err := marshalFrames(ext, frames)
		if err != nil {
			return nil, err
		}

		// Another worker may have stored the same sprite meanwhile
		if _, err := c.db.Exec("INSERT OR IGNORE INTO sprite (sha1, extension, frames) VALUES (?, ?, ?)", sha, ext, blob); err != nil {
			return nil, err
		}

		return frames, nil
	case nil:
		return unmarshalFrames(blob)
	default:
		return nil, err
	}
}

func marshalFrames(ext string, frames []*image.RGBA) ([]byte, error) {
	e := entry{
		Extension: ext,
		Frames:    make([]frame, 0, len(frames)),
	}
	for _, m := range frames {
		f := frame{Width: m.Rect.Dx(), Height: m.Rect.Dy()}
		// PNG cannot hold an empty image
		if !m.Rect.Empty() {
			b := new(bytes.Buffer)
			if err := png.Encode(b, m); err != nil {
				return nil, err
			}
			f.PNG = b.Bytes()
		}
		e.Frames = append(e.Frames, f)
	}
	return cbor.Marshal(&e)
}

func unmarshalFrames(blob []byte) ([]*image.RGBA, error) {
	var e entry
	if err := cbor.Unmarshal(blob, &e); err != nil {
		return nil, errors.Wrap(err, "cache: corrupt entry")
	}

	frames := make([]*image.RGBA, 0, len(e.Frames))
	for _, f := range e.Frames {
		m := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		if len(f.PNG) > 0 {
			p, err := png.Decode(bytes.NewReader(f.PNG))
			if err != nil {
				return nil, errors.Wrap(err, "cache: corrupt frame")
			}
			draw.Draw(m, m.Rect, p, p.Bounds().Min, draw.Src)
		}
		frames = append(frames, m)
	}
	return frames, nil
}
