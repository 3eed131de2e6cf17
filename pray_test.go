package pray

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBlockBytes(t *testing.T, h Header, payload []byte) []byte {
	b := new(bytes.Buffer)
	require.NoError(t, h.write(b))
	b.Write(payload)
	return b.Bytes()
}

func archive(blocks ...[]byte) []byte {
	return append([]byte(Magic), bytes.Join(blocks, nil)...)
}

// payloads returns the decompressed payload of every block in b
func payloads(t *testing.T, b []byte) map[string][]byte {
	m := make(map[string][]byte)
	require.NoError(t, walk(b, func(rb rawBlock) error {
		p := rb.payload
		if rb.Compressed {
			var err error
			p, err = inflate(p, rb.Size)
			require.NoError(t, err)
		}
		m[rb.ID+":"+rb.Name] = p
		return nil
	}))
	return m
}

func fixtureTags() ([]Tag, []*File) {
	tags := []Tag{
		&Agent{
			Name:             "Ball",
			Game:             Creatures3,
			Bioenergy:        10,
			AnimationFile:    "ball.c16",
			AnimationGallery: "ball",
			AnimationString:  "0",
			RemoveScript:     "rtar 2 21 1000 kill targ",
			Dependencies:     []string{"ball.c16", "ball.wav", "Ball.cos"},
		},
		&Agent{
			Name: "Toy",
			Game: DockingStation,
			Descriptions: map[Language]string{
				English: "A toy",
				German:  "Ein Spielzeug",
			},
			WebLabel:         "Home",
			WebURL:           "http://example.com",
			AnimationFile:    "toy.c16",
			AnimationGallery: "toy",
			AnimationString:  "1",
			SpriteFirstImage: 4,
			Dependencies:     []string{"toy.c16", "toy.catalogue", "Toy 1.cos", "Toy 2.cos"},
		},
		&Generic{ID: "GLST", Name: "history", Data: []byte("hello"), Compressed: true},
		&Egg{
			Name:            "Bengal Egg",
			Genetics:        "norn.bengal46.gen",
			Mother:          "mum.gen",
			MaleSprite:      "male.c16",
			FemaleSprite:    "female.c16",
			AnimationString: "0 1 2",
			Dependencies:    []string{"male.c16", "female.c16", "norn.bengal46.gen"},
		},
		&GardenBox{
			Name:             "Box",
			Description:      "A box",
			Author:           "Someone",
			Category:         Toy,
			AnimationFile:    "box.c16",
			SpriteFirstImage: 3,
			RemoveScript:     "enum 2 21 9000 kill targ next",
			Dependencies:     []string{"box.c16", "Box.cos"},
		},
	}

	files := []*File{
		{Name: "ball", Extension: "c16", Data: []byte{1, 2, 3}},
		{Name: "ball", Extension: "wav", Data: []byte{4, 5}},
		{Name: "Ball", Extension: "cos", Data: []byte("new: simp 2 21 1000 \"ball\" 1 0 0")},
		{Name: "toy", Extension: "c16", Data: []byte{6}},
		{Name: "toy", Extension: "catalogue", Data: []byte("TAG \"toy\"")},
		{Name: "Toy 1", Extension: "cos", Data: []byte("inst")},
		{Name: "Toy 2", Extension: "cos", Data: []byte("scrp 2 21 1001 1 endm")},
		{Name: "male", Extension: "c16", Data: []byte{7}},
		{Name: "female", Extension: "c16", Data: []byte{8}},
		{Name: "norn.bengal46", Extension: "gen", Data: []byte{9, 9}},
		{Name: "box", Extension: "c16", Data: []byte{10}},
		{Name: "Box", Extension: "cos", Data: []byte("endm")},
	}

	return tags, files
}

func filesByName(files []*File) map[string][]byte {
	m := make(map[string][]byte)
	for _, f := range files {
		m[f.Filename()] = f.Data
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	tags, files := fixtureTags()

	b, err := Encode(tags, files)
	require.NoError(t, err)

	a, err := Decode(b)
	require.NoError(t, err)

	assert.Equal(t, tags, a.Tags())
	assert.Equal(t, filesByName(files), filesByName(a.Files))

	// Decoding what was re-encoded gives the same logical content
	b2, err := a.MarshalBinary()
	require.NoError(t, err)

	var a2 Archive
	require.NoError(t, a2.UnmarshalBinary(b2))
	assert.Equal(t, a.Tags(), a2.Tags())
	assert.Equal(t, filesByName(a.Files), filesByName(a2.Files))
}

func TestEncodeLayout(t *testing.T) {
	tags, files := fixtureTags()

	b, err := Encode(tags, files)
	require.NoError(t, err)
	assert.Equal(t, Magic, string(b[:4]))

	headers, err := Headers(b)
	require.NoError(t, err)

	var ids, names []string
	for _, h := range headers {
		ids = append(ids, h.ID)
		names = append(names, h.Name)
		assert.Equal(t, h.ID == idFile || h.ID == "GLST", h.Compressed, h.Name)
	}

	// Tags in order, then every non-script file
	assert.Equal(t, []string{"AGNT", "DSAG", "GLST", "EGGS", "DSGB", "FILE", "FILE", "FILE", "FILE", "FILE", "FILE", "FILE", "FILE"}, ids)
	assert.Equal(t, []string{"Ball", "Toy", "history", "Bengal Egg", "Box", "ball.c16", "ball.wav", "toy.c16", "toy.catalogue", "male.c16", "female.c16", "norn.bengal46.gen", "box.c16"}, names)
}

func TestEncodeDuplicateFiles(t *testing.T) {
	files := []*File{
		{Name: "a", Extension: "c16", Data: []byte{1}},
		{Name: "a", Extension: "c16", Data: []byte{2}},
	}
	b, err := Encode(nil, files)
	require.NoError(t, err)

	a, err := Decode(b)
	require.NoError(t, err)
	require.Len(t, a.Files, 1)
	assert.Equal(t, []byte{1}, a.File("a.c16").Data)
}

func TestEncodeMissingScript(t *testing.T) {
	tags := []Tag{&Agent{Name: "Ball", Dependencies: []string{"Ball.cos"}}}
	_, err := Encode(tags, nil)
	assert.True(t, errors.Is(err, errs.MissingFile))
}

func TestEncodeNameTooLong(t *testing.T) {
	tags := []Tag{&Agent{Name: string(bytes.Repeat([]byte{'a'}, 128))}}
	_, err := Encode(tags, nil)
	assert.True(t, errors.Is(err, errNameTooLong))

	tags = []Tag{&Agent{Name: string(bytes.Repeat([]byte{'a'}, 127))}}
	_, err = Encode(tags, nil)
	assert.NoError(t, err)
}

func TestBallScenario(t *testing.T) {
	tags := []Tag{&Agent{Name: "Ball", Game: DockingStation, Dependencies: []string{"ball.c16"}}}
	files := []*File{{Name: "ball", Extension: "c16", Data: []byte{0}}}

	b, err := Encode(tags, files)
	require.NoError(t, err)

	tbl, err := table.Read(payloads(t, b)["DSAG:Ball"])
	require.NoError(t, err)

	assert.Equal(t, uint32(0), tbl.Ints["Agent Type"])
	assert.Equal(t, uint32(0), tbl.Ints["Script Count"])
	assert.Equal(t, uint32(1), tbl.Ints["Dependency Count"])
	assert.Equal(t, uint32(2), tbl.Ints["Dependency Category 1"])
	assert.Equal(t, "ball.c16", tbl.Strings["Dependency 1"])
	assert.NotContains(t, tbl.Ints, "Agent Bioenergy Value")
}

func TestEncodeUnpooledDependency(t *testing.T) {
	tags := []Tag{&Agent{Name: "Ball", Game: DockingStation, Dependencies: []string{"missing.c16"}}}

	b, err := Encode(tags, nil)
	require.NoError(t, err)

	a, err := Decode(b)
	require.NoError(t, err)
	assert.Empty(t, Dependencies(a.Tags()[0]))
	assert.Empty(t, a.Files)
}

func TestDecodeHugeDependencyCount(t *testing.T) {
	payload := new(table.Builder).Int("Dependency Count", 0xffffffff).Bytes()

	for _, id := range []string{idAgent, idDSAgent, idEgg, idGardenBox} {
		b := archive(rawBlockBytes(t, Header{ID: id, Name: "x", CompressedSize: uint32(len(payload)), Size: uint32(len(payload))}, payload))
		a, err := Decode(b)
		assert.True(t, errors.Is(err, errs.TruncatedInput), id)
		assert.Nil(t, a)
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	for _, b := range [][]byte{nil, []byte("PRA"), []byte("pray"), []byte("PNG\x00")} {
		_, err := Decode(b)
		assert.True(t, errors.Is(err, errs.InvalidMagic), "%q", b)
	}
}

func TestDecodeEmpty(t *testing.T) {
	a, err := Decode([]byte(Magic))
	require.NoError(t, err)
	assert.Empty(t, a.Blocks)
	assert.Empty(t, a.Files)
}

func TestDecodeTruncated(t *testing.T) {
	b := archive(rawBlockBytes(t, Header{ID: "FILE", Name: "a.c16", CompressedSize: 4, Size: 4}, []byte{1, 2, 3, 4}))

	// Any cut inside the block fails and returns no archive
	for i := len(Magic) + 1; i < len(b); i++ {
		a, err := Decode(b[:i])
		assert.True(t, errors.Is(err, errs.TruncatedInput), "length %d", i)
		assert.Nil(t, a)
	}
}

func TestDecodeHeaderName(t *testing.T) {
	// Name with garbage after the terminating NUL
	h := Header{ID: "FILE", CompressedSize: 1, Size: 1}
	raw := rawBlockBytes(t, h, []byte{42})
	copy(raw[idSize:], "back.blk\x00junk")

	a, err := Decode(archive(raw))
	require.NoError(t, err)
	require.Len(t, a.Files, 1)
	assert.Equal(t, &File{Name: "back", Extension: "blk", Data: []byte{42}}, a.Files[0])
	assert.Equal(t, a.Files[0], a.Blocks[0])
}

func TestDecodeGeneric(t *testing.T) {
	a, err := Decode(archive(rawBlockBytes(t, Header{ID: "PHOT", Name: "photo", CompressedSize: 3, Size: 3}, []byte("abc"))))
	require.NoError(t, err)
	require.Len(t, a.Blocks, 1)
	assert.Equal(t, &Generic{ID: "PHOT", Name: "photo", Data: []byte("abc")}, a.Blocks[0])
	assert.Empty(t, a.Files)
}

func TestDecodeDecompressionFailure(t *testing.T) {
	garbage := []byte("not zlib at all")
	b := archive(rawBlockBytes(t, Header{ID: "FILE", Name: "a.c16", CompressedSize: uint32(len(garbage)), Size: 10, Compressed: true}, garbage))
	_, err := Decode(b)
	assert.True(t, errors.Is(err, errs.DecompressionFailure))

	z, err := deflate([]byte("hello"))
	require.NoError(t, err)
	for _, size := range []uint32{4, 6} {
		b = archive(rawBlockBytes(t, Header{ID: "FILE", Name: "a.c16", CompressedSize: uint32(len(z)), Size: size, Compressed: true}, z))
		_, err = Decode(b)
		assert.True(t, errors.Is(err, errs.DecompressionFailure), "size %d", size)
	}

	// Headers does not inflate anything
	headers, err := Headers(b)
	require.NoError(t, err)
	assert.Len(t, headers, 1)
}

func TestDecodeBadTable(t *testing.T) {
	_, err := Decode(archive(rawBlockBytes(t, Header{ID: "AGNT", Name: "x", CompressedSize: 2, Size: 2}, []byte{1, 0})))
	assert.True(t, errors.Is(err, errs.TruncatedInput))
}

func TestNewFile(t *testing.T) {
	f, err := NewFile("norn.bengal46.gen", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, &File{Name: "norn.bengal46", Extension: "gen", Data: []byte{1}}, f)
	assert.Equal(t, "norn.bengal46.gen", f.Filename())

	f, err = NewFile("Ball.COS", nil)
	require.NoError(t, err)
	assert.True(t, f.IsScript())

	for _, name := range []string{"ball.png", "ball", ".c16", "readme.txt"} {
		_, err := NewFile(name, nil)
		assert.True(t, errors.Is(err, errs.UnsupportedFileType), name)
	}
}

func TestDependencyCategory(t *testing.T) {
	tables := map[string]uint32{
		"a.wav":         1,
		"a.MNG":         1,
		"a.c16":         2,
		"a.s16":         2,
		"a.gen":         3,
		"a.gno":         3,
		"a.att":         4,
		"a.blk":         6,
		"a.catalogue":   7,
		"a.cos":         0,
		"no extension":  0,
		"weird.c16.bak": 0,
	}
	for name, want := range tables {
		assert.Equal(t, want, DependencyCategory(name), name)
	}
}
