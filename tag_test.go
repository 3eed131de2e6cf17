package pray

import (
	"errors"
	"testing"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func marshalTable(t *testing.T, tag Tag, files ...*File) *table.Table {
	pool := make(map[string]*File)
	for _, f := range files {
		pool[f.Filename()] = f
	}
	b, compress, err := tag.marshal(pool)
	require.NoError(t, err)
	assert.False(t, compress)

	tbl, err := table.Read(b)
	require.NoError(t, err)
	return tbl
}

func TestAgentCreatures3(t *testing.T) {
	a := &Agent{
		Name:         "Ball",
		Bioenergy:    25,
		WebLabel:     "ignored",
		Descriptions: map[Language]string{English: "ignored"},
	}
	tbl := marshalTable(t, a)

	assert.Equal(t, map[string]uint32{
		"Agent Type":            0,
		"Agent Bioenergy Value": 25,
		"Script Count":          0,
		"Dependency Count":      0,
	}, tbl.Ints)
	assert.Equal(t, map[string]string{
		"Agent Animation File":    "",
		"Agent Animation Gallery": "",
		"Agent Animation String":  "",
	}, tbl.Strings)
	assert.Equal(t, "AGNT", a.BlockID())
}

func TestAgentDockingStation(t *testing.T) {
	a := &Agent{
		Name:         "Toy",
		Game:         DockingStation,
		Descriptions: map[Language]string{French: "Un jouet"},
		RemoveScript: "kill targ",
		Dependencies: []string{"toy.s16", "Toy.cos"},
	}
	tbl := marshalTable(t, a,
		&File{Name: "toy", Extension: "s16", Data: []byte{1}},
		&File{Name: "Toy", Extension: "cos", Data: []byte("inst")},
	)

	assert.Equal(t, "DSAG", a.BlockID())
	assert.Equal(t, "", tbl.Strings["Agent Description"])
	assert.Equal(t, "Un jouet", tbl.Strings["Agent Description-fr"])
	assert.NotContains(t, tbl.Strings, "Agent Description-de")
	assert.NotContains(t, tbl.Strings, "Web Label")
	assert.Equal(t, "kill targ", tbl.Strings["Remove script"])
	assert.Equal(t, "inst", tbl.Strings["Script 1"])
	assert.Equal(t, uint32(1), tbl.Ints["Script Count"])
	assert.Equal(t, uint32(1), tbl.Ints["Dependency Count"])
	assert.Equal(t, "toy.s16", tbl.Strings["Dependency 1"])
	assert.NotContains(t, tbl.Ints, "Agent Bioenergy Value")
}

func TestDecodeAgentScripts(t *testing.T) {
	b := new(table.Builder).
		Int("Script Count", 2).
		Int("Dependency Count", 1).
		Int("Dependency Category 1", 2).
		String("Script 1", "one").
		String("Script 2", "two").
		String("Dependency 1", "a.c16").
		String("Agent Description-nl", "Een bal").
		Bytes()

	a, scripts, err := decodeAgent("Ball", DockingStation, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.c16", "Ball 1.cos", "Ball 2.cos"}, a.Dependencies)
	assert.Equal(t, map[Language]string{Dutch: "Een bal"}, a.Descriptions)
	require.Len(t, scripts, 2)
	assert.Equal(t, &File{Name: "Ball 2", Extension: "cos", Data: []byte("two")}, scripts[1])
}

func TestEggGenetics(t *testing.T) {
	e := &Egg{
		Name:         "Egg",
		Genetics:     "norn.civet46.gen",
		Father:       "dad.gen",
		MaleSprite:   "m.c16",
		FemaleSprite: "f.c16",
	}
	tbl := marshalTable(t, e)

	assert.Equal(t, "norn.civet46*", tbl.Strings["Genetics File"])
	assert.Equal(t, "dad", tbl.Strings["Father Genetic File"])
	assert.NotContains(t, tbl.Strings, "Mother Genetic File")
	assert.Equal(t, "m", tbl.Strings["Egg Gallery male"])
	assert.Equal(t, "m.c16", tbl.Strings["Egg Glyph File"])
	assert.Equal(t, "f", tbl.Strings["Egg Gallery female"])
	assert.Equal(t, "f.c16", tbl.Strings["Egg Glyph File 2"])

	d, err := decodeEgg("Egg", new(table.Builder).String("Genetics File", "norn.civet46*").String("Mother Genetic File", "mum").Bytes())
	require.NoError(t, err)
	assert.Equal(t, "norn.civet46.gen", d.Genetics)
	assert.Equal(t, "mum.gen", d.Mother)
	assert.Equal(t, "", d.Father)
}

func TestEggNoScripts(t *testing.T) {
	e := &Egg{Name: "Egg", Dependencies: []string{"egg.c16", "hatch.cos"}}
	_, _, err := e.marshal(map[string]*File{
		"egg.c16":   {Name: "egg", Extension: "c16"},
		"hatch.cos": {Name: "hatch", Extension: "cos"},
	})
	assert.True(t, errors.Is(err, errs.UnsupportedFileType))
}

func TestUnpooledDependencies(t *testing.T) {
	pool := []*File{{Name: "ball", Extension: "c16"}}

	for _, tag := range []Tag{
		&Agent{Name: "Ball", Game: DockingStation, Dependencies: []string{"missing.c16", "ball.c16", "sound.wav"}},
		&Egg{Name: "Ball", Dependencies: []string{"missing.c16", "ball.c16", "sound.wav"}},
		&GardenBox{Name: "Ball", Dependencies: []string{"missing.c16", "ball.c16", "sound.wav"}},
	} {
		tbl := marshalTable(t, tag, pool...)
		assert.Equal(t, uint32(1), tbl.Ints["Dependency Count"], tag.BlockID())
		assert.Equal(t, uint32(2), tbl.Ints["Dependency Category 1"], tag.BlockID())
		assert.Equal(t, "ball.c16", tbl.Strings["Dependency 1"], tag.BlockID())
		assert.NotContains(t, tbl.Strings, "Dependency 2", tag.BlockID())
	}
}

func TestDecodeMissingEntries(t *testing.T) {
	tables := map[string][]byte{
		"dependencies": new(table.Builder).Int("Dependency Count", 0xffffffff).Bytes(),
		"scripts":      new(table.Builder).Int("Script Count", 0xffffffff).Bytes(),
		"gap": new(table.Builder).
			Int("Dependency Count", 2).
			String("Dependency 2", "b.c16").
			Bytes(),
	}

	for name, b := range tables {
		_, _, err := decodeAgent("Ball", Creatures3, b)
		assert.True(t, errors.Is(err, errs.TruncatedInput), name)
		_, _, err = decodeGardenBox("Ball", b)
		assert.True(t, errors.Is(err, errs.TruncatedInput), name)
	}

	_, err := decodeEgg("Ball", tables["dependencies"])
	assert.True(t, errors.Is(err, errs.TruncatedInput))
}

func TestGardenBoxAnimation(t *testing.T) {
	g := &GardenBox{Name: "Box", Category: Machine, SpriteFirstImage: 7}
	tbl := marshalTable(t, g)

	assert.Equal(t, uint32(6), tbl.Ints["GB_Category"])
	assert.NotContains(t, tbl.Ints, "Agent Sprite First Image")
	assert.NotContains(t, tbl.Strings, "Agent Animation File")

	g.AnimationFile = "box.c16"
	tbl = marshalTable(t, g)
	assert.Equal(t, uint32(7), tbl.Ints["Agent Sprite First Image"])
	assert.Equal(t, "box.c16", tbl.Strings["Agent Animation File"])
}

func TestCategoryText(t *testing.T) {
	b, err := Decoration.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Decoration", string(b))

	b, err = Category(0).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0", string(b))

	var c Category
	require.NoError(t, c.UnmarshalText([]byte("Critter")))
	assert.Equal(t, Critter, c)
	require.NoError(t, c.UnmarshalText([]byte("12")))
	assert.Equal(t, Category(12), c)
	assert.Error(t, c.UnmarshalText([]byte("Spaceship")))
}

func TestTagYAML(t *testing.T) {
	in := &Agent{
		Name:         "Ball",
		Game:         DockingStation,
		Descriptions: map[Language]string{English: "A ball"},
		Dependencies: []string{"ball.c16"},
	}
	b, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), "game: DockingStation")

	out := new(Agent)
	require.NoError(t, yaml.Unmarshal(b, out))
	assert.Equal(t, in, out)

	var g Game
	assert.Error(t, g.UnmarshalText([]byte("Creatures2")))
}
