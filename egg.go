package pray

import (
	"strings"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/table"
	"github.com/pkg/errors"
)

// Egg describes an egg offered by the Muco or the egg layer.
type Egg struct {
	Name string `yaml:"name"`
	// Genetics, Mother and Father are .gen filenames.
	Genetics        string `yaml:"genetics,omitempty"`
	Mother          string `yaml:"mother,omitempty"`
	Father          string `yaml:"father,omitempty"`
	MaleSprite      string `yaml:"maleSprite,omitempty"`
	FemaleSprite    string `yaml:"femaleSprite,omitempty"`
	AnimationString string `yaml:"animationString,omitempty"`
	// Dependencies must not name scripts, eggs have none.
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// BlockID implements Block.
func (e *Egg) BlockID() string { return idEgg }

// BlockName implements Block.
func (e *Egg) BlockName() string { return e.Name }

func (*Egg) block() {}

// Genetic files are stored as a title, optionally suffixed with a '*'
func geneticsFile(s string) string {
	s = strings.TrimRight(s, "*")
	if s == "" {
		return ""
	}
	return s + ".gen"
}

func title(filename string) string {
	name, _ := splitFilename(filename)
	return name
}

func decodeEgg(name string, b []byte) (*Egg, error) {
	t, err := table.Read(b)
	if err != nil {
		return nil, err
	}

	deps, err := readDependencies(t)
	if err != nil {
		return nil, err
	}

	return &Egg{
		Name:            name,
		Genetics:        geneticsFile(t.String("Genetics File")),
		Mother:          geneticsFile(t.String("Mother Genetic File")),
		Father:          geneticsFile(t.String("Father Genetic File")),
		MaleSprite:      t.String("Egg Glyph File"),
		FemaleSprite:    t.String("Egg Glyph File 2"),
		AnimationString: t.String("Egg Animation String"),
		Dependencies:    deps,
	}, nil
}

func (e *Egg) marshal(files map[string]*File) ([]byte, bool, error) {
	for _, d := range e.Dependencies {
		if isScript(d) {
			return nil, false, errors.Wrapf(errs.UnsupportedFileType, "pray: eggs carry no scripts, got %q", d)
		}
	}
	_, deps, err := splitDependencies(e.Dependencies, files)
	if err != nil {
		return nil, false, err
	}

	b := new(table.Builder).
		String("Egg Gallery male", title(e.MaleSprite)).
		String("Egg Glyph File", e.MaleSprite).
		String("Egg Gallery female", title(e.FemaleSprite)).
		String("Egg Glyph File 2", e.FemaleSprite).
		String("Egg Animation String", e.AnimationString).
		String("Genetics File", title(e.Genetics)+"*")

	if e.Mother != "" {
		b.String("Mother Genetic File", title(e.Mother))
	}
	if e.Father != "" {
		b.String("Father Genetic File", title(e.Father))
	}

	writeDependencies(b, deps)

	return b.Bytes(), false, nil
}
