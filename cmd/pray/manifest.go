package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/pray"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const manifestFilename = "manifest.yaml"

type genericBlock struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Compressed bool   `yaml:"compressed,omitempty"`
	File       string `yaml:"file"`
}

// Exactly one field is set
type manifestBlock struct {
	Agent     *pray.Agent     `yaml:"agent,omitempty"`
	Egg       *pray.Egg       `yaml:"egg,omitempty"`
	GardenBox *pray.GardenBox `yaml:"gardenBox,omitempty"`
	Generic   *genericBlock   `yaml:"generic,omitempty"`
}

type manifest struct {
	Blocks []manifestBlock `yaml:"blocks"`
	Files  []string        `yaml:"files,omitempty"`
}

var errBadManifestBlock = errors.New("manifest: block must set exactly one of agent, egg, gardenBox or generic")

// safeName rejects anything that would escape the output directory
func safeName(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Errorf("refusing to write %q", name)
	}
	return name, nil
}

func genericFilename(g *pray.Generic) string {
	return fmt.Sprintf("%s.%s.bin", strings.NewReplacer("/", "_", `\`, "_").Replace(g.Name), g.ID)
}

func extract(a *pray.Archive, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var m manifest
	for _, t := range a.Tags() {
		switch t := t.(type) {
		case *pray.Agent:
			m.Blocks = append(m.Blocks, manifestBlock{Agent: t})
		case *pray.Egg:
			m.Blocks = append(m.Blocks, manifestBlock{Egg: t})
		case *pray.GardenBox:
			m.Blocks = append(m.Blocks, manifestBlock{GardenBox: t})
		case *pray.Generic:
			g := &genericBlock{ID: t.ID, Name: t.Name, Compressed: t.Compressed, File: genericFilename(t)}
			if err := ioutil.WriteFile(filepath.Join(dir, g.File), t.Data, 0644); err != nil {
				return err
			}
			m.Blocks = append(m.Blocks, manifestBlock{Generic: g})
		}
	}

	seen := make(map[string]struct{}, len(a.Files))
	for _, f := range a.Files {
		name, err := safeName(f.Filename())
		if err != nil {
			return err
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		if err := ioutil.WriteFile(filepath.Join(dir, name), f.Data, 0644); err != nil {
			return err
		}
		m.Files = append(m.Files, name)
	}

	b, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filepath.Join(dir, manifestFilename), b, 0644)
}

func pack(dir string) ([]byte, error) {
	b, err := ioutil.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "manifest")
	}

	tags := make([]pray.Tag, 0, len(m.Blocks))
	for i, mb := range m.Blocks {
		var set []pray.Tag
		if mb.Agent != nil {
			set = append(set, mb.Agent)
		}
		if mb.Egg != nil {
			set = append(set, mb.Egg)
		}
		if mb.GardenBox != nil {
			set = append(set, mb.GardenBox)
		}
		if mb.Generic != nil {
			name, err := safeName(mb.Generic.File)
			if err != nil {
				return nil, err
			}
			data, err := ioutil.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			set = append(set, &pray.Generic{
				ID:         mb.Generic.ID,
				Name:       mb.Generic.Name,
				Data:       data,
				Compressed: mb.Generic.Compressed,
			})
		}
		if len(set) != 1 {
			return nil, errors.Wrapf(errBadManifestBlock, "block %d", i+1)
		}
		tags = append(tags, set[0])
	}

	files := make([]*pray.File, 0, len(m.Files))
	for _, name := range m.Files {
		if _, err := safeName(name); err != nil {
			return nil, err
		}
		data, err := ioutil.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		f, err := pray.NewFile(name, data)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return pray.Encode(tags, files)
}
