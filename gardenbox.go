package pray

import "github.com/bodgit/pray/table"

// GardenBox describes an agent offered through the Docking Station Garden
// Box.
type GardenBox struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description,omitempty"`
	Author           string   `yaml:"author,omitempty"`
	Category         Category `yaml:"category"`
	AnimationFile    string   `yaml:"animationFile,omitempty"`
	SpriteFirstImage uint32   `yaml:"spriteFirstImage,omitempty"`
	RemoveScript     string   `yaml:"removeScript,omitempty"`
	Dependencies     []string `yaml:"dependencies,omitempty"`
}

// BlockID implements Block.
func (g *GardenBox) BlockID() string { return idGardenBox }

// BlockName implements Block.
func (g *GardenBox) BlockName() string { return g.Name }

func (*GardenBox) block() {}

func decodeGardenBox(name string, b []byte) (*GardenBox, []*File, error) {
	t, err := table.Read(b)
	if err != nil {
		return nil, nil, err
	}

	g := &GardenBox{
		Name:             name,
		Description:      t.String("Agent Description"),
		Author:           t.String("Agent Author"),
		Category:         Category(t.Ints["GB_Category"]),
		AnimationFile:    t.String("Agent Animation File"),
		SpriteFirstImage: t.Ints["Agent Sprite First Image"],
		RemoveScript:     t.String("Remove script"),
	}

	deps, scripts, err := readTagDependencies(t, name)
	if err != nil {
		return nil, nil, err
	}
	g.Dependencies = deps

	return g, scripts, nil
}

func (g *GardenBox) marshal(files map[string]*File) ([]byte, bool, error) {
	scripts, deps, err := splitDependencies(g.Dependencies, files)
	if err != nil {
		return nil, false, err
	}

	b := new(table.Builder).
		Int("GB_Category", uint32(g.Category)).
		String("Agent Description", g.Description).
		String("Agent Author", g.Author)

	if g.AnimationFile != "" {
		b.Int("Agent Sprite First Image", g.SpriteFirstImage)
		b.String("Agent Animation File", g.AnimationFile)
	}

	if g.RemoveScript != "" {
		b.String("Remove script", g.RemoveScript)
	}

	writeScripts(b, scripts)
	writeDependencies(b, deps)

	return b.Bytes(), false, nil
}
