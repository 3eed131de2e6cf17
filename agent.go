package pray

import (
	"github.com/bodgit/pray/table"
	"github.com/pkg/errors"
)

// Game is the game an agent is built for.
type Game int

const (
	// Creatures3 agents are stored in AGNT blocks.
	Creatures3 Game = iota
	// DockingStation agents are stored in DSAG blocks.
	DockingStation
)

var gameNames = map[Game]string{
	Creatures3:     "Creatures3",
	DockingStation: "DockingStation",
}

func (g Game) String() string {
	return gameNames[g]
}

// MarshalText implements encoding.TextMarshaler.
func (g Game) MarshalText() ([]byte, error) {
	if s, ok := gameNames[g]; ok {
		return []byte(s), nil
	}
	return nil, errors.Errorf("pray: unknown game %d", int(g))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Game) UnmarshalText(b []byte) error {
	for k, v := range gameNames {
		if v == string(b) {
			*g = k
			return nil
		}
	}
	return errors.Errorf("pray: unknown game %q", b)
}

// Language selects one of the localised agent descriptions.
type Language string

// Languages supported by the injector, English first.
const (
	English Language = "en"
	German  Language = "de"
	Spanish Language = "es"
	French  Language = "fr"
	Italian Language = "it"
	Dutch   Language = "nl"
)

// Languages lists every Language in the order they are encoded.
var Languages = []Language{English, German, Spanish, French, Italian, Dutch}

func (l Language) key() string {
	if l == English {
		return "Agent Description"
	}
	return "Agent Description-" + string(l)
}

// Agent describes an injectable agent.
type Agent struct {
	Name             string              `yaml:"name"`
	Game             Game                `yaml:"game"`
	Descriptions     map[Language]string `yaml:"descriptions,omitempty"`
	Bioenergy        uint32              `yaml:"bioenergy,omitempty"`
	WebLabel         string              `yaml:"webLabel,omitempty"`
	WebURL           string              `yaml:"webURL,omitempty"`
	AnimationFile    string              `yaml:"animationFile,omitempty"`
	AnimationGallery string              `yaml:"animationGallery,omitempty"`
	AnimationString  string              `yaml:"animationString,omitempty"`
	SpriteFirstImage uint32              `yaml:"spriteFirstImage,omitempty"`
	RemoveScript     string              `yaml:"removeScript,omitempty"`
	// Dependencies lists filenames, scripts included, resolved against the
	// archive's files when encoding. Names the archive does not carry are
	// left out of the encoded block.
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// BlockID implements Block.
func (a *Agent) BlockID() string {
	if a.Game == DockingStation {
		return idDSAgent
	}
	return idAgent
}

// BlockName implements Block.
func (a *Agent) BlockName() string { return a.Name }

func (*Agent) block() {}

func decodeAgent(name string, game Game, b []byte) (*Agent, []*File, error) {
	t, err := table.Read(b)
	if err != nil {
		return nil, nil, err
	}

	a := &Agent{
		Name:             name,
		Game:             game,
		Bioenergy:        t.Ints["Agent Bioenergy Value"],
		WebLabel:         t.String("Web Label"),
		WebURL:           t.String("Web URL"),
		AnimationFile:    t.String("Agent Animation File"),
		AnimationGallery: t.String("Agent Animation Gallery"),
		AnimationString:  t.String("Agent Animation String"),
		SpriteFirstImage: t.Ints["Agent Sprite First Image"],
		RemoveScript:     t.String("Remove script"),
	}

	for _, l := range Languages {
		if s, ok := t.Strings[l.key()]; ok {
			if a.Descriptions == nil {
				a.Descriptions = make(map[Language]string)
			}
			a.Descriptions[l] = s
		}
	}

	deps, scripts, err := readTagDependencies(t, name)
	if err != nil {
		return nil, nil, err
	}
	a.Dependencies = deps

	return a, scripts, nil
}

func (a *Agent) marshal(files map[string]*File) ([]byte, bool, error) {
	scripts, deps, err := splitDependencies(a.Dependencies, files)
	if err != nil {
		return nil, false, err
	}

	b := new(table.Builder).Int("Agent Type", 0)

	switch a.Game {
	case Creatures3:
		b.Int("Agent Bioenergy Value", a.Bioenergy)
	case DockingStation:
		b.Int("Agent Sprite First Image", a.SpriteFirstImage)

		b.String(English.key(), a.Descriptions[English])
		for _, l := range Languages[1:] {
			if s := a.Descriptions[l]; s != "" {
				b.String(l.key(), s)
			}
		}
		if a.WebLabel != "" {
			b.String("Web Label", a.WebLabel)
		}
		if a.WebURL != "" {
			b.String("Web URL", a.WebURL)
		}
	}

	b.String("Agent Animation File", a.AnimationFile)
	b.String("Agent Animation Gallery", a.AnimationGallery)
	b.String("Agent Animation String", a.AnimationString)

	if a.RemoveScript != "" {
		b.String("Remove script", a.RemoveScript)
	}

	writeScripts(b, scripts)
	writeDependencies(b, deps)

	return b.Bytes(), false, nil
}
