package pray

import (
	"strconv"

	"github.com/pkg/errors"
)

// Category is the Garden Box section a garden box agent is listed under.
type Category int

const (
	PatchPlant Category = iota + 1
	SinglePlant
	Critter
	Food
	Toy
	Machine
	Decoration
	Misc
)

var categoryNames = map[Category]string{
	PatchPlant:  "PatchPlant",
	SinglePlant: "SinglePlant",
	Critter:     "Critter",
	Food:        "Food",
	Toy:         "Toy",
	Machine:     "Machine",
	Decoration:  "Decoration",
	Misc:        "Misc",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// MarshalText implements encoding.TextMarshaler. Values without a name are
// written as numbers.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	for k, v := range categoryNames {
		if v == string(b) {
			*c = k
			return nil
		}
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return errors.Errorf("pray: unknown category %q", b)
	}
	*c = Category(n)
	return nil
}
