package pray

import (
	"fmt"
	"strings"

	"github.com/bodgit/pray/errs"
	"github.com/bodgit/pray/table"
	"github.com/pkg/errors"
)

// Dependency categories tell the game where to install a file.
const (
	CategoryOther     uint32 = 0
	CategorySound     uint32 = 1
	CategoryImage     uint32 = 2
	CategoryGenetics  uint32 = 3
	CategoryBodyData  uint32 = 4
	CategoryOverlay   uint32 = 5
	CategoryBackdrop  uint32 = 6
	CategoryCatalogue uint32 = 7
)

// DependencyCategory returns the dependency category for filename, derived
// from its extension.
func DependencyCategory(filename string) uint32 {
	_, ext := splitFilename(filename)
	switch strings.ToLower(ext) {
	case "wav", "mng":
		return CategorySound
	case "c16", "s16":
		return CategoryImage
	case "gen", "gno":
		return CategoryGenetics
	case "att":
		return CategoryBodyData
	case "blk":
		return CategoryBackdrop
	case "catalogue":
		return CategoryCatalogue
	default:
		return CategoryOther
	}
}

func isScript(filename string) bool {
	_, ext := splitFilename(filename)
	return strings.EqualFold(ext, "cos")
}

// readDependencies returns the "Dependency i" entries of t. A count naming
// more entries than the table holds fails rather than inventing empty ones.
func readDependencies(t *table.Table) ([]string, error) {
	count, _ := t.Int("Dependency Count")
	var deps []string
	for i := uint32(1); i <= count; i++ {
		key := fmt.Sprintf("Dependency %d", i)
		d, ok := t.Strings[key]
		if !ok {
			return nil, errors.Wrapf(errs.TruncatedInput, "pray: %q missing, count is %d", key, count)
		}
		deps = append(deps, d)
	}
	return deps, nil
}

// readScripts lifts the inline scripts out of t as .cos files named after
// the tag, numbered if there is more than one.
func readScripts(t *table.Table, name string) ([]*File, error) {
	count, _ := t.Int("Script Count")
	var files []*File
	for i := uint32(1); i <= count; i++ {
		key := fmt.Sprintf("Script %d", i)
		s, ok := t.Strings[key]
		if !ok {
			return nil, errors.Wrapf(errs.TruncatedInput, "pray: %q missing, count is %d", key, count)
		}
		f := &File{Name: name, Extension: "cos", Data: []byte(s)}
		if count > 1 {
			f.Name = fmt.Sprintf("%s %d", name, i)
		}
		files = append(files, f)
	}
	return files, nil
}

// readTagDependencies returns the dependencies of t followed by the
// filenames of its lifted scripts.
func readTagDependencies(t *table.Table, name string) ([]string, []*File, error) {
	deps, err := readDependencies(t)
	if err != nil {
		return nil, nil, err
	}
	scripts, err := readScripts(t, name)
	if err != nil {
		return nil, nil, err
	}
	return append(deps, scriptFilenames(scripts)...), scripts, nil
}

func scriptFilenames(scripts []*File) []string {
	names := make([]string, 0, len(scripts))
	for _, s := range scripts {
		names = append(names, s.Filename())
	}
	return names
}

// splitDependencies separates deps into scripts, which must be present in
// files, and the other files the archive carries. Other names missing from
// files are dropped.
func splitDependencies(deps []string, files map[string]*File) ([]*File, []string, error) {
	var scripts []*File
	var others []string
	for _, d := range deps {
		f, ok := files[d]
		if !isScript(d) {
			if ok {
				others = append(others, d)
			}
			continue
		}
		if !ok {
			return nil, nil, errors.Wrapf(errs.MissingFile, "pray: script %q", d)
		}
		scripts = append(scripts, f)
	}
	return scripts, others, nil
}

func writeScripts(b *table.Builder, scripts []*File) {
	b.Int("Script Count", uint32(len(scripts)))
	for i, s := range scripts {
		b.String(fmt.Sprintf("Script %d", i+1), string(s.Data))
	}
}

func writeDependencies(b *table.Builder, deps []string) {
	b.Int("Dependency Count", uint32(len(deps)))
	for i, d := range deps {
		b.Int(fmt.Sprintf("Dependency Category %d", i+1), DependencyCategory(d))
	}
	for i, d := range deps {
		b.String(fmt.Sprintf("Dependency %d", i+1), d)
	}
}
