package bundle

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the component-source extensions recognized when none are configured.
var DefaultExtensions = []string{".svelte"}

// Source is a module file that defines an exported component.
type Source struct {
	Path      string
	Component string
}

// Located is the result of matching bundle exports to component sources.
type Located struct {
	// Exports holds every entry-chunk export name once, in first-seen order
	Exports []string
	// Sources are the matched component files, sorted by path
	Sources []Source
	// Shadowed lists files whose component name was already claimed by an
	// earlier path; they are not collected
	Shadowed []Source
}

// ModuleName derives the component name for a module file:
// the base name without its extension, with every '.' removed.
//
//	"src/Alert/Alert.svelte"      -> "Alert"
//	"src/Data/Data.table.svelte"  -> "Datatable"
func ModuleName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(name, ".", "")
}

// Locate finds the module files that define exported components.
// A module matches when its extension is one of extensions and its derived
// module name equals an export name (case-sensitive). Everything else is an
// implementation module and is ignored.
func Locate(b *Bundle, extensions []string) *Located {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	recognized := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		recognized[ext] = true
	}

	loc := &Located{}
	exported := make(map[string]bool)
	var modules []string
	seenModule := make(map[string]bool)

	// Register every export first so matching sees the full public surface
	for _, chunk := range b.EntryChunks() {
		for _, name := range chunk.Exports {
			if !exported[name] {
				exported[name] = true
				loc.Exports = append(loc.Exports, name)
			}
		}
		for _, m := range chunk.Modules {
			if !seenModule[m] {
				seenModule[m] = true
				modules = append(modules, m)
			}
		}
	}

	sort.Strings(modules)

	claimed := make(map[string]bool)
	for _, path := range modules {
		if !recognized[filepath.Ext(path)] {
			continue
		}
		name := ModuleName(path)
		if !exported[name] {
			continue
		}
		src := Source{Path: path, Component: name}
		if claimed[name] {
			loc.Shadowed = append(loc.Shadowed, src)
			continue
		}
		claimed[name] = true
		loc.Sources = append(loc.Sources, src)
	}

	return loc
}

// Dirs returns the distinct directories containing located sources, sorted.
func (l *Located) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, s := range l.Sources {
		d := filepath.Dir(s.Path)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)
	return dirs
}
