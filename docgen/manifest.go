package docgen

import (
	"sort"

	"github.com/teranos/compdoc/bundle"
	"github.com/teranos/compdoc/pkgmeta"
)

// TypeSet is the run-wide typedef deduplication set.
// The first component to declare a name owns it; later declarations are ignored.
type TypeSet struct {
	order []string
	defs  map[string]TypeDef
	owner map[string]string
}

func newTypeSet() *TypeSet {
	return &TypeSet{
		defs:  make(map[string]TypeDef),
		owner: make(map[string]string),
	}
}

// add records td for component unless the name is taken. Reports whether it was added.
func (s *TypeSet) add(component string, td TypeDef) bool {
	if _, taken := s.defs[td.Name]; taken {
		return false
	}
	s.order = append(s.order, td.Name)
	s.defs[td.Name] = td
	s.owner[td.Name] = component
	return true
}

// Get returns the winning definition for name
func (s *TypeSet) Get(name string) (TypeDef, bool) {
	td, ok := s.defs[name]
	return td, ok
}

// Owner returns the component that collected name first
func (s *TypeSet) Owner(name string) string {
	return s.owner[name]
}

// All returns every typedef in first-collected order
func (s *TypeSet) All() []TypeDef {
	out := make([]TypeDef, len(s.order))
	for i, name := range s.order {
		out[i] = s.defs[name]
	}
	return out
}

// Len returns the number of distinct typedef names
func (s *TypeSet) Len() int {
	return len(s.order)
}

// GroupIndex maps group names to component names, both in first-encounter order.
type GroupIndex struct {
	order   []string
	members map[string][]string
}

func newGroupIndex() *GroupIndex {
	return &GroupIndex{members: make(map[string][]string)}
}

func (g *GroupIndex) add(group, component string) {
	if _, ok := g.members[group]; !ok {
		g.order = append(g.order, group)
	}
	g.members[group] = append(g.members[group], component)
}

// Groups returns group names in insertion order
func (g *GroupIndex) Groups() []string {
	return append([]string(nil), g.order...)
}

// Members returns the components of group in collection order
func (g *GroupIndex) Members(group string) []string {
	return append([]string(nil), g.members[group]...)
}

// Len returns the number of groups
func (g *GroupIndex) Len() int {
	return len(g.order)
}

// RunManifest is the immutable snapshot consumed by every emitter.
type RunManifest struct {
	Package    *pkgmeta.Package
	components map[string]*ComponentRecord
	names      []string
	types      *TypeSet
	groups     *GroupIndex
}

// Components returns every record sorted by component name.
// Records are shared with the manifest and must not be modified.
func (m *RunManifest) Components() []*ComponentRecord {
	out := make([]*ComponentRecord, len(m.names))
	for i, name := range m.names {
		out[i] = m.components[name]
	}
	return out
}

// Component looks up a record by name
func (m *RunManifest) Component(name string) (*ComponentRecord, bool) {
	c, ok := m.components[name]
	return c, ok
}

// Types returns the deduplicated typedef set
func (m *RunManifest) Types() *TypeSet {
	return m.types
}

// Groups returns the grouping index
func (m *RunManifest) Groups() *GroupIndex {
	return m.groups
}

// ResolveTypeRefs returns the typedefs c declares, each resolved to the
// winning definition, in c's declaration order.
func (m *RunManifest) ResolveTypeRefs(c *ComponentRecord) []TypeDef {
	out := make([]TypeDef, 0, len(c.TypeRefs))
	for _, name := range c.TypeRefs {
		if td, ok := m.types.Get(name); ok {
			out = append(out, td)
		}
	}
	return out
}

// Builder accumulates collection results into a RunManifest.
// It is owned by a single goroutine; Build seals it.
type Builder struct {
	components map[string]*ComponentRecord
	types      *TypeSet
	groups     *GroupIndex
	// collisions counts declarations dropped by deduplication
	collisions int
	sealed     bool
}

// NewBuilder creates an empty builder for one run
func NewBuilder() *Builder {
	return &Builder{
		components: make(map[string]*ComponentRecord),
		types:      newTypeSet(),
		groups:     newGroupIndex(),
	}
}

// RegisterExport creates an empty placeholder record for an export name.
// Registering an existing name is a no-op.
func (b *Builder) RegisterExport(name string) {
	b.mustBeOpen()
	if _, ok := b.components[name]; !ok {
		b.components[name] = &ComponentRecord{Name: name}
	}
}

// Populate stores the parse result for a located source, replacing its placeholder.
// typedefs are deduplicated against everything populated before.
// Callers must populate sources in path order.
func (b *Builder) Populate(src bundle.Source, group string, doc *Documentation, typedefs []TypeDef) *ComponentRecord {
	b.mustBeOpen()

	rec := &ComponentRecord{
		Name:    src.Component,
		Located: true,
		Source:  src.Path,
		Group:   group,
	}
	if doc != nil {
		rec.Doc = *doc
	}

	declared := make(map[string]bool, len(typedefs))
	for _, td := range typedefs {
		if declared[td.Name] {
			continue
		}
		declared[td.Name] = true
		rec.TypeRefs = append(rec.TypeRefs, td.Name)
		if b.types.add(rec.Name, td) {
			rec.TypeDefs = append(rec.TypeDefs, td)
		} else {
			b.collisions++
		}
	}

	b.components[rec.Name] = rec
	b.groups.add(group, rec.Name)
	return rec
}

// Collisions returns how many typedef declarations lost to an earlier one
func (b *Builder) Collisions() int {
	return b.collisions
}

// Build seals the builder and returns the manifest.
func (b *Builder) Build(pkg *pkgmeta.Package) *RunManifest {
	b.mustBeOpen()
	b.sealed = true

	names := make([]string, 0, len(b.components))
	for name := range b.components {
		names = append(names, name)
	}
	sort.Strings(names)

	return &RunManifest{
		Package:    pkg,
		components: b.components,
		names:      names,
		types:      b.types,
		groups:     b.groups,
	}
}

func (b *Builder) mustBeOpen() {
	if b.sealed {
		panic("docgen: builder used after Build")
	}
}
