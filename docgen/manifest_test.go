package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/compdoc/bundle"
)

func TestBuilder_PopulateReplacesPlaceholder(t *testing.T) {
	b := NewBuilder()
	b.RegisterExport("Button")
	b.RegisterExport("Button")

	rec := b.Populate(
		bundle.Source{Path: "src/actions/Button.svelte", Component: "Button"},
		"actions",
		&Documentation{Description: "Clickable"},
		[]TypeDef{{Name: "Size", Type: "string"}, {Name: "Size", Type: "number"}},
	)

	assert.True(t, rec.Located)
	assert.Equal(t, "Clickable", rec.Doc.Description)
	require.Len(t, rec.TypeDefs, 1, "a name declared twice in one component is kept once")
	assert.Equal(t, "string", rec.TypeDefs[0].Type)
	assert.Equal(t, []string{"Size"}, rec.TypeRefs)

	m := b.Build(testPkg)
	require.Len(t, m.Components(), 1)
	got, ok := m.Component("Button")
	require.True(t, ok)
	assert.Same(t, rec, got)
}

func TestBuilder_Collisions(t *testing.T) {
	b := NewBuilder()
	b.Populate(bundle.Source{Path: "src/a/A.svelte", Component: "A"}, "a", nil, []TypeDef{{Name: "T"}})
	b.Populate(bundle.Source{Path: "src/b/B.svelte", Component: "B"}, "b", nil, []TypeDef{{Name: "T"}, {Name: "U"}})

	assert.Equal(t, 1, b.Collisions())
	m := b.Build(testPkg)
	assert.Equal(t, 2, m.Types().Len())
	assert.Equal(t, "A", m.Types().Owner("T"))
	assert.Equal(t, "B", m.Types().Owner("U"))
}

func TestBuilder_SealedAfterBuild(t *testing.T) {
	b := NewBuilder()
	b.Build(testPkg)
	assert.Panics(t, func() { b.RegisterExport("Late") })
}

func TestGroupIndex_ReturnsCopies(t *testing.T) {
	g := newGroupIndex()
	g.add("forms", "Input")
	g.add("display", "Tag")
	g.add("forms", "Select")

	assert.Equal(t, []string{"forms", "display"}, g.Groups())
	assert.Equal(t, []string{"Input", "Select"}, g.Members("forms"))
	assert.Equal(t, 2, g.Len())

	members := g.Members("forms")
	members[0] = "Mutated"
	assert.Equal(t, "Input", g.Members("forms")[0])
	assert.Empty(t, g.Members("missing"))
}

func TestResolveTypeRefs_SkipsUnknown(t *testing.T) {
	b := NewBuilder()
	b.Populate(bundle.Source{Path: "src/a/A.svelte", Component: "A"}, "a", nil, []TypeDef{{Name: "T", Type: "1"}})
	m := b.Build(testPkg)

	resolved := m.ResolveTypeRefs(&ComponentRecord{TypeRefs: []string{"T", "Missing"}})
	require.Len(t, resolved, 1)
	assert.Equal(t, "1", resolved[0].Type)
}

func TestDocumentation_IsEmpty(t *testing.T) {
	var nilDoc *Documentation
	assert.True(t, nilDoc.IsEmpty())
	assert.True(t, (&Documentation{}).IsEmpty())
	assert.False(t, (&Documentation{Slots: []Slot{{Default: true}}}).IsEmpty())
	assert.False(t, (&Documentation{RestProps: &RestProps{Name: "div"}}).IsEmpty())
}
