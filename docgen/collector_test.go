package docgen

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/compdoc/bundle"
	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/pkgmeta"
)

var testPkg = &pkgmeta.Package{Name: "ui-kit", Version: "1.2.0", Types: "types/index.d.ts"}

// fakeParser treats each source line "typedef Name = Body" as a type tag and
// the line "desc: text" as the component description.
var fakeParser = ParserFunc(func(source string, opts ParseOptions) (*Documentation, error) {
	doc := &Documentation{}
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "FAIL":
			return nil, errors.New("unexpected token")
		case strings.HasPrefix(line, "desc: "):
			doc.Description = strings.TrimPrefix(line, "desc: ")
		case strings.HasPrefix(line, "typedef "):
			name, body, _ := strings.Cut(strings.TrimPrefix(line, "typedef "), " = ")
			opts.OnTypeDef(TypeDef{Name: name, Type: body, TS: fmt.Sprintf("type %s = %s", name, body)})
		}
	}
	return doc, nil
})

func newTestCollector(files map[string]string, workers int) *Collector {
	c := NewCollector(fakeParser, CollectorConfig{RootMarker: "src/", Workers: workers})
	c.readFile = func(path string) ([]byte, error) {
		content, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("open %s: no such file or directory", path)
		}
		return []byte(content), nil
	}
	return c
}

func locate(exports []string, files map[string]string) *bundle.Located {
	modules := make([]string, 0, len(files))
	for p := range files {
		modules = append(modules, p)
	}
	return bundle.Locate(&bundle.Bundle{Entries: []bundle.Entry{
		&bundle.CodeChunk{IsEntry: true, Exports: exports, Modules: modules},
	}}, nil)
}

func TestCollect_SharedTypeFirstWriterWins(t *testing.T) {
	files := map[string]string{
		"src/feedback/Toast/Toast.svelte": "desc: Transient message\ntypedef Variant = \"toast\"\ntypedef ToastKind = string",
		"src/feedback/Alert/Alert.svelte": "desc: Inline alert\ntypedef Variant = \"alert\"",
	}
	c := newTestCollector(files, 4)

	m, err := c.Collect(context.Background(), locate([]string{"Alert", "Toast"}, files), testPkg)
	require.NoError(t, err)

	variant, ok := m.Types().Get("Variant")
	require.True(t, ok)
	assert.Equal(t, `"alert"`, variant.Type, "Alert's path sorts first, so its body wins")
	assert.Equal(t, "Alert", m.Types().Owner("Variant"))
	assert.Equal(t, []string{"Variant", "ToastKind"}, typeNames(m.Types().All()))

	alert, _ := m.Component("Alert")
	toast, _ := m.Component("Toast")
	assert.Equal(t, []string{"Variant"}, typeNames(alert.TypeDefs))
	assert.Equal(t, []string{"ToastKind"}, typeNames(toast.TypeDefs), "Toast does not own Variant")
	assert.Equal(t, []string{"Variant", "ToastKind"}, toast.TypeRefs)

	resolved := m.ResolveTypeRefs(toast)
	require.Len(t, resolved, 2)
	assert.Equal(t, `"alert"`, resolved[0].Type, "Toast still sees Variant with Alert's body")
}

func TestCollect_PlaceholderForExportWithoutSource(t *testing.T) {
	files := map[string]string{
		"src/feedback/Alert/Alert.svelte": "desc: Inline alert",
	}
	c := newTestCollector(files, 2)

	m, err := c.Collect(context.Background(), locate([]string{"Alert", "Modal"}, files), testPkg)
	require.NoError(t, err)

	require.Len(t, m.Components(), 2)
	modal, ok := m.Component("Modal")
	require.True(t, ok)
	assert.False(t, modal.Located)
	assert.True(t, modal.Doc.IsEmpty())
	assert.Empty(t, modal.TypeDefs)
	assert.Empty(t, modal.Group)

	for _, g := range m.Groups().Groups() {
		assert.NotContains(t, m.Groups().Members(g), "Modal")
	}
}

func TestCollect_GroupsFollowProcessingOrder(t *testing.T) {
	files := map[string]string{
		"/lib/src/forms/Select/Select.svelte": "desc: Select",
		"/lib/src/forms/Input/Input.svelte":   "desc: Input",
		"/lib/src/display/Tag/Tag.svelte":     "desc: Tag",
	}
	c := newTestCollector(files, 3)

	m, err := c.Collect(context.Background(), locate([]string{"Select", "Input", "Tag"}, files), testPkg)
	require.NoError(t, err)

	assert.Equal(t, []string{"display", "forms"}, m.Groups().Groups())
	assert.Equal(t, []string{"Input", "Select"}, m.Groups().Members("forms"))

	// Partition: every located component belongs to exactly one group
	seen := map[string]int{}
	for _, g := range m.Groups().Groups() {
		for _, name := range m.Groups().Members(g) {
			seen[name]++
		}
	}
	for _, rec := range m.Components() {
		if rec.Located {
			assert.Equal(t, 1, seen[rec.Name], rec.Name)
		}
	}
	assert.Len(t, seen, 3)
}

func TestCollect_EveryExportAppearsOnce(t *testing.T) {
	files := map[string]string{"src/a/A.svelte": ""}
	loc := &bundle.Located{
		Exports: []string{"A", "B", "C"},
		Sources: []bundle.Source{{Path: "src/a/A.svelte", Component: "A"}},
	}
	m, err := newTestCollector(files, 1).Collect(context.Background(), loc, testPkg)
	require.NoError(t, err)

	var names []string
	for _, rec := range m.Components() {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestCollect_Deterministic(t *testing.T) {
	files := map[string]string{}
	var exports []string
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("C%02d", i)
		exports = append(exports, name)
		// Every component declares the shared type with its own body
		files[fmt.Sprintf("src/g%d/%s.svelte", i%5, name)] = fmt.Sprintf("typedef Shared = %q\ntypedef Own%s = number", name, name)
	}

	var first []TypeDef
	for run := 0; run < 5; run++ {
		m, err := newTestCollector(files, 8).Collect(context.Background(), locate(exports, files), testPkg)
		require.NoError(t, err)
		shared, _ := m.Types().Get("Shared")
		assert.Equal(t, `"C00"`, shared.Type)
		if first == nil {
			first = m.Types().All()
			continue
		}
		assert.Equal(t, first, m.Types().All(), "run %d", run)
	}
}

func TestCollect_ParseErrorAbortsWithPath(t *testing.T) {
	files := map[string]string{
		"src/a/Good.svelte":   "desc: fine",
		"src/b/Broken.svelte": "FAIL",
	}
	_, err := newTestCollector(files, 2).Collect(context.Background(), locate([]string{"Good", "Broken"}, files), testPkg)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.Contains(t, err.Error(), "src/b/Broken.svelte")
}

func TestCollect_FirstErrorInPathOrder(t *testing.T) {
	files := map[string]string{
		"src/a/Slow.svelte": "FAIL",
		"src/b/Fast.svelte": "FAIL",
		"src/c/Late.svelte": "FAIL",
	}
	c := newTestCollector(files, 3)
	c.readFile = func(path string) ([]byte, error) {
		if path == "src/a/Slow.svelte" {
			time.Sleep(50 * time.Millisecond)
		}
		return []byte(files[path]), nil
	}

	for run := 0; run < 5; run++ {
		_, err := c.Collect(context.Background(), locate([]string{"Slow", "Fast", "Late"}, files), testPkg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "src/a/Slow.svelte", "run %d", run)
	}
}

func TestCollect_SourceReadError(t *testing.T) {
	loc := &bundle.Located{
		Exports: []string{"Ghost"},
		Sources: []bundle.Source{{Path: "src/x/Ghost.svelte", Component: "Ghost"}},
	}
	_, err := newTestCollector(map[string]string{}, 1).Collect(context.Background(), loc, testPkg)
	require.Error(t, err)
	assert.True(t, errors.IsSourceReadError(err))
	assert.Contains(t, err.Error(), "src/x/Ghost.svelte")
}

func TestCollect_AllParsesFinishBeforeMerge(t *testing.T) {
	files := map[string]string{}
	var exports []string
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("P%d", i)
		exports = append(exports, name)
		files["src/p/"+name+".svelte"] = ""
	}

	var mu sync.Mutex
	parsedCount := 0
	c := newTestCollector(files, 4)
	c.parser = ParserFunc(func(source string, opts ParseOptions) (*Documentation, error) {
		mu.Lock()
		defer mu.Unlock()
		parsedCount++
		return &Documentation{}, nil
	})

	m, err := c.Collect(context.Background(), locate(exports, files), testPkg)
	require.NoError(t, err)
	assert.Equal(t, 10, parsedCount)
	assert.Len(t, m.Groups().Members("p"), 10)
}

func TestCollect_CanceledContext(t *testing.T) {
	files := map[string]string{"src/a/A.svelte": ""}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCollector(files, 1).Collect(ctx, locate([]string{"A"}, files), testPkg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupKey(t *testing.T) {
	tests := []struct {
		path   string
		marker string
		want   string
	}{
		{"/lib/src/forms/Input/Input.svelte", "src/", "forms"},
		{"src/forms/Select.svelte", "src/", "forms"},
		{"/lib/src/Button.svelte", "src/", "src"},
		{"/lib/src/vendor/src/Deep/Deep.svelte", "src/", "Deep"},
		{"/lib/mysrc/widgets/Dial.svelte", "src/", "widgets"},
		{"/elsewhere/widgets/Dial.svelte", "src", "widgets"},
		{"/lib/components/layout/Grid.svelte", "components/", "layout"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupKey(tt.path, tt.marker))
		})
	}
}

func typeNames(defs []TypeDef) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
