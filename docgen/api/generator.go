// Package api builds the machine-readable public-API manifest.
//
// The manifest is a tree mirroring the RunManifest: components grouped under
// their group key, each with its documentation block and every typedef it
// declares inlined. Components without a source are listed under Ungrouped.
package api

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/errors"
)

// PublicAPI is the root of the manifest
type PublicAPI struct {
	Package   string      `json:"package" yaml:"package"`
	Version   string      `json:"version" yaml:"version"`
	Total     int         `json:"total" yaml:"total"`
	Groups    []Group     `json:"groups" yaml:"groups"`
	Ungrouped []Component `json:"ungrouped" yaml:"ungrouped"`
}

// Group holds the components sharing a group key, in collection order
type Group struct {
	Name       string      `json:"name" yaml:"name"`
	Components []Component `json:"components" yaml:"components"`
}

// Component is one exported component and its full public surface
type Component struct {
	ModuleName  string            `json:"moduleName" yaml:"moduleName"`
	FilePath    string            `json:"filePath" yaml:"filePath"`
	Group       string            `json:"group" yaml:"group"`
	Description string            `json:"description" yaml:"description"`
	Props       []docgen.Prop     `json:"props" yaml:"props"`
	Events      []docgen.Event    `json:"events" yaml:"events"`
	Slots       []docgen.Slot     `json:"slots" yaml:"slots"`
	RestProps   *docgen.RestProps `json:"rest_props,omitempty" yaml:"rest_props,omitempty"`
	TypeDefs    []docgen.TypeDef  `json:"typedefs" yaml:"typedefs"`
}

// Encoding selects the serialization of the manifest
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingForPath returns YAML for .yaml/.yml paths and JSON otherwise
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingJSON
	}
}

// Build converts the manifest into its public-API tree. It is a pure function of m.
func Build(m *docgen.RunManifest) *PublicAPI {
	out := &PublicAPI{
		Groups:    []Group{},
		Ungrouped: []Component{},
	}
	if m.Package != nil {
		out.Package = m.Package.Name
		out.Version = m.Package.Version
	}

	groups := m.Groups()
	for _, name := range groups.Groups() {
		g := Group{Name: name, Components: []Component{}}
		for _, member := range groups.Members(name) {
			c, _ := m.Component(member)
			g.Components = append(g.Components, component(m, c))
			out.Total++
		}
		out.Groups = append(out.Groups, g)
	}

	for _, c := range m.Components() {
		if !c.Located {
			out.Ungrouped = append(out.Ungrouped, component(m, c))
			out.Total++
		}
	}
	return out
}

func component(m *docgen.RunManifest, c *docgen.ComponentRecord) Component {
	return Component{
		ModuleName:  c.Name,
		FilePath:    filepath.ToSlash(c.Source),
		Group:       c.Group,
		Description: c.Doc.Description,
		Props:       orEmpty(c.Doc.Props),
		Events:      orEmpty(c.Doc.Events),
		Slots:       orEmpty(c.Doc.Slots),
		RestProps:   c.Doc.RestProps,
		TypeDefs:    m.ResolveTypeRefs(c),
	}
}

// orEmpty keeps nil slices from serializing as null
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Generator implements docgen.Emitter for the public-API manifest
type Generator struct {
	encoding Encoding
}

// NewGenerator creates a manifest emitter for encoding
func NewGenerator(encoding Encoding) *Generator {
	return &Generator{encoding: encoding}
}

// Artifact returns "api"
func (g *Generator) Artifact() string {
	return "api"
}

// Emit serializes Build(m)
func (g *Generator) Emit(m *docgen.RunManifest) ([]byte, error) {
	return Marshal(Build(m), g.encoding)
}

// Marshal serializes the manifest with stable key order, ending in a newline
func Marshal(api *PublicAPI, encoding Encoding) ([]byte, error) {
	switch encoding {
	case EncodingJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(api); err != nil {
			return nil, errors.Wrap(err, "failed to encode public API as JSON")
		}
		return buf.Bytes(), nil
	case EncodingYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(api); err != nil {
			return nil, errors.Wrap(err, "failed to encode public API as YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode public API as YAML")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Newf("unknown public API encoding %q", encoding)
	}
}
