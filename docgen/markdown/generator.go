// Package markdown renders the human-readable component index.
//
// Groups appear in collection order and form the table of contents; each
// located component then gets a section with its import snippet, types,
// props, slots and events.
package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/docgen/typescript"
	"github.com/teranos/compdoc/errors"
)

// NoDescription is used in the table of contents when a component has none
const NoDescription = "No description."

// Generator implements docgen.Emitter for the component index
type Generator struct {
	formatter docgen.Formatter
}

// NewGenerator creates an index generator that passes its output through formatter
func NewGenerator(formatter docgen.Formatter) *Generator {
	return &Generator{formatter: formatter}
}

// Artifact returns "index"
func (g *Generator) Artifact() string {
	return "index"
}

// Emit renders and formats the component index
func (g *Generator) Emit(m *docgen.RunManifest) ([]byte, error) {
	text := GenerateIndex(m)
	if g.formatter == nil {
		return []byte(text), nil
	}
	formatted, err := g.formatter.Format(text, docgen.SyntaxMarkdown)
	if err != nil {
		return nil, errors.NewFormatError(err, "component index")
	}
	return []byte(formatted), nil
}

// GenerateIndex renders the unformatted index document
func GenerateIndex(m *docgen.RunManifest) string {
	var sb strings.Builder
	components := m.Components()

	sb.WriteString("# Component Index\n\n")
	if m.Package != nil {
		sb.WriteString(fmt.Sprintf("> %d components exported from %s@%s.\n\n", len(components), m.Package.Name, m.Package.Version))
	} else {
		sb.WriteString(fmt.Sprintf("> %d components exported.\n\n", len(components)))
	}

	sb.WriteString("## Components\n\n")
	groups := m.Groups()
	for _, group := range groups.Groups() {
		sb.WriteString(fmt.Sprintf("### %s\n\n", group))
		for _, name := range groups.Members(group) {
			c, _ := m.Component(name)
			sb.WriteString(tocEntry(c))
		}
		sb.WriteString("\n")
	}

	var unlocated []*docgen.ComponentRecord
	for _, c := range components {
		if !c.Located {
			unlocated = append(unlocated, c)
		}
	}
	if len(unlocated) > 0 {
		sb.WriteString("### Without source\n\n")
		for _, c := range unlocated {
			sb.WriteString(fmt.Sprintf("- `%s`\n", c.Name))
		}
		sb.WriteString("\n")
	}

	for _, group := range groups.Groups() {
		for _, name := range groups.Members(group) {
			c, _ := m.Component(name)
			sb.WriteString("---\n\n")
			writeComponent(&sb, m, c)
		}
	}

	return sb.String()
}

func tocEntry(c *docgen.ComponentRecord) string {
	return fmt.Sprintf("- [`%s`](#%s): %s\n", c.Name, Anchor(c.Name), ShortDescription(c.Doc.Description))
}

func writeComponent(sb *strings.Builder, m *docgen.RunManifest, c *docgen.ComponentRecord) {
	sb.WriteString(fmt.Sprintf("## `%s`\n\n", c.Name))
	if d := strings.TrimSpace(c.Doc.Description); d != "" {
		sb.WriteString(closeFences(d) + "\n\n")
	}

	sb.WriteString("### Import\n\n")
	pkgName := "<package>"
	if m.Package != nil {
		pkgName = m.Package.Name
	}
	sb.WriteString(fmt.Sprintf("```js\nimport { %s } from %q;\n```\n\n", c.Name, pkgName))

	if refs := m.ResolveTypeRefs(c); len(refs) > 0 {
		sb.WriteString("### Types\n\n```ts\n")
		for i, td := range refs {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(typescript.GenerateTypeDef(td))
		}
		sb.WriteString("\n```\n\n")
	}

	sb.WriteString("### Props\n\n")
	if len(c.Doc.Props) == 0 {
		sb.WriteString("None.\n\n")
	} else {
		sb.WriteString("| Prop name | Kind | Reactive | Type | Default value | Description |\n")
		sb.WriteString("| :- | :- | :- | :- | :- | :- |\n")
		for _, p := range c.Doc.Props {
			name := p.Name
			if p.IsRequired {
				name += " (required)"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				cell(name), cell(p.Kind), yesNo(p.Reactive), code(p.Type), code(p.Value), cell(p.Description)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### Slots\n\n")
	if len(c.Doc.Slots) == 0 {
		sb.WriteString("None.\n\n")
	} else {
		sb.WriteString("| Slot name | Default | Props | Fallback |\n")
		sb.WriteString("| :- | :- | :- | :- |\n")
		for _, s := range c.Doc.Slots {
			name := s.Name
			if s.Default {
				name = "--"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				cell(name), yesNo(s.Default), code(s.SlotProps), code(s.Fallback)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("### Events\n\n")
	if len(c.Doc.Events) == 0 {
		sb.WriteString("None.\n\n")
	} else {
		sb.WriteString("| Event name | Type | Detail |\n")
		sb.WriteString("| :- | :- | :- |\n")
		for _, e := range c.Doc.Events {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", cell(e.Name), cell(e.Kind), code(e.Detail)))
		}
		sb.WriteString("\n")
	}
}

// ShortDescription returns the first sentence of description on one line
func ShortDescription(description string) string {
	d := strings.Join(strings.Fields(description), " ")
	if d == "" {
		return NoDescription
	}
	if i := strings.Index(d, ". "); i >= 0 {
		d = d[:i+1]
	}
	return escape(d)
}

// Anchor returns the heading anchor for a component section
func Anchor(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// closeFences terminates a code fence left open in free text so it cannot
// swallow the rest of the document
func closeFences(text string) string {
	open := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if open == "" {
			if fence := fenceRun(trimmed); fence != "" {
				open = fence
			}
			continue
		}
		if strings.HasPrefix(trimmed, open) && strings.TrimSpace(strings.TrimLeft(trimmed, open[:1])) == "" {
			open = ""
		}
	}
	if open != "" {
		return text + "\n" + open
	}
	return text
}

// fenceRun returns the leading ``` or ~~~ run of line, or ""
func fenceRun(line string) string {
	for _, marker := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == marker {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br />")
}

func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "--"
	}
	return escape(s)
}

func code(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "--"
	}
	if strings.Contains(s, "`") {
		return "`` " + escape(s) + " ``"
	}
	return "`" + escape(s) + "`"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
