// Package typescript renders the type-declaration document for a RunManifest.
package typescript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/errors"
)

// Generator implements docgen.Emitter for TypeScript declarations
type Generator struct {
	formatter docgen.Formatter
}

// NewGenerator creates a TypeScript generator that passes its output through formatter
func NewGenerator(formatter docgen.Formatter) *Generator {
	return &Generator{formatter: formatter}
}

// Artifact returns "types"
func (g *Generator) Artifact() string {
	return "types"
}

// Emit renders and formats the declaration document
func (g *Generator) Emit(m *docgen.RunManifest) ([]byte, error) {
	text := GenerateFile(m)
	if g.formatter == nil {
		return []byte(text), nil
	}
	formatted, err := g.formatter.Format(text, docgen.SyntaxTypeScript)
	if err != nil {
		return nil, errors.NewFormatError(err, "type declarations")
	}
	return []byte(formatted), nil
}

// GenerateFile renders the unformatted declaration document:
// header, every deduplicated typedef in first-collected order, then one
// props interface and class per component sorted by name.
func GenerateFile(m *docgen.RunManifest) string {
	var sb strings.Builder

	if m.Package != nil {
		sb.WriteString(fmt.Sprintf("// Type definitions for %s %s\n", m.Package.Name, m.Package.Version))
		if m.Package.Homepage != "" {
			sb.WriteString(fmt.Sprintf("// Project: %s\n", m.Package.Homepage))
		}
	}
	sb.WriteString("// Code generated by compdoc from component sources. DO NOT EDIT.\n\n")
	sb.WriteString("/// <reference types=\"svelte\" />\n")
	sb.WriteString("import type { SvelteComponentTyped } from \"svelte\";\n")

	components := m.Components()
	for _, c := range components {
		if c.Doc.RestProps != nil {
			sb.WriteString("import type { SvelteHTMLElements } from \"svelte/elements\";\n")
			break
		}
	}
	sb.WriteString("\n")

	for _, td := range m.Types().All() {
		sb.WriteString(GenerateTypeDef(td))
		sb.WriteString("\n\n")
	}

	for i, c := range components {
		sb.WriteString(GenerateComponent(c))
		if i < len(components)-1 {
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// GenerateTypeDef renders one exported typedef declaration
func GenerateTypeDef(td docgen.TypeDef) string {
	var sb strings.Builder
	sb.WriteString(jsDoc(td.Description, nil, ""))

	decl := strings.TrimSpace(td.TS)
	switch {
	case strings.HasPrefix(decl, "type ") || strings.HasPrefix(decl, "interface "):
		sb.WriteString("export " + decl)
	case strings.HasPrefix(decl, "export "):
		sb.WriteString(decl)
	default:
		typ := strings.TrimSpace(td.Type)
		if typ == "" {
			typ = "any"
		}
		decl = fmt.Sprintf("type %s = %s", td.Name, typ)
		sb.WriteString("export " + decl)
	}
	if !strings.HasSuffix(decl, ";") && !strings.HasSuffix(decl, "}") {
		sb.WriteString(";")
	}
	return sb.String()
}

// GenerateComponent renders the props declaration and class for one component
func GenerateComponent(c *docgen.ComponentRecord) string {
	var sb strings.Builder
	propsName := c.Name + "Props"

	var fields []docgen.Prop
	var accessors []docgen.Prop
	for _, p := range c.Doc.Props {
		if p.Kind == docgen.PropLet {
			fields = append(fields, p)
		} else {
			accessors = append(accessors, p)
		}
	}

	if c.Doc.RestProps != nil {
		sb.WriteString(fmt.Sprintf("export type %s = SvelteHTMLElements[%q] & ", propsName, c.Doc.RestProps.Name))
	} else {
		sb.WriteString(fmt.Sprintf("export interface %s ", propsName))
	}
	if len(fields) == 0 {
		sb.WriteString("{}")
	} else {
		sb.WriteString("{\n")
		for i, p := range fields {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(generateProp(p))
		}
		sb.WriteString("}")
	}
	if c.Doc.RestProps != nil {
		sb.WriteString(";")
	}
	sb.WriteString("\n\n")

	sb.WriteString(jsDoc(c.Doc.Description, nil, ""))
	sb.WriteString(fmt.Sprintf("export class %s extends SvelteComponentTyped<%s, %s, %s> {",
		c.Name, propsName, eventsType(c.Doc.Events), slotsType(c.Doc.Slots)))
	if len(accessors) == 0 {
		sb.WriteString("}")
		return sb.String()
	}
	sb.WriteString("\n")
	for i, p := range accessors {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(jsDoc(p.Description, nil, ""))
		sb.WriteString(fmt.Sprintf("%s: %s;\n", propertyKey(p.Name), typeOrAny(p.Type)))
	}
	sb.WriteString("}")
	return sb.String()
}

func generateProp(p docgen.Prop) string {
	var tags []string
	if p.Value != "" {
		tags = append(tags, "@default "+oneLine(p.Value))
	}
	if p.Constant {
		tags = append(tags, "@constant")
	}

	optional := "?"
	if p.IsRequired {
		optional = ""
	}
	return jsDoc(p.Description, tags, "") +
		fmt.Sprintf("%s%s: %s;\n", propertyKey(p.Name), optional, typeOrAny(p.Type))
}

func eventsType(events []docgen.Event) string {
	if len(events) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(events))
	seen := make(map[string]bool)
	for _, e := range events {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		parts = append(parts, fmt.Sprintf("%s: %s", propertyKey(e.Name), eventType(e)))
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func eventType(e docgen.Event) string {
	if e.Kind == docgen.EventForwarded && e.Element != "" && isIdentifier(e.Name) {
		return fmt.Sprintf("WindowEventMap[%q]", e.Name)
	}
	return fmt.Sprintf("CustomEvent<%s>", typeOrAny(e.Detail))
}

func slotsType(slots []docgen.Slot) string {
	if len(slots) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		name := s.Name
		if s.Default || name == "" {
			name = "default"
		}
		props := strings.TrimSpace(s.SlotProps)
		if props == "" {
			props = "{}"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", propertyKey(name), props))
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func isIdentifier(s string) bool {
	return identifierRe.MatchString(s)
}

// propertyKey quotes names that are not valid identifiers (e.g. "on:click", "data-id")
func propertyKey(name string) string {
	if isIdentifier(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

func typeOrAny(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "any"
	}
	return t
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// jsDoc renders a JSDoc block, or nothing when there is no content
func jsDoc(description string, tags []string, indent string) string {
	description = strings.TrimSpace(description)
	if description == "" && len(tags) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	if description != "" {
		for _, line := range strings.Split(description, "\n") {
			line = strings.ReplaceAll(strings.TrimRight(line, " \t"), "*/", "*\\/")
			sb.WriteString(indent + " * " + line + "\n")
		}
	}
	for _, tag := range tags {
		sb.WriteString(indent + " * " + strings.ReplaceAll(tag, "*/", "*\\/") + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
