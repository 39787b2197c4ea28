// Package format is the default formatting service for generated documents.
//
// It does not reflow code. It re-indents TypeScript by bracket depth, aligns
// markdown tables and normalizes whitespace, and it rejects text whose
// structure is broken (unbalanced brackets, unterminated strings, comments or
// code fences). The output is a pure function of the input.
package format

import (
	"strings"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/errors"
)

// Formatter implements docgen.Formatter
type Formatter struct {
	// Indent is the unit used for TypeScript nesting
	Indent string
}

// New creates a formatter indenting with two spaces
func New() *Formatter {
	return &Formatter{Indent: "  "}
}

// Format formats text according to syntax
func (f *Formatter) Format(text string, syntax docgen.Syntax) (string, error) {
	switch syntax {
	case docgen.SyntaxTypeScript:
		return f.typescript(text)
	case docgen.SyntaxMarkdown:
		return markdown(text)
	default:
		return "", errors.Newf("unsupported syntax %q", syntax)
	}
}

// finish trims trailing whitespace, collapses runs of blank lines and
// terminates the text with exactly one newline.
func finish(lines []string) string {
	var sb strings.Builder
	blank := false
	wrote := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank = wrote
			continue
		}
		if blank {
			sb.WriteString("\n")
			blank = false
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		wrote = true
	}
	return sb.String()
}
