// Package docgen generates the public-surface artifacts of a compiled
// component library: a type-declaration document, a component index and a
// machine-readable public-API manifest.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Collection (collector.go) matches bundle exports to component sources,
//     parses each source through an injected Parser and builds one immutable
//     RunManifest.
//  2. Emitters (typescript/, markdown/, api/) render the RunManifest. Each
//     emitter runs exactly once per run and never mutates the manifest.
//
// # Design Decisions
//
//   - Sources are read and parsed concurrently, but every collected result is
//     merged in lexicographic path order after a barrier, so typedef
//     deduplication ("first writer wins") is reproducible.
//   - All artifacts are rendered in memory first; nothing is written unless
//     every emitter succeeded.
//   - Deterministic output (sorted components, ordered groups) enables CI
//     validation via `compdoc check`.
package docgen

// Syntax selects the formatting rules applied to generated text
type Syntax string

const (
	SyntaxTypeScript Syntax = "typescript"
	SyntaxMarkdown   Syntax = "markdown"
)

// ParseOptions are passed to the Parser for one component source.
type ParseOptions struct {
	// Component is the derived module name of the source
	Component string
	// OnTypeDef is invoked once per type tag, in declaration order
	OnTypeDef func(TypeDef)
}

// Parser extracts documentation metadata from one component source.
// Implementations must be safe for concurrent use.
type Parser interface {
	Parse(source string, opts ParseOptions) (*Documentation, error)
}

// ParserFunc adapts a function to the Parser interface
type ParserFunc func(source string, opts ParseOptions) (*Documentation, error)

// Parse calls f(source, opts)
func (f ParserFunc) Parse(source string, opts ParseOptions) (*Documentation, error) {
	return f(source, opts)
}

// Formatter pretty-prints generated text. It must be deterministic and
// side-effect free; an error means the input was structurally invalid.
type Formatter interface {
	Format(text string, syntax Syntax) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc func(text string, syntax Syntax) (string, error)

// Format calls f(text, syntax)
func (f FormatterFunc) Format(text string, syntax Syntax) (string, error) {
	return f(text, syntax)
}

// Emitter renders one artifact from a RunManifest.
type Emitter interface {
	// Artifact names the artifact for logs and errors (e.g. "types")
	Artifact() string
	// Emit renders the artifact. It must be a pure function of the manifest.
	Emit(m *RunManifest) ([]byte, error)
}
