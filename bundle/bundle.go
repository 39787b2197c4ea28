// Package bundle describes the compiled library bundle and locates the
// component sources behind its entry-point exports.
//
// The bundle description is produced by the bundler and decoded from JSON:
//
//	{
//	  "output": [
//	    {"type": "chunk", "fileName": "index.mjs", "isEntry": true,
//	     "exports": ["Alert", "Toast"], "modules": ["/lib/src/Alert/Alert.svelte", ...]},
//	    {"type": "asset", "fileName": "index.css"}
//	  ]
//	}
package bundle

import (
	"encoding/json"
	"os"

	"github.com/teranos/compdoc/errors"
)

// Entry is one output of the bundler: either a *CodeChunk or an *Asset.
type Entry interface {
	// OutputName returns the emitted file name
	OutputName() string
	isEntry()
}

// CodeChunk is a code output. Only entry chunks define the public surface.
type CodeChunk struct {
	FileName string
	IsEntry  bool
	// Exports are the names exported by the chunk, in bundler order
	Exports []string
	// Modules are file-system paths of every module bundled into the chunk
	Modules []string
}

// Asset is a non-code output (stylesheet, image). It never contributes components.
type Asset struct {
	FileName string
}

func (c *CodeChunk) OutputName() string { return c.FileName }
func (a *Asset) OutputName() string     { return a.FileName }

func (*CodeChunk) isEntry() {}
func (*Asset) isEntry()     {}

// Bundle is the decoded bundle description.
type Bundle struct {
	Entries []Entry
}

// EntryChunks returns the code chunks marked as entry points, in bundle order.
func (b *Bundle) EntryChunks() []*CodeChunk {
	var chunks []*CodeChunk
	for _, e := range b.Entries {
		if c, ok := e.(*CodeChunk); ok && c.IsEntry {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// Entry type tags used in the JSON description
const (
	TypeChunk = "chunk"
	TypeAsset = "asset"
)

type rawEntry struct {
	Type     string   `json:"type"`
	FileName string   `json:"fileName"`
	IsEntry  bool     `json:"isEntry"`
	Exports  []string `json:"exports"`
	Modules  []string `json:"modules"`
}

type rawBundle struct {
	Output []rawEntry `json:"output"`
}

// Decode parses a JSON bundle description.
func Decode(data []byte) (*Bundle, error) {
	var raw rawBundle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrBundle), "failed to decode bundle description")
	}

	b := &Bundle{Entries: make([]Entry, 0, len(raw.Output))}
	for i, r := range raw.Output {
		switch r.Type {
		case TypeChunk:
			b.Entries = append(b.Entries, &CodeChunk{
				FileName: r.FileName,
				IsEntry:  r.IsEntry,
				Exports:  r.Exports,
				Modules:  r.Modules,
			})
		case TypeAsset:
			b.Entries = append(b.Entries, &Asset{FileName: r.FileName})
		default:
			return nil, errors.Mark(
				errors.Newf("output[%d] (%s): unknown entry type %q (expected %q or %q)",
					i, r.FileName, r.Type, TypeChunk, TypeAsset),
				errors.ErrBundle)
		}
	}
	return b, nil
}

// Load reads and decodes the bundle description at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrBundle), "failed to read bundle description %s", path)
	}
	b, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle description %s", path)
	}
	return b, nil
}
