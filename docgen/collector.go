package docgen

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/compdoc/bundle"
	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/logger"
	"github.com/teranos/compdoc/pkgmeta"
)

// DefaultRootMarker is the path segment that precedes group directories
const DefaultRootMarker = "src/"

// DefaultWorkers bounds concurrent source reads when no limit is configured
const DefaultWorkers = 4

// CollectorConfig holds collection settings
type CollectorConfig struct {
	// RootMarker precedes the group directory in source paths (e.g. "src/")
	RootMarker string
	// Workers bounds concurrent read+parse tasks
	Workers int
	// Dir resolves relative source paths; empty means the working directory
	Dir string
}

// Collector reads and parses located component sources into a RunManifest.
type Collector struct {
	parser   Parser
	config   CollectorConfig
	readFile func(string) ([]byte, error)
	logger   *zap.SugaredLogger
}

// NewCollector creates a collector using parser for every source
func NewCollector(parser Parser, config CollectorConfig) *Collector {
	if config.RootMarker == "" {
		config.RootMarker = DefaultRootMarker
	}
	if config.Workers < 1 {
		config.Workers = DefaultWorkers
	}
	return &Collector{
		parser:   parser,
		config:   config,
		readFile: os.ReadFile,
		logger:   logger.ComponentLogger("docgen.collector"),
	}
}

// parsed is the per-file outcome of the concurrent phase
type parsed struct {
	doc      *Documentation
	typedefs []TypeDef
	err      error
}

// Collect registers every export as a placeholder, reads and parses each
// located source, and merges the results in path order.
//
// Reads and parses run concurrently. Merging starts only after all of them
// have finished, so the dedup set is written by one goroutine in a fixed order.
// The first failing source (in path order) aborts the run.
func (c *Collector) Collect(ctx context.Context, loc *bundle.Located, pkg *pkgmeta.Package) (*RunManifest, error) {
	log := c.logger.With(logger.FieldsFromContext(ctx)...)
	start := time.Now()

	b := NewBuilder()
	for _, name := range loc.Exports {
		b.RegisterExport(name)
	}
	for _, s := range loc.Shadowed {
		log.Debugw("Skipping source for already located component",
			logger.FieldComponent, s.Component,
			logger.FieldFile, s.Path)
	}

	// No shared cancel: every parse runs, and the first error in path order wins
	results := make([]parsed, len(loc.Sources))
	var eg errgroup.Group
	eg.SetLimit(c.config.Workers)

	for i, src := range loc.Sources {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = parsed{err: err}
				return nil
			}
			results[i] = c.parseSource(src)
			return nil
		})
	}

	// Barrier: nothing below runs until every task has returned
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
	}

	for i, src := range loc.Sources {
		group := GroupKey(src.Path, c.config.RootMarker)
		rec := b.Populate(src, group, results[i].doc, results[i].typedefs)
		log.Debugw("Collected component",
			logger.FieldComponent, rec.Name,
			logger.FieldGroup, group,
			logger.FieldCount, len(rec.TypeDefs))
	}

	m := b.Build(pkg)
	log.Infow("Collected component metadata",
		logger.FieldTotalCount, len(loc.Exports),
		logger.FieldCount, len(loc.Sources),
		"typedefs", m.Types().Len(),
		"shared_typedefs_dropped", b.Collisions(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return m, nil
}

func (c *Collector) parseSource(src bundle.Source) parsed {
	readPath := src.Path
	if c.config.Dir != "" && !filepath.IsAbs(readPath) {
		readPath = filepath.Join(c.config.Dir, readPath)
	}
	data, err := c.readFile(readPath)
	if err != nil {
		return parsed{err: errors.NewSourceReadError(err, src.Path)}
	}

	var typedefs []TypeDef
	doc, err := c.parser.Parse(string(data), ParseOptions{
		Component: src.Component,
		OnTypeDef: func(td TypeDef) {
			typedefs = append(typedefs, td)
		},
	})
	if err != nil {
		return parsed{err: errors.NewParseError(err, src.Path)}
	}
	return parsed{doc: doc, typedefs: typedefs}
}

// GroupKey derives a component's group from its source path: the directory
// immediately after the last rootMarker occurrence.
//
//	GroupKey("/lib/src/forms/Input/Input.svelte", "src/") -> "forms"
//	GroupKey("/lib/src/Button.svelte", "src/")            -> "src"
//	GroupKey("/elsewhere/widgets/Dial.svelte", "src/")   -> "widgets"
func GroupKey(sourcePath, rootMarker string) string {
	p := filepath.ToSlash(sourcePath)
	marker := rootMarker
	if !strings.HasSuffix(marker, "/") {
		marker += "/"
	}

	if i := lastSegmentIndex(p, marker); i >= 0 {
		rest := p[i+len(marker):]
		if j := strings.Index(rest, "/"); j >= 0 {
			return rest[:j]
		}
		// File sits directly in the source root
		return path.Base(strings.TrimSuffix(marker, "/"))
	}
	return path.Base(path.Dir(p))
}

// lastSegmentIndex returns the index of the last occurrence of marker that
// starts a path segment, or -1. "mysrc/" does not match marker "src/".
func lastSegmentIndex(p, marker string) int {
	for end := len(p); end > 0; {
		i := strings.LastIndex(p[:end], marker)
		if i < 0 {
			return -1
		}
		if i == 0 || p[i-1] == '/' {
			return i
		}
		end = i + len(marker) - 1
	}
	return -1
}
