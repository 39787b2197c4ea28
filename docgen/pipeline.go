package docgen

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/compdoc/bundle"
	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/logger"
	"github.com/teranos/compdoc/pkgmeta"
)

// Target pairs an emitter with the path its artifact is written to
type Target struct {
	Path    string
	Emitter Emitter
}

// Artifact is one rendered output document
type Artifact struct {
	Name    string
	Path    string
	Content []byte
}

// Result is the outcome of a successful run
type Result struct {
	RunID     string
	Manifest  *RunManifest
	Artifacts []Artifact
}

// Pipeline runs locate -> collect -> emit for one build.
// A Pipeline keeps no state between runs.
type Pipeline struct {
	Collector  *Collector
	Extensions []string
	Targets    []Target
}

// Run generates every artifact in memory. On error no artifact is returned.
func (p *Pipeline) Run(ctx context.Context, b *bundle.Bundle, pkg *pkgmeta.Package) (*Result, error) {
	if p.Collector == nil {
		return nil, errors.AssertionFailedf("pipeline has no collector")
	}

	runID := uuid.New().String()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.LoggerFromContext(ctx)
	start := time.Now()

	loc := bundle.Locate(b, p.Extensions)
	log.Infow("Located component sources",
		logger.FieldTotalCount, len(loc.Exports),
		logger.FieldCount, len(loc.Sources))

	manifest, err := p.Collector.Collect(ctx, loc, pkg)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(p.Targets))
	for _, t := range p.Targets {
		content, err := t.Emitter.Emit(manifest)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to emit %s", t.Emitter.Artifact())
		}
		artifacts = append(artifacts, Artifact{
			Name:    t.Emitter.Artifact(),
			Path:    t.Path,
			Content: content,
		})
	}

	log.Infow("Generated artifacts",
		logger.FieldCount, len(artifacts),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{RunID: runID, Manifest: manifest, Artifacts: artifacts}, nil
}
