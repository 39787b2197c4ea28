package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/compdoc/am"
	"github.com/teranos/compdoc/bundle"
	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/docgen/api"
	"github.com/teranos/compdoc/docgen/markdown"
	"github.com/teranos/compdoc/docgen/typescript"
	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/format"
	"github.com/teranos/compdoc/logger"
	"github.com/teranos/compdoc/parser/svelte"
	"github.com/teranos/compdoc/pkgmeta"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write type declarations, the component index and the API manifest",
		Long: `Generate every artifact from the bundle description and the component sources.

Nothing is written unless all three artifacts render. With --watch the whole
pipeline reruns whenever the bundle, the package metadata, the config file or
a component source changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			inputs, err := generate(ctx, cfg)
			if err != nil {
				return err
			}
			if !watch {
				return nil
			}
			reload := func() (*am.Config, error) {
				am.Reset()
				cfg, _, err := loadConfig(cmd, opts)
				return cfg, err
			}
			return watchAndGenerate(ctx, cfg, inputs, opts.configPath, reload)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate whenever inputs change")
	return cmd
}

// runInputs is what one run read from disk
type runInputs struct {
	Bundle  *bundle.Bundle
	Package *pkgmeta.Package
	Result  *docgen.Result
}

// render loads the inputs and renders every artifact in memory
func render(ctx context.Context, cfg *am.Config) (*runInputs, error) {
	pkg, err := pkgmeta.Load(cfg.Resolve(cfg.Package.Manifest))
	if err != nil {
		return nil, err
	}
	b, err := bundle.Load(cfg.Resolve(cfg.Bundle.Description))
	if err != nil {
		return nil, err
	}

	result, err := newPipeline(cfg, pkg).Run(ctx, b, pkg)
	if err != nil {
		return nil, err
	}
	return &runInputs{Bundle: b, Package: pkg, Result: result}, nil
}

// generate renders and writes every artifact
func generate(ctx context.Context, cfg *am.Config) (*runInputs, error) {
	inputs, err := render(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := docgen.WriteArtifacts(inputs.Result.Artifacts, cfg.BaseDir); err != nil {
		return nil, err
	}

	pterm.Success.Printf("Generated %d artifacts for %d components of %s\n",
		len(inputs.Result.Artifacts), len(inputs.Result.Manifest.Components()), inputs.Package.ID())
	for _, a := range inputs.Result.Artifacts {
		pterm.Printf("  %s → %s\n", a.Name, a.Path)
	}
	return inputs, nil
}

// newPipeline wires the default parser, formatter and emitters from cfg
func newPipeline(cfg *am.Config, pkg *pkgmeta.Package) *docgen.Pipeline {
	formatter := format.New()
	collector := docgen.NewCollector(svelte.New(), docgen.CollectorConfig{
		RootMarker: cfg.Source.RootMarker,
		Workers:    cfg.Collect.Workers,
		Dir:        cfg.BaseDir,
	})

	return &docgen.Pipeline{
		Collector:  collector,
		Extensions: cfg.Source.Extensions,
		Targets: []docgen.Target{
			{Path: cfg.TypesPath(pkg.Types), Emitter: typescript.NewGenerator(formatter)},
			{Path: cfg.Output.Index, Emitter: markdown.NewGenerator(formatter)},
			{Path: cfg.Output.API, Emitter: api.NewGenerator(api.EncodingForPath(cfg.Output.API))},
		},
	}
}

// watchPaths lists the inputs and source directories a run depends on
func watchPaths(cfg *am.Config, inputs *runInputs, configPath string) []string {
	paths := []string{
		filepath.Dir(cfg.Resolve(cfg.Bundle.Description)),
		filepath.Dir(cfg.Resolve(cfg.Package.Manifest)),
	}
	if configPath != "" {
		paths = append(paths, filepath.Dir(configPath))
	} else if p := am.ProjectConfigPath(); p != "" {
		paths = append(paths, filepath.Dir(p))
	}
	for _, dir := range bundle.Locate(inputs.Bundle, cfg.Source.Extensions).Dirs() {
		paths = append(paths, cfg.Resolve(dir))
	}
	return paths
}

// watchAndGenerate reruns the whole pipeline after every settled change
// until ctx is canceled. The configuration is reloaded before each run.
func watchAndGenerate(ctx context.Context, cfg *am.Config, inputs *runInputs, configPath string, reload func() (*am.Config, error)) error {
	w, err := am.NewWatcher(watchPaths(cfg, inputs, configPath), cfg.Debounce(), func(changed []string) error {
		logger.Infow("Inputs changed, regenerating",
			logger.FieldCount, len(changed))
		next, err := reload()
		if err != nil {
			pterm.Error.Println(err)
			return err
		}
		if _, err := generate(ctx, next); err != nil {
			pterm.Error.Println(err)
			return err
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to start watch mode")
	}
	defer w.Stop()

	for _, a := range inputs.Result.Artifacts {
		w.Ignore(cfg.Resolve(a.Path))
	}
	w.Start()

	pterm.Info.Println("Watching for changes (Ctrl+C to stop)")
	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return nil
}
