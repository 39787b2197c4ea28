// Package commands implements the compdoc command line.
package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/compdoc/am"
	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/logger"
)

// options holds the global flags shared by every command
type options struct {
	configPath  string
	bundlePath  string
	packagePath string
	workers     int
	jsonLogs    bool
	verbosity   int
}

// flagKeys maps global flags to the config keys they override
var flagKeys = map[string]string{
	"bundle":    "bundle.description",
	"package":   "package.manifest",
	"workers":   "collect.workers",
	"json-logs": "log.json",
}

// NewRootCmd builds the compdoc command tree.
// Running compdoc without a subcommand generates every artifact.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "compdoc",
		Short: "Generate type declarations and docs for a bundled component library",
		Long: `compdoc runs after the library bundle is written. It locates the source
file of every exported component, extracts its documentation and writes:

  types/index.d.ts      - TypeScript declarations (path from package.json "types")
  COMPONENT_INDEX.md    - human-readable component index
  PUBLIC_API.json       - machine-readable public API manifest

Examples:
  compdoc                  # Generate all artifacts
  compdoc --watch          # Regenerate whenever sources or the bundle change
  compdoc check            # Fail if committed artifacts are out of date
  compdoc config           # Show effective configuration and its sources`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			jsonLogs := opts.jsonLogs
			if !cmd.Flags().Changed("json-logs") {
				if cfg, err := loadBaseConfig(opts); err == nil {
					jsonLogs = cfg.Log.JSON
				}
			}
			if err := logger.Initialize(jsonLogs, opts.verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("Logger initialized", "verbosity", logger.LevelName(opts.verbosity))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: nearest "+am.ProjectConfigName+")")
	flags.StringVar(&opts.bundlePath, "bundle", "", "Bundle description written by the bundler")
	flags.StringVar(&opts.packagePath, "package", "", "Package metadata file")
	flags.IntVar(&opts.workers, "workers", 0, "Concurrent source reads and parses")
	flags.BoolVar(&opts.jsonLogs, "json-logs", false, "Log as JSON")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	generate := newGenerateCmd(opts)
	rootCmd.RunE = generate.RunE
	rootCmd.Flags().AddFlagSet(generate.Flags())

	rootCmd.AddCommand(generate)
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadBaseConfig loads the config file and environment without flag overrides
func loadBaseConfig(opts *options) (*am.Config, error) {
	if opts.configPath != "" {
		return am.LoadFromFile(opts.configPath)
	}
	return am.Load()
}

// loadConfig loads the configuration, applies flag overrides and validates it.
// It also returns the overridden keys for introspection.
func loadConfig(cmd *cobra.Command, opts *options) (*am.Config, map[string]string, error) {
	loaded, err := loadBaseConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	// am.Load caches its result; overrides must not leak into the cache
	cfg := *loaded
	cfg.Source.Extensions = append([]string(nil), loaded.Source.Extensions...)

	overridden := make(map[string]string)
	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			overridden[key] = flag
		}
	}
	if cmd.Flags().Changed("bundle") {
		cfg.Bundle.Description = absPath(opts.bundlePath)
	}
	if cmd.Flags().Changed("package") {
		cfg.Package.Manifest = absPath(opts.packagePath)
	}
	if cmd.Flags().Changed("workers") {
		cfg.Collect.Workers = opts.workers
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.Log.JSON = opts.jsonLogs
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, overridden, nil
}

// absPath makes a flag path relative to the working directory absolute
func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
