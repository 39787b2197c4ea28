// Package am loads the compdoc configuration.
//
// Values come from built-in defaults, the project's compdoc.toml (found by
// walking up from the working directory) and COMPDOC_* environment variables,
// in increasing precedence. Command-line flags are applied by the caller.
package am

// Config represents the compdoc configuration
type Config struct {
	Package PackageConfig `mapstructure:"package" toml:"package"`
	Bundle  BundleConfig  `mapstructure:"bundle" toml:"bundle"`
	Source  SourceConfig  `mapstructure:"source" toml:"source"`
	Output  OutputConfig  `mapstructure:"output" toml:"output"`
	Collect CollectConfig `mapstructure:"collect" toml:"collect"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch"`

	// BaseDir is the directory relative paths are resolved against:
	// the directory of the config file, or the working directory
	BaseDir string `mapstructure:"-" toml:"-"`
}

// PackageConfig locates the package metadata
type PackageConfig struct {
	Manifest string `mapstructure:"manifest" toml:"manifest"` // package.json path
}

// BundleConfig locates the bundle description written by the bundler
type BundleConfig struct {
	Description string `mapstructure:"description" toml:"description"` // bundle.json path
}

// SourceConfig controls how component sources are matched and grouped
type SourceConfig struct {
	RootMarker string   `mapstructure:"root_marker" toml:"root_marker"` // group = directory after this marker (default: "src/")
	Extensions []string `mapstructure:"extensions" toml:"extensions"`   // component source extensions (default: [".svelte"])
}

// OutputConfig sets the artifact paths
type OutputConfig struct {
	Types string `mapstructure:"types" toml:"types"` // empty = package metadata "types", then types/index.d.ts
	Index string `mapstructure:"index" toml:"index"`
	API   string `mapstructure:"api" toml:"api"` // .yaml/.yml selects YAML
}

// CollectConfig configures the metadata collector
type CollectConfig struct {
	Workers int `mapstructure:"workers" toml:"workers"` // concurrent reads and parses (default: 4)
}

// LogConfig configures logging output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // quiet period before a rerun (default: 300)
}

// File and directory constants
const (
	ProjectConfigName      = "compdoc.toml"
	EnvPrefix              = "COMPDOC"
	DefaultFilePermissions = 0644
	DefaultDirPermissions  = 0755
)
