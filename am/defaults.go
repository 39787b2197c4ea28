package am

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultPackageManifest   = "package.json"
	DefaultBundleDescription = "bundle.json"
	DefaultRootMarker        = "src/"
	DefaultIndexPath         = "COMPONENT_INDEX.md"
	DefaultAPIPath           = "docs/src/PUBLIC_API.json"
	DefaultWorkers           = 4
	DefaultDebounceMS        = 300
)

// DefaultExtensions are the component source extensions matched by default
var DefaultExtensions = []string{".svelte"}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("package.manifest", DefaultPackageManifest)
	v.SetDefault("bundle.description", DefaultBundleDescription)

	v.SetDefault("source.root_marker", DefaultRootMarker)
	v.SetDefault("source.extensions", DefaultExtensions)

	v.SetDefault("output.types", "") // resolved from package metadata
	v.SetDefault("output.index", DefaultIndexPath)
	v.SetDefault("output.api", DefaultAPIPath)

	v.SetDefault("collect.workers", DefaultWorkers)
	v.SetDefault("log.json", false)
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns the configuration with every default applied
func Default() *Config {
	return &Config{
		Package: PackageConfig{Manifest: DefaultPackageManifest},
		Bundle:  BundleConfig{Description: DefaultBundleDescription},
		Source: SourceConfig{
			RootMarker: DefaultRootMarker,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
		Output: OutputConfig{
			Index: DefaultIndexPath,
			API:   DefaultAPIPath,
		},
		Collect: CollectConfig{Workers: DefaultWorkers},
		Watch:   WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}

// Resolve returns p relative to BaseDir unless it is absolute
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// TypesPath returns the type-declaration output path.
// An empty output.types defers to the package metadata.
func (c *Config) TypesPath(fromPackage string) string {
	if c.Output.Types != "" {
		return c.Output.Types
	}
	return fromPackage
}

// Debounce returns the watch quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Bundle: %s, Package: %s, RootMarker: %s, Workers: %d}",
		c.Bundle.Description, c.Package.Manifest, c.Source.RootMarker, c.Collect.Workers)
}
