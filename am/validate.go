package am

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/compdoc/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Package.Manifest) == "" {
		return errors.NewConfigError("package.manifest cannot be empty")
	}
	if strings.TrimSpace(c.Bundle.Description) == "" {
		return errors.NewConfigError("bundle.description cannot be empty")
	}

	if strings.TrimSpace(c.Source.RootMarker) == "" {
		return errors.NewConfigError("source.root_marker cannot be empty (default %q)", DefaultRootMarker)
	}
	if len(c.Source.Extensions) == 0 {
		return errors.NewConfigError("source.extensions must list at least one extension")
	}
	for _, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.NewConfigError("source.extensions entry %q must start with \".\"", ext)
		}
	}

	if c.Output.Index == "" {
		return errors.NewConfigError("output.index cannot be empty")
	}
	if c.Output.API == "" {
		return errors.NewConfigError("output.api cannot be empty")
	}
	if c.Output.Types != "" && filepath.Clean(c.Output.Types) == filepath.Clean(c.Output.Index) {
		return errors.NewConfigError("output.types and output.index both write %s", c.Output.Index)
	}
	if filepath.Clean(c.Output.Index) == filepath.Clean(c.Output.API) {
		return errors.NewConfigError("output.index and output.api both write %s", c.Output.API)
	}

	// Workers: at least one; there is no "disabled" collector
	if c.Collect.Workers < 1 {
		return errors.NewConfigError("collect.workers must be >= 1, got %d", c.Collect.Workers)
	}
	if c.Watch.DebounceMS < 0 {
		return errors.NewConfigError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// UnknownKeys returns the keys of a config file that no setting reads,
// sorted. Viper ignores them silently, which hides typos.
func UnknownKeys(configPath string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrConfig), "failed to decode %s", configPath)
	}

	var keys []string
	for _, k := range md.Undecoded() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys, nil
}
