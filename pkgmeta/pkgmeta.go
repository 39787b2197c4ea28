// Package pkgmeta reads the library's package metadata (package.json).
package pkgmeta

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/compdoc/errors"
)

// DefaultTypesPath is used when the manifest declares no "types" entry
const DefaultTypesPath = "types/index.d.ts"

// Package is the subset of package metadata the generator needs.
type Package struct {
	Name     string
	Version  string
	Homepage string
	// Types is the declared output path of the type-declaration document
	Types string
}

type rawPackage struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Homepage string `json:"homepage"`
	Types    string `json:"types"`
	Typings  string `json:"typings"`
}

// Parse decodes and validates package metadata.
// The version must be valid semver; it is stored in canonical form.
func Parse(data []byte) (*Package, error) {
	var raw rawPackage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrConfig), "failed to decode package metadata")
	}

	if strings.TrimSpace(raw.Name) == "" {
		return nil, errors.NewConfigError("package metadata has no name")
	}

	ver, err := semver.NewVersion(raw.Version)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.Mark(err, errors.ErrConfig), "invalid package version %q", raw.Version),
			"package.json \"version\" must be a semantic version such as 1.4.0")
	}

	types := raw.Types
	if types == "" {
		types = raw.Typings
	}
	if types == "" {
		types = DefaultTypesPath
	}

	return &Package{
		Name:     raw.Name,
		Version:  ver.String(),
		Homepage: raw.Homepage,
		Types:    types,
	}, nil
}

// Load reads package metadata from path.
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrConfig), "failed to read package metadata %s", path)
	}
	pkg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "package metadata %s", path)
	}
	return pkg, nil
}

// ID returns "name@version".
func (p *Package) ID() string {
	return p.Name + "@" + p.Version
}
