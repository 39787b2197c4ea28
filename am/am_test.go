package am

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"

	"github.com/teranos/compdoc/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance: no project config, no env
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	want := Default()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("defaults mismatch:\n got %+v\nwant %+v", cfg, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaults_AllKeysSet(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"package.manifest", "package.json"},
		{"bundle.description", "bundle.json"},
		{"source.root_marker", "src/"},
		{"output.types", ""},
		{"output.index", "COMPONENT_INDEX.md"},
		{"output.api", "docs/src/PUBLIC_API.json"},
		{"collect.workers", 4},
		{"log.json", false},
		{"watch.debounce_ms", 300},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := v.Get(tt.key); got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"one worker", func(c *Config) { c.Collect.Workers = 1 }, false},
		{"zero workers", func(c *Config) { c.Collect.Workers = 0 }, true},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -1 }, true},
		{"zero debounce", func(c *Config) { c.Watch.DebounceMS = 0 }, false},
		{"no extensions", func(c *Config) { c.Source.Extensions = nil }, true},
		{"extension without dot", func(c *Config) { c.Source.Extensions = []string{"svelte"} }, true},
		{"empty root marker", func(c *Config) { c.Source.RootMarker = " " }, true},
		{"empty bundle", func(c *Config) { c.Bundle.Description = "" }, true},
		{"empty manifest", func(c *Config) { c.Package.Manifest = "" }, true},
		{"index equals api", func(c *Config) { c.Output.API = "./COMPONENT_INDEX.md" }, true},
		{"types equals index", func(c *Config) { c.Output.Types = "COMPONENT_INDEX.md" }, true},
		{"yaml api", func(c *Config) { c.Output.API = "docs/api.yaml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigName)
	content := `
[source]
root_marker = "lib/"
extensions = [".svelte", ".svx"]

[collect]
workers = 8
`
	if err := os.WriteFile(path, []byte(content), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if cfg.Source.RootMarker != "lib/" {
		t.Errorf("root marker = %q, want lib/", cfg.Source.RootMarker)
	}
	if !reflect.DeepEqual(cfg.Source.Extensions, []string{".svelte", ".svx"}) {
		t.Errorf("extensions = %v", cfg.Source.Extensions)
	}
	if cfg.Collect.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Collect.Workers)
	}
	// Untouched keys keep their defaults
	if cfg.Output.Index != DefaultIndexPath {
		t.Errorf("index = %q, want default", cfg.Output.Index)
	}
	if cfg.BaseDir != dir {
		t.Errorf("base dir = %q, want %q", cfg.BaseDir, dir)
	}
	if got := cfg.Resolve("bundle.json"); got != filepath.Join(dir, "bundle.json") {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigName)
	os.WriteFile(path, []byte("[collect]\nworkers = 8\n"), DefaultFilePermissions)
	t.Setenv("COMPDOC_COLLECT_WORKERS", "2")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if cfg.Collect.Workers != 2 {
		t.Errorf("workers = %d, want env value 2", cfg.Collect.Workers)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("found in ancestor", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "lib", "src", "forms")
		os.MkdirAll(subDir, DefaultDirPermissions)
		os.WriteFile(filepath.Join(tmpDir, "lib", ProjectConfigName), []byte(""), DefaultFilePermissions)

		t.Chdir(subDir)

		result := findProjectConfig()
		if result == "" {
			t.Fatal("expected to find config file")
		}
		if !filepath.IsAbs(result) {
			t.Error("expected absolute path")
		}
		if filepath.Base(filepath.Dir(result)) != "lib" {
			t.Errorf("expected lib/%s, got %s", ProjectConfigName, result)
		}
	})

	t.Run("no config found", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "other", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)

		t.Chdir(subDir)

		if result := findProjectConfig(); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

func TestLoad_ProjectConfig(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("[output]\nindex = \"docs/INDEX.md\"\n"), DefaultFilePermissions)
	t.Chdir(dir)

	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Output.Index != "docs/INDEX.md" {
		t.Errorf("index = %q, want docs/INDEX.md", cfg.Output.Index)
	}
	if ProjectConfigPath() == "" {
		t.Error("expected project config path to be recorded")
	}
	if got := ConfigSources["output.index"].Source; got != SourceProject {
		t.Errorf("output.index source = %q, want project", got)
	}
}

func TestLoad_MalformedProjectConfig(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("[output\nindex = \"docs/INDEX.md\"\n"), DefaultFilePermissions)
	t.Chdir(dir)

	Reset()
	t.Cleanup(Reset)

	_, err := Load()
	if !errors.Is(err, errors.ErrConfig) {
		t.Fatalf("expected ErrConfig for malformed %s, got %v", ProjectConfigName, err)
	}
	if _, err := Load(); err == nil {
		t.Error("second Load() must keep failing")
	}
}

func TestTypesPath(t *testing.T) {
	cfg := Default()
	if got := cfg.TypesPath("types/index.d.ts"); got != "types/index.d.ts" {
		t.Errorf("TypesPath() = %q, want package value", got)
	}
	cfg.Output.Types = "dist/index.d.ts"
	if got := cfg.TypesPath("types/index.d.ts"); got != "dist/index.d.ts" {
		t.Errorf("TypesPath() = %q, want configured value", got)
	}
}
