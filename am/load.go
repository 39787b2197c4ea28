package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/compdoc/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records which file each loaded key came from
var ConfigSources = map[string]SourceInfo{}

// projectConfigPath is the compdoc.toml merged by initViper, if any
var projectConfigPath string

// projectConfigErr is the failure to read the compdoc.toml found by initViper
var projectConfigErr error

// Load reads the compdoc configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()
	if projectConfigErr != nil {
		return nil, projectConfigErr
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if projectConfigPath != "" {
		config.BaseDir = filepath.Dir(projectConfigPath)
	} else if wd, err := os.Getwd(); err == nil {
		config.BaseDir = wd
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrConfig), "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path.
// Environment variables still override the file.
func LoadFromFile(configPath string) (*Config, error) {
	v, err := FileViper(configPath)
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", configPath)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		abs = configPath
	}
	config.BaseDir = filepath.Dir(abs)
	return config, nil
}

// FileViper returns a Viper instance layering defaults, configPath and env vars
func FileViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	bindEnv(v)
	SetDefaults(v)
	if err := mergeConfigFile(v, configPath); err != nil {
		return nil, err
	}
	return v, nil
}

// ProjectConfigPath returns the project config file merged by Load, or ""
func ProjectConfigPath() string {
	initViper()
	return projectConfigPath
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	projectConfigPath = ""
	projectConfigErr = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	bindEnv(v)
	SetDefaults(v)

	// Precedence: defaults -> project config -> env vars
	if path := findProjectConfig(); path != "" {
		projectConfigPath = path
		if err := mergeConfigFile(v, path); err != nil {
			projectConfigErr = err
		}
	}

	viperInstance = v
	return v
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// findProjectConfig searches for compdoc.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFile merges one TOML file into v and records the sources of its keys
func mergeConfigFile(v *viper.Viper, configPath string) error {
	fileViper := viper.New()
	fileViper.SetConfigFile(configPath)
	fileViper.SetConfigType("toml")

	if err := fileViper.ReadInConfig(); err != nil {
		return errors.Wrapf(errors.Mark(err, errors.ErrConfig), "failed to read config file %s", configPath)
	}

	// MergeConfigMap keeps file values below environment variables
	if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
		return errors.Wrapf(errors.Mark(err, errors.ErrConfig), "failed to merge config file %s", configPath)
	}
	for _, key := range fileViper.AllKeys() {
		ConfigSources[key] = SourceInfo{Source: SourceProject, Path: configPath}
	}
	return nil
}
