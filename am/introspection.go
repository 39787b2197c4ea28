package am

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceProject     ConfigSource = "project"     // compdoc.toml
	SourceEnvironment ConfigSource = "environment" // COMPDOC_* env vars
	SourceFlag        ConfigSource = "flag"
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path, env var or flag name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	ConfigFile string        `json:"config_file"`
	Settings   []SettingInfo `json:"settings"`
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string
}

// GetConfigIntrospection returns every effective setting of v with its source.
// flags maps config keys to the flag that overrode them.
func GetConfigIntrospection(v *viper.Viper, configFile string, flags map[string]string) *ConfigIntrospection {
	introspection := &ConfigIntrospection{
		ConfigFile: configFile,
		Settings:   make([]SettingInfo, 0),
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}
		if flag, ok := flags[key]; ok {
			info = SourceInfo{Source: SourceFlag, Path: "--" + flag}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return introspection
}

// CountBySource returns how many settings each source supplied
func (ci *ConfigIntrospection) CountBySource() map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range ci.Settings {
		counts[s.Source]++
	}
	return counts
}
