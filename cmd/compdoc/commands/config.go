package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teranos/compdoc/am"
	"github.com/teranos/compdoc/errors"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Long: `Display and check the compdoc configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (COMPDOC_* prefix)
3. Project config (nearest compdoc.toml, or --config)
4. Default values

Examples:
  compdoc config                  # Show each setting and its source
  compdoc config show --format json
  compdoc config validate         # Validate and report unknown keys`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSources(cmd, opts)
		},
	}

	var showFormat string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return printConfig(cmd, cfg, showFormat)
		},
	}
	show.Flags().StringVar(&showFormat, "format", "toml", "Output format: toml, json, yaml")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and report unknown keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(cmd, opts)
		},
	}

	cmd.AddCommand(show, validate)
	return cmd
}

// activeConfigFile returns the config file in effect, or ""
func activeConfigFile(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return am.ProjectConfigPath()
}

func activeViper(opts *options) (*viper.Viper, error) {
	if opts.configPath != "" {
		return am.FileViper(opts.configPath)
	}
	return am.GetViper(), nil
}

func runConfigSources(cmd *cobra.Command, opts *options) error {
	_, overridden, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	v, err := activeViper(opts)
	if err != nil {
		return err
	}

	ci := am.GetConfigIntrospection(v, activeConfigFile(opts), overridden)
	if ci.ConfigFile != "" {
		pterm.Info.Printf("Config file: %s\n", ci.ConfigFile)
	} else {
		pterm.Info.Println("No config file found, using defaults and environment")
	}

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range ci.Settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return errors.Wrap(err, "failed to render settings")
	}

	counts := ci.CountBySource()
	pterm.Printf("%d default, %d project, %d environment, %d flag\n",
		counts[am.SourceDefault], counts[am.SourceProject], counts[am.SourceEnvironment], counts[am.SourceFlag])
	return nil
}

func runConfigValidate(cmd *cobra.Command, opts *options) error {
	if _, _, err := loadConfig(cmd, opts); err != nil {
		return err
	}

	if path := activeConfigFile(opts); path != "" {
		unknown, err := am.UnknownKeys(path)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			pterm.Warning.Printf("Unknown key %q in %s\n", key, path)
		}
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func printConfig(cmd *cobra.Command, cfg *am.Config, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# compdoc configuration\n%s", data)

	case "toml":
		data, err := am.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# compdoc configuration\n%s", data)

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}
