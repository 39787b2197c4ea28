package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/compdoc/docgen"
	"github.com/teranos/compdoc/errors"
)

// ErrOutOfDate is returned by check when any artifact differs from disk
var ErrOutOfDate = errors.New("generated artifacts are out of date")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that generated artifacts are up to date",
		Long: `Render every artifact in memory and compare it byte for byte with the
file on disk. Nothing is written.

Exit codes:
  0 - All artifacts are up to date
  1 - An artifact is stale or missing, or the check failed

Examples:
  compdoc check                  # Check all artifacts
  compdoc check --config ci.toml # Check with an alternate config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			inputs, err := render(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			result, err := docgen.CheckArtifacts(inputs.Result.Artifacts, cfg.BaseDir)
			if err != nil {
				return err
			}
			return reportCheck(result)
		},
	}
}

func reportCheck(result *docgen.CheckResult) error {
	if result.UpToDate {
		pterm.Success.Println("✓ Artifacts are up to date")
		return nil
	}

	for _, a := range result.Stale {
		pterm.Warning.Printf("✗ %s is out of date (%s)\n", a.Path, a.Name)
	}
	for _, a := range result.Missing {
		pterm.Warning.Printf("✗ %s is missing (%s)\n", a.Path, a.Name)
	}
	return errors.WithHint(ErrOutOfDate, "run 'compdoc' to regenerate them")
}
