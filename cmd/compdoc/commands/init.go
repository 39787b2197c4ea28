package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/compdoc/am"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a compdoc.toml with every default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := am.ProjectConfigName
			if len(args) == 1 {
				path = args[0]
			}
			if err := am.WriteConfig(am.Default(), path, force); err != nil {
				return err
			}
			pterm.Success.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file (keeps a backup)")
	return cmd
}
