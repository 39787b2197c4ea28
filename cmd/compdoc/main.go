package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/compdoc/cmd/compdoc/commands"
	"github.com/teranos/compdoc/errors"
	"github.com/teranos/compdoc/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		pterm.Error.Println(err)
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}
