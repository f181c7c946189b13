package main

import (
	"os"

	"github.com/spherical/homellm/cmd/homellm/commands"
	"github.com/spherical/homellm/cmd/homellm/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.Error("%s", commands.ErrorMessage(err))
		os.Exit(1)
	}
}
