package main

import (
	"os"

	"appstate/cmd/appstate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
