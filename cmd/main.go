package main

import (
	"os"

	"github.com/satriahrh/gemchat/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().CobraCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
