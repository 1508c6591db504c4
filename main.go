package main

import (
	"os"

	"github.com/tanpawarit/facebank-assistant/cli"
	_ "github.com/tanpawarit/facebank-assistant/pkg/logger/autoload"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
