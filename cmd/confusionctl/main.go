package main

import (
	"os"

	"github.com/danielpatrickdp/confusion-engine/go-engine/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
