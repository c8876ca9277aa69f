package main

import (
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

// Overridden at build time via -ldflags "-X main.version=..."
var version = "dev"

func versionAction(*cli.Context) {
	fmt.Println(version)
}
