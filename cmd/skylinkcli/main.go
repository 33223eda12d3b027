package main

import (
	"github.com/robotalks/skylink/pkg/cli/sh"
	"github.com/robotalks/skylink/pkg/env"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
