// Package main is the entry point for glint.
package main

import (
	"runtime"

	"github.com/glint-player/glint/cmd"
	"github.com/glint-player/glint/config"
	"github.com/glint-player/glint/log"
	"github.com/samber/lo"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
