// Package main is the entry point for reelroom.
package main

import (
	"github.com/reelroom/reelroom/cmd"
	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
