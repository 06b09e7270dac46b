// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Traject is a tool for single cell trajectory analysis.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/traject/cmd/traject/assigncmd"
	"github.com/js-arias/traject/cmd/traject/dots"
	"github.com/js-arias/traject/cmd/traject/fit"
	"github.com/js-arias/traject/cmd/traject/prefs"
	"github.com/js-arias/traject/cmd/traject/tree"
)

var app = &command.Command{
	Usage: "traject <command> [<argument>...]",
	Short: "a tool for single cell trajectory analysis",
}

func init() {
	app.Add(assigncmd.Command)
	app.Add(dots.Command)
	app.Add(fit.Command)
	app.Add(prefs.Command)
	app.Add(tree.Command)
}

func main() {
	app.Main()
}
