// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree is a metapackage for commands
// that deal with lineage trees.
package tree

import (
	"github.com/js-arias/command"
	"github.com/js-arias/traject/cmd/traject/tree/add"
	"github.com/js-arias/traject/cmd/traject/tree/list"
)

var Command = &command.Command{
	Usage: "tree <command> [<argument>...]",
	Short: "commands for lineage trees",
}

func init() {
	Command.Add(add.Command)
	Command.Add(list.Command)
}
