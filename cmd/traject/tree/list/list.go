// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the segments of the lineage tree of a traject project.
package list

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/traject/project"
)

var Command = &command.Command{
	Usage: "list [--children] <project-file>",
	Short: "print the segments of the lineage tree",
	Long: `
Command list reads the lineage tree from a traject project and prints the
segments, with their parents and pseudotime windows, in the standard output.

The argument of the command is the name of the project file.

If the flag --children is defined, the children of each segment will be
printed instead of its parent and window.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var children bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&children, "children", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	t, err := p.Topology()
	if err != nil {
		return err
	}

	for _, s := range t.Segments() {
		if children {
			fmt.Fprintf(c.Stdout(), "%s:", s)
			for _, d := range t.Children(s) {
				fmt.Fprintf(c.Stdout(), " %s", d)
			}
			fmt.Fprintf(c.Stdout(), "\n")
			continue
		}
		start, end, _ := t.Window(s)
		pn := t.Parent(s)
		if pn == "" {
			pn = "--"
		}
		fmt.Fprintf(c.Stdout(), "%s\t%s\t%.6f\t%.6f\n", s, pn, start, end)
	}
	return nil
}
