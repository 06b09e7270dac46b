// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package assigncmd implements a command
// to assign cells to the segments
// of a lineage tree.
package assigncmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/traject/assign"
	"github.com/js-arias/traject/project"
)

var Command = &command.Command{
	Usage: `assign [--column <name>]
	[-o|--output <file>] <project-file>`,
	Short: "assign cells to lineage tree segments",
	Long: `
Command assign reads the pseudotime values, the visitation frequencies, and
the lineage tree defined in a traject project, and assigns each cell to a
segment of the tree.

The argument of the command is the name of the project file.

A cell can only be assigned to a segment whose pseudotime window contains the
pseudotime of the cell; among such candidate segments, the segment with the
largest visitation frequency for the cell wins, with ties broken by the
smallest segment ID. A cell outside every window, or without visitation data
for any candidate, is left unassigned and omitted from the output.

The flag --column sets the pseudotime column used for the assignment. By
default, the first column, by name, will be used.

The output file is a TSV file with a row per assigned cell and its segment.
By default, the output file uses the project name as a prefix, with the word
'assign' and the name of the pseudotime column; use the flag --output, or -o,
to set a different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var colFlag string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&colFlag, "column", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	pt, err := p.Pseudotime()
	if err != nil {
		return err
	}
	v, err := p.Visits()
	if err != nil {
		return err
	}
	t, err := p.Topology()
	if err != nil {
		return err
	}

	if colFlag == "" {
		cols := pt.Columns()
		if len(cols) == 0 {
			return fmt.Errorf("project %q: empty pseudotime table", args[0])
		}
		colFlag = cols[0]
	}

	a, err := assign.Assign(pt, colFlag, v, t)
	if err != nil {
		return err
	}

	if output == "" {
		output = fmt.Sprintf("%s-assign-%s.tab", p.NameRoot(), colFlag)
	}
	return writeAssignment(a, colFlag)
}

func writeAssignment(a *assign.Assignment, column string) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# cell assignments on pseudotime %q\n", column)
	fmt.Fprintf(w, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	header := []string{
		"cell",
		"segment",
	}
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header on %q: %v", output, err)
	}

	for _, cell := range a.Assigned() {
		s, _ := a.Segment(cell)
		row := []string{
			cell,
			s,
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("while writing data on %q: %v", output, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data on %q: %v", output, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("while writing data on %q: %v", output, err)
	}
	return nil
}
