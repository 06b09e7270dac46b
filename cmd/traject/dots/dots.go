// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dots implements a command
// to summarize gene expression
// over the segments of a lineage tree.
package dots

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/traject/assign"
	"github.com/js-arias/traject/exprstat"
	"github.com/js-arias/traject/project"
)

var Command = &command.Command{
	Usage: `dots [--column <name>] [--min <value>]
	[-o|--output <file>] <project-file>`,
	Short: "summarize gene expression by segment",
	Long: `
Command dots reads the expression matrix of a traject project, assigns each
cell to a segment of the lineage tree, and writes, for every gene and
segment, the mean expression among the expressing cells and the fraction of
cells expressing the gene. This table is the numeric form of the usual dot
plot of a trajectory analysis.

The argument of the command is the name of the project file.

A cell expresses a gene if its expression value is greater than the value of
the flag --min; the default value is 0.

The flag --column sets the pseudotime column used for the cell assignment.
By default, the first column, by name, will be used.

The output file is a TSV file with a row per gene and segment. By default,
the output file uses the project name as a prefix, with the word 'dots'; use
the flag --output, or -o, to set a different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var minFlag float64
var colFlag string
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&minFlag, "min", 0, "")
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

	m, err := p.Expression()
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
	dots := exprstat.DotTable(m, a, minFlag)

	if output == "" {
		output = fmt.Sprintf("%s-dots.tab", p.NameRoot())
	}
	return writeDots(dots)
}

func writeDots(dots []exprstat.Dot) (err error) {
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
	fmt.Fprintf(w, "# gene expression by segment\n")
	fmt.Fprintf(w, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	header := []string{
		"gene",
		"segment",
		"mean",
		"fraction",
		"cells",
	}
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header on %q: %v", output, err)
	}

	for _, d := range dots {
		row := []string{
			d.Gene,
			d.Segment,
			strconv.FormatFloat(d.Mean, 'g', 6, 64),
			strconv.FormatFloat(d.Fraction, 'g', 6, 64),
			strconv.Itoa(d.Cells),
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
