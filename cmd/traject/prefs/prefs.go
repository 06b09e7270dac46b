// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prefs implements a command
// to calculate the preference of the cells
// between two sibling segments of a branchpoint.
package prefs

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/traject/exprstat"
	"github.com/js-arias/traject/project"
	"github.com/js-arias/traject/pseudotime"
)

var Command = &command.Command{
	Usage: `prefs --left <segment> --right <segment>
	[--column <name>] [--bins <number>]
	[-o|--output <file>] <project-file>`,
	Short: "calculate cell preferences at a branchpoint",
	Long: `
Command prefs reads the visitation frequencies of a traject project and
calculates, for every cell with a pseudotime value, its preference between
two segments of the lineage tree. The preference of a cell is (l-r)/(l+r),
for the visitation frequencies l and r of the left and right segments: 1 for
a cell only visited from the left segment, -1 for a cell only visited from
the right segment, and 0 for a cell visited equally from both, or never
visited from either. This table is the numeric form of the usual branchpoint
preference plot.

The argument of the command is the name of the project file.

The flags --left and --right are required, and set the two segments to be
compared. Usually they are the two children of a branchpoint of the lineage
tree.

The flag --column sets the pseudotime column used to order the cells. By
default, the first column, by name, will be used.

The output file is a TSV file with a row per cell, its pseudotime, and its
preference score. By default, the output file uses the project name as a
prefix, with the word 'prefs' and the names of the two segments; use the
flag --output, or -o, to set a different file name.

If the flag --bins is set to a value greater than zero, a second file, with
the suffix 'bins', will be written with the cells binned over the pseudotime
and each bin summarized with the median preference and the empirical 2.5%
and 97.5% quantiles.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var binsFlag int
var leftFlag string
var rightFlag string
var colFlag string
var output string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&binsFlag, "bins", 0, "")
	c.Flags().StringVar(&leftFlag, "left", "", "")
	c.Flags().StringVar(&rightFlag, "right", "", "")
	c.Flags().StringVar(&colFlag, "column", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if leftFlag == "" {
		return c.UsageError("flag --left must be defined")
	}
	if rightFlag == "" {
		return c.UsageError("flag --right must be defined")
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
	if _, _, ok := t.Window(leftFlag); !ok {
		return fmt.Errorf("segment %q not in lineage tree", leftFlag)
	}
	if _, _, ok := t.Window(rightFlag); !ok {
		return fmt.Errorf("segment %q not in lineage tree", rightFlag)
	}

	if colFlag == "" {
		cols := pt.Columns()
		if len(cols) == 0 {
			return fmt.Errorf("project %q: empty pseudotime table", args[0])
		}
		colFlag = cols[0]
	}

	prefs := exprstat.Preference(v, leftFlag, rightFlag, pt.Cells(colFlag))

	if output == "" {
		output = fmt.Sprintf("%s-prefs-%s-%s.tab", p.NameRoot(), leftFlag, rightFlag)
	}
	if err := writePrefs(pt, prefs); err != nil {
		return err
	}

	if binsFlag <= 0 {
		return nil
	}
	sum, err := exprstat.SummarizePref(pt, colFlag, prefs, binsFlag)
	if err != nil {
		return err
	}
	return writeBins(sum)
}

func writePrefs(pt *pseudotime.Table, prefs []exprstat.Pref) (err error) {
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
	fmt.Fprintf(w, "# cell preferences between %q and %q\n", leftFlag, rightFlag)
	fmt.Fprintf(w, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	header := []string{
		"cell",
		"pseudotime",
		"preference",
	}
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header on %q: %v", output, err)
	}

	for _, pf := range prefs {
		x, _ := pt.Value(colFlag, pf.Cell)
		row := []string{
			pf.Cell,
			strconv.FormatFloat(x, 'g', 6, 64),
			strconv.FormatFloat(pf.Score, 'g', 6, 64),
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

func writeBins(sum []exprstat.PrefBin) (err error) {
	name := binsName(output)
	f, err := os.Create(name)
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
	fmt.Fprintf(w, "# binned cell preferences between %q and %q\n", leftFlag, rightFlag)
	fmt.Fprintf(w, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	header := []string{
		"start",
		"end",
		"cells",
		"median",
		"q-0.025",
		"q-0.975",
	}
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header on %q: %v", name, err)
	}

	for _, b := range sum {
		row := []string{
			strconv.FormatFloat(b.Start, 'g', 6, 64),
			strconv.FormatFloat(b.End, 'g', 6, 64),
			strconv.Itoa(b.Cells),
			strconv.FormatFloat(b.Median, 'g', 6, 64),
			strconv.FormatFloat(b.Q025, 'g', 6, 64),
			strconv.FormatFloat(b.Q975, 'g', 6, 64),
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("while writing data on %q: %v", name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data on %q: %v", name, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("while writing data on %q: %v", name, err)
	}
	return nil
}

func binsName(out string) string {
	ext := ".tab"
	base := strings.TrimSuffix(out, ext)
	if base == out {
		ext = ""
	}
	return base + "-bins" + ext
}
