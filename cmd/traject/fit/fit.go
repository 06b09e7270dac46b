// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package fit implements a command
// to fit impulse curves
// to the genes of an expression matrix.
package fit

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/traject/impulse"
	"github.com/js-arias/traject/project"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: `fit [--column <name>] [--sd <value>]
	[--onset <value>] [--starts <number>] [--perturb <value>]
	[--slope <mode>] [--penalty <value>] [--seed <number>]
	[--cpu <number>] [-o|--output <file>] <project-file>`,
	Short: "fit impulse curves to gene expression",
	Long: `
Command fit reads the expression matrix and the pseudotime values defined in a
traject project, fits an impulse curve to the expression of each gene along
the pseudotime, and writes the fitted parameters into a TSV file.

The argument of the command is the name of the project file.

The flag --column sets the pseudotime column used as the time axis of the
fits. By default, the first column, by name, will be used.

The flag --sd sets the standard deviation of the background noise of the
expression values, and must be greater than zero. The default value is 0.1.
The flag --onset sets the fraction of the background noise that two expression
levels must differ to be considered different when naming the shape of a
fitted curve. The default value is 1.

The flag --starts sets the number of randomized initializations per gene; the
flag --perturb sets the fraction of the expression range used to perturb each
initialization. The defaults are 10 starts with a 0.1 perturbation. Use the
flag --seed to set the random seed of the initializations, so the fits are
reproducible; by default the seed is taken from the current time.

The flag --slope sets the treatment of the rise and fall rates of the curve:
"single" forces both rates to be equal, "free" fits both rates independently,
and "both", the default, fits the curve in both forms and keeps the shared
rate fit unless the independent fit reduces the residual sum of squares beyond
the fraction given by the flag --penalty (0.05 by default).

By default, all available CPUs will be used for the fits. Set the flag --cpu
to use a different number of CPUs.

The output file is a TSV file with the fitted parameters, the residual sum of
squares, and the shape of the curve of each gene. Genes without a valid fit
are reported in the standard output and omitted from the file. By default,
the output file uses the project name as a prefix, with the word 'fit' and
the name of the pseudotime column; use the flag --output, or -o, to set a
different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var colFlag string
var sdFlag float64
var onsetFlag float64
var startsFlag int
var perturbFlag float64
var slopeFlag string
var penaltyFlag float64
var seedFlag int64
var cpuFlag int
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&colFlag, "column", "", "")
	c.Flags().Float64Var(&sdFlag, "sd", 0.1, "")
	c.Flags().Float64Var(&onsetFlag, "onset", 1, "")
	c.Flags().IntVar(&startsFlag, "starts", 10, "")
	c.Flags().Float64Var(&perturbFlag, "perturb", 0.1, "")
	c.Flags().StringVar(&slopeFlag, "slope", "both", "")
	c.Flags().Float64Var(&penaltyFlag, "penalty", 0.05, "")
	c.Flags().Int64Var(&seedFlag, "seed", 0, "")
	c.Flags().IntVar(&cpuFlag, "cpu", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	var mode impulse.SlopeMode
	switch impulse.SlopeMode(slopeFlag) {
	case impulse.SlopeBoth:
		mode = impulse.SlopeBoth
	case impulse.SlopeSingle:
		mode = impulse.SlopeSingle
	case impulse.SlopeFree:
		mode = impulse.SlopeFree
	default:
		return c.UsageError(fmt.Sprintf("invalid slope mode %q", slopeFlag))
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

	if colFlag == "" {
		cols := pt.Columns()
		if len(cols) == 0 {
			return fmt.Errorf("project %q: empty pseudotime table", args[0])
		}
		colFlag = cols[0]
	}

	cells := pt.Cells(colFlag)
	if len(cells) == 0 {
		return fmt.Errorf("project %q: undefined pseudotime column %q", args[0], colFlag)
	}

	genes := make(map[string]impulse.Series, len(m.Genes()))
	for _, g := range m.Genes() {
		var s impulse.Series
		for _, cell := range cells {
			y, ok := m.Value(g, cell)
			if !ok {
				continue
			}
			x, _ := pt.Value(colFlag, cell)
			s.X = append(s.X, x)
			s.Y = append(s.Y, y)
		}
		genes[g] = s
	}

	ft := impulse.Fitter{
		SdBG:        sdFlag,
		OnsetThresh: onsetFlag,
		Starts:      startsFlag,
		Perturb:     perturbFlag,
		Slope:       mode,
		Penalty:     penaltyFlag,
	}
	if seedFlag != 0 {
		ft.Src = rand.NewSource(uint64(seedFlag))
	}

	b := ft.FitBatch(genes, cpuFlag)

	if output == "" {
		output = fmt.Sprintf("%s-fit-%s.tab", p.NameRoot(), colFlag)
	}
	if err := writeFits(b, colFlag); err != nil {
		return err
	}

	for _, g := range b.Failed {
		fmt.Fprintf(c.Stdout(), "unfit gene: %s\n", g)
	}
	return nil
}

func writeFits(b impulse.Batch, column string) (err error) {
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
	fmt.Fprintf(w, "# impulse curve fits on pseudotime %q\n", column)
	fmt.Fprintf(w, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	header := []string{
		"gene",
		"h0",
		"h1",
		"h2",
		"t1",
		"t2",
		"b1",
		"b2",
		"sumsq",
		"shape",
	}
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header on %q: %v", output, err)
	}

	genes := make([]string, 0, len(b.Fits))
	for g := range b.Fits {
		genes = append(genes, g)
	}
	slices.Sort(genes)
	for _, g := range genes {
		r := b.Fits[g]
		row := []string{
			g,
			strconv.FormatFloat(r.Params.H0, 'f', 6, 64),
			strconv.FormatFloat(r.Params.H1, 'f', 6, 64),
			strconv.FormatFloat(r.Params.H2, 'f', 6, 64),
			strconv.FormatFloat(r.Params.T1, 'f', 6, 64),
			strconv.FormatFloat(r.Params.T2, 'f', 6, 64),
			strconv.FormatFloat(r.Params.B1, 'f', 6, 64),
			strconv.FormatFloat(r.Params.B2, 'f', 6, 64),
			strconv.FormatFloat(r.SumSq, 'g', 6, 64),
			string(r.Shape),
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
