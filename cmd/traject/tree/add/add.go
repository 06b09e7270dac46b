// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add lineage tree segments
// to a traject project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/traject/lineage"
	"github.com/js-arias/traject/project"
)

var Command = &command.Command{
	Usage: `add [-f|--file <topology-file>]
	<project-file> [<lineage-file>...]`,
	Short: "add lineage tree segments to a traject project",
	Long: `
Command add reads the segments of a lineage tree from one or more files, and
adds the segments to a traject project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

One or more lineage files can be given as arguments. If no file is given the
segments will be read from the standard input. The input files are TSV files
with a row per segment, its parent, and the start and end of its pseudotime
window. Segments can reference parents defined in another input file; after
reading all the files, every parent must be defined.

By default the segments will be stored in the topology file currently
defined for the project. If the project does not have a topology file, a new
one will be created with the name 'topology.tab'. A different topology file
name can be defined using the flag --file, or -f. If this flag is used, and
there is a topology file already defined, then a new file with that name
will be created, and used as the topology file for the project (previously
defined segments will be kept).
	`,
	SetFlags: setFlags,
	Run:      run,
}

var topoFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&topoFile, "file", "", "")
	c.Flags().StringVar(&topoFile, "f", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	pFile := args[0]
	p, err := openProject(pFile)
	if err != nil {
		return err
	}

	var t *lineage.Tree
	if tf := p.Path(project.Topology); tf != "" {
		t, err = readTreeFile(nil, tf)
		if err != nil {
			return fmt.Errorf("on project %q: %v", tf, err)
		}
	}
	if t == nil {
		t = lineage.New()
	}

	args = args[1:]
	if len(args) == 0 {
		args = append(args, "-")
	}
	for _, a := range args {
		fn := a
		if fn == "-" {
			fn = ""
			a = "stdin"
		}
		nt, err := readTreeFile(c.Stdin(), fn)
		if err != nil {
			return err
		}
		for _, s := range nt.Segments() {
			start, end, _ := nt.Window(s)
			if err := t.Add(s, nt.Parent(s), start, end); err != nil {
				return fmt.Errorf("when adding segments from %q: %v", a, err)
			}
		}
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if topoFile == "" {
		topoFile = p.Path(project.Topology)
		if topoFile == "" {
			topoFile = "topology.tab"
		}
	}

	if err := writeTree(t); err != nil {
		return err
	}
	p.Add(project.Topology, topoFile)
	if err := p.Write(); err != nil {
		return err
	}

	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func readTreeFile(r io.Reader, name string) (*lineage.Tree, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	t, err := lineage.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return t, nil
}

func writeTree(t *lineage.Tree) (err error) {
	f, err := os.Create(topoFile)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := t.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", topoFile, err)
	}
	return nil
}
