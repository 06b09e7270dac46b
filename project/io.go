// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/traject/exprs"
	"github.com/js-arias/traject/lineage"
	"github.com/js-arias/traject/pseudotime"
	"github.com/js-arias/traject/visit"
)

// Expression reads the gene expression matrix file
// as defined in a project.
func (p *Project) Expression() (*exprs.Matrix, error) {
	name := p.Path(Expression)
	if name == "" {
		return nil, fmt.Errorf("expression matrix not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := exprs.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

// Pseudotime reads the pseudotime table file
// as defined in a project.
func (p *Project) Pseudotime() (*pseudotime.Table, error) {
	name := p.Path(Pseudotime)
	if name == "" {
		return nil, fmt.Errorf("pseudotime not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pt, err := pseudotime.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return pt, nil
}

// Topology reads the lineage tree file
// as defined in a project.
func (p *Project) Topology() (*lineage.Tree, error) {
	name := p.Path(Topology)
	if name == "" {
		return nil, fmt.Errorf("topology not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := lineage.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return t, nil
}

// Visits reads the visitation frequency file
// as defined in a project.
func (p *Project) Visits() (*visit.Table, error) {
	name := p.Path(Visits)
	if name == "" {
		return nil, fmt.Errorf("visitation frequencies not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := visit.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return v, nil
}
