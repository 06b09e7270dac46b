// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package exprs stores a gene expression matrix
// of a single cell dataset,
// with genes as rows
// and cells as columns.
package exprs

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// A Matrix is a collection of expression values
// keyed by gene and cell.
type Matrix struct {
	genes map[string]map[string]float64
	cells map[string]bool
}

// New creates a new empty expression matrix.
func New() *Matrix {
	return &Matrix{
		genes: make(map[string]map[string]float64),
		cells: make(map[string]bool),
	}
}

// Add adds the expression value of a gene in a cell.
func (m *Matrix) Add(gene, cell string, v float64) error {
	gene = canon(gene)
	if gene == "" {
		return fmt.Errorf("exprs: expecting gene ID")
	}
	cell = canon(cell)
	if cell == "" {
		return fmt.Errorf("exprs: expecting cell ID")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("exprs: gene %q, cell %q: invalid value", gene, cell)
	}

	cv, ok := m.genes[gene]
	if !ok {
		cv = make(map[string]float64)
		m.genes[gene] = cv
	}
	cv[cell] = v
	m.cells[cell] = true
	return nil
}

// Cells returns the IDs of the cells in the matrix,
// sorted by ID.
func (m *Matrix) Cells() []string {
	cells := make([]string, 0, len(m.cells))
	for c := range m.cells {
		cells = append(cells, c)
	}
	slices.Sort(cells)
	return cells
}

// Genes returns the IDs of the genes in the matrix,
// sorted by ID.
func (m *Matrix) Genes() []string {
	genes := make([]string, 0, len(m.genes))
	for g := range m.genes {
		genes = append(genes, g)
	}
	slices.Sort(genes)
	return genes
}

// Value returns the expression of a gene in a cell.
func (m *Matrix) Value(gene, cell string) (float64, bool) {
	cv, ok := m.genes[canon(gene)]
	if !ok {
		return 0, false
	}
	v, ok := cv[canon(cell)]
	return v, ok
}

func canon(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
