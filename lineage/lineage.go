// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package lineage implements a developmental lineage tree
// reconstructed from single-cell data.
// Each branch of the tree is a segment
// that covers a window of pseudotime.
package lineage

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// A Tree is a collection of tree segments,
// each with a parent segment
// and a pseudotime window.
// A segment with an empty parent is a root.
type Tree struct {
	segs map[string]*segment
}

type segment struct {
	id     string
	parent string

	// pseudotime window
	start, end float64
}

// New creates a new empty tree.
func New() *Tree {
	return &Tree{
		segs: make(map[string]*segment),
	}
}

// Add adds a segment to a tree
// with the ID of its parent segment
// (use an empty parent for a root segment)
// and the window of pseudotime covered by the segment.
// The parent segment is not required to be already defined,
// so segments can be added in any order;
// use Validate to check the tree once full.
func (t *Tree) Add(id, parent string, start, end float64) error {
	id = canon(id)
	if id == "" {
		return fmt.Errorf("lineage: expecting segment ID")
	}
	if _, ok := t.segs[id]; ok {
		return fmt.Errorf("lineage: segment %q already added", id)
	}

	parent = canon(parent)
	if parent == id {
		return fmt.Errorf("lineage: segment %q: parent of itself", id)
	}
	if math.IsNaN(start) || math.IsNaN(end) {
		return fmt.Errorf("lineage: segment %q: undefined window", id)
	}
	if start > end {
		return fmt.Errorf("lineage: segment %q: window [%.6f, %.6f] is empty", id, start, end)
	}

	t.segs[id] = &segment{
		id:     id,
		parent: parent,
		start:  start,
		end:    end,
	}
	return nil
}

// Children returns the IDs of the children
// of a given segment,
// sorted by ID.
func (t *Tree) Children(id string) []string {
	id = canon(id)

	var children []string
	for _, s := range t.segs {
		if s.parent == id && s.parent != "" {
			children = append(children, s.id)
		}
	}
	slices.Sort(children)
	return children
}

// Covers returns true if the pseudotime window
// of the given segment
// contains the indicated pseudotime value.
// Both window ends are inclusive.
func (t *Tree) Covers(id string, pt float64) bool {
	s, ok := t.segs[canon(id)]
	if !ok {
		return false
	}
	return pt >= s.start && pt <= s.end
}

// IsRoot returns true if the given segment
// has no parent.
func (t *Tree) IsRoot(id string) bool {
	s, ok := t.segs[canon(id)]
	if !ok {
		return false
	}
	return s.parent == ""
}

// Len returns the number of segments in the tree.
func (t *Tree) Len() int {
	return len(t.segs)
}

// Parent returns the ID of the parent
// of the given segment,
// or an empty string for a root segment.
func (t *Tree) Parent(id string) string {
	s, ok := t.segs[canon(id)]
	if !ok {
		return ""
	}
	return s.parent
}

// Segments returns the IDs of the segments of the tree,
// sorted by ID.
// The sorted order is the canonical segment ordering
// used by any procedure that scans the tree.
func (t *Tree) Segments() []string {
	segs := make([]string, 0, len(t.segs))
	for id := range t.segs {
		segs = append(segs, id)
	}
	slices.Sort(segs)
	return segs
}

// Validate checks that every non-root segment
// has a defined parent.
func (t *Tree) Validate() error {
	for _, s := range t.segs {
		if s.parent == "" {
			continue
		}
		if _, ok := t.segs[s.parent]; !ok {
			return fmt.Errorf("lineage: segment %q: undefined parent %q", s.id, s.parent)
		}
	}
	return nil
}

// Window returns the pseudotime window
// covered by a segment.
func (t *Tree) Window(id string) (start, end float64, ok bool) {
	s, ok := t.segs[canon(id)]
	if !ok {
		return 0, 0, false
	}
	return s.start, s.end, true
}

// canon returns a segment ID in its canonical form.
func canon(id string) string {
	return strings.Join(strings.Fields(id), " ")
}
