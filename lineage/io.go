// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package lineage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var headerFields = []string{
	"segment",
	"parent",
	"start",
	"end",
}

// ReadTSV reads a lineage tree from a TSV file.
//
// A segment can reference a parent
// that is not defined in the file,
// so a tree can be read from several partial files
// and merged;
// use Validate on the final tree
// to check that every parent is defined.
//
// The TSV file must contain the following fields:
//
//   - segment, the ID of the segment
//   - parent, the ID of the parent segment
//     (empty for a root segment)
//   - start, the start of the pseudotime window
//   - end, the end of the pseudotime window
//
// Here is an example file:
//
//	# single cell lineage tree
//	segment	parent	start	end
//	root		0.000000	0.300000
//	seg-1	root	0.250000	0.700000
//	seg-2	root	0.250000	1.000000
func ReadTSV(r io.Reader) (*Tree, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range headerFields {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	t := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "segment"
		id := row[fields[f]]

		f = "parent"
		parent := row[fields[f]]

		f = "start"
		start, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		f = "end"
		end, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		if err := t.Add(id, parent, start, end); err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
	}
	return t, nil
}

// TSV writes a lineage tree as a TSV file.
func (t *Tree) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(headerFields); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, id := range t.Segments() {
		s := t.segs[id]
		row := []string{
			s.id,
			s.parent,
			strconv.FormatFloat(s.start, 'f', 6, 64),
			strconv.FormatFloat(s.end, 'f', 6, 64),
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
