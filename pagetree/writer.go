// seehuhn.de/go/pdfgrid - paginated tables for PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package pagetree writes balanced PDF page trees.
//
// Pages are written to the file as soon as their parent node is known,
// so that only a small number of page dictionaries is kept in memory
// at any time.
package pagetree

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfgrid/pdf"
)

// Writer writes a page tree to a PDF file.
type Writer struct {
	Out *pdf.Writer

	// Tail contains completed subtrees, in page order.  The depth of the
	// subtrees is weakly decreasing, and for every depth there are at most
	// maxDegree-1 subtrees of this depth.
	tail []*nodeInfo

	numPages int
	isClosed bool
}

// NewWriter creates a new page tree which adds pages to the PDF document w.
func NewWriter(w *pdf.Writer) *Writer {
	return &Writer{Out: w}
}

// NumPages returns the number of pages added so far.
func (w *Writer) NumPages() int {
	return w.numPages
}

// AppendPage adds a new page to the page tree, using the given reference
// for the page dictionary.  The /Parent entry is filled in automatically.
//
// The page dictionary is owned by the Writer after this call.
func (w *Writer) AppendPage(ref pdf.Reference, dict pdf.Dict) error {
	if w.isClosed {
		return errors.New("page tree is closed")
	}

	dict["Type"] = pdf.Name("Page")
	w.tail = append(w.tail, &nodeInfo{
		dict:      dict,
		ref:       ref,
		pageCount: 1,
	})
	w.numPages++

	for {
		n := len(w.tail)
		if n < maxDegree || w.tail[n-1].depth != w.tail[n-maxDegree].depth {
			break
		}
		var err error
		w.tail, err = w.mergeNodes(w.tail, n-maxDegree, n)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close writes all remaining nodes of the page tree and returns a
// reference to the root node.  A tree without pages is written as a
// single, empty /Pages node.
func (w *Writer) Close() (pdf.Reference, error) {
	if w.isClosed {
		return 0, errors.New("page tree is closed")
	}
	w.isClosed = true

	err := w.collapse()
	if err != nil {
		return 0, err
	}

	var root *nodeInfo
	switch {
	case len(w.tail) == 0:
		root = &nodeInfo{
			dict: pdf.Dict{
				"Type":  pdf.Name("Pages"),
				"Kids":  pdf.Array{},
				"Count": pdf.Integer(0),
			},
			ref: w.Out.Alloc(),
		}
	case w.tail[0].depth == 0:
		// the root node cannot be a leaf
		w.tail, err = w.wrap(w.tail[0])
		if err != nil {
			return 0, err
		}
		root = w.tail[0]
	default:
		root = w.tail[0]
	}
	w.tail = nil

	err = w.Out.Put(root.ref, root.dict)
	if err != nil {
		return 0, fmt.Errorf("page tree root: %w", err)
	}
	return root.ref, nil
}

// wrap creates a /Pages node with the single child node.
func (w *Writer) wrap(node *nodeInfo) ([]*nodeInfo, error) {
	return w.mergeNodes([]*nodeInfo{node}, 0, 1)
}

// collapse reduces the tail to (at most) one node.
func (w *Writer) collapse() error {
	for len(w.tail) > 1 {
		start := max(len(w.tail)-maxDegree, 0)
		for start > 0 && w.tail[start-1].depth == w.tail[start].depth {
			start++
		}
		var err error
		w.tail, err = w.mergeNodes(w.tail, start, len(w.tail))
		if err != nil {
			return err
		}
	}
	return nil
}

const maxDegree = 16
