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

package pagetree

import (
	"fmt"

	"seehuhn.de/go/pdfgrid/pdf"
)

type nodeInfo struct {
	dict      pdf.Dict // a /Page or /Pages object
	ref       pdf.Reference
	pageCount pdf.Integer
	depth     int
}

// mergeNodes collapses nodes a, ..., b-1 into a new internal node.
// The child nodes are written to the PDF file.
func (w *Writer) mergeNodes(nodes []*nodeInfo, a, b int) ([]*nodeInfo, error) {
	if a < 0 || b > len(nodes) || b-a < 1 || b-a > maxDegree {
		panic(fmt.Sprintf("invalid subtree node range %d, %d", a, b))
	}

	childNodes := nodes[a:b]

	kids := make(pdf.Array, len(childNodes))
	parentRef := w.Out.Alloc()
	var pageCount pdf.Integer
	maxDepth := 0
	for i, node := range childNodes {
		node.dict["Parent"] = parentRef
		kids[i] = node.ref

		err := w.Out.Put(node.ref, node.dict)
		if err != nil {
			return nil, err
		}

		pageCount += node.pageCount
		maxDepth = max(maxDepth, node.depth)
	}

	parentNode := &nodeInfo{
		dict: pdf.Dict{
			"Type":  pdf.Name("Pages"),
			"Kids":  kids,
			"Count": pageCount,
		},
		ref:       parentRef,
		pageCount: pageCount,
		depth:     maxDepth + 1,
	}

	nodes[a] = parentNode
	nodes = append(nodes[:a+1], nodes[b:]...)
	return nodes, nil
}
