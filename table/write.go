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

package table

import (
	"io"

	"seehuhn.de/go/pdfgrid/document"
	"seehuhn.de/go/pdfgrid/grid"
	"seehuhn.de/go/pdfgrid/layout"
)

// Options control how a table is written.
type Options struct {
	// Template, if non-nil, is attached to the document before the first
	// page is written.
	Template *Template

	// Observer, if non-nil, is notified about pagination progress.
	Observer layout.Observer
}

// Write splits the table g into pages and appends the pages to doc.
// Rows are processed one page at a time.  The function returns the
// number of pages written.
//
// If m is nil, text is measured using [grid.FontMeasurer].
func Write(doc *document.MultiPage, g *grid.Grid, geom *layout.Geometry, m grid.TextMeasurer, opt *Options) (int, error) {
	if opt == nil {
		opt = &Options{}
	}
	if m == nil {
		m = grid.FontMeasurer{}
	}

	p, err := layout.Paginate(g, geom, m, &layout.Options{Observer: opt.Observer})
	if err != nil {
		return 0, err
	}
	a := NewAssembler(doc, g, geom)
	if opt.Template != nil {
		err = a.SetTemplate(opt.Template)
		if err != nil {
			return 0, err
		}
	}

	numPages := 0
	for {
		frag, err := p.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return numPages, err
		}
		err = a.Assemble(frag)
		if err != nil {
			return numPages, err
		}
		numPages++
	}
	return numPages, nil
}
