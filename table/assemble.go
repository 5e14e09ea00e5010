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

// Package table draws paginated tables into PDF documents.
//
// An [Assembler] turns the fragments produced by the layout package into
// document pages.  [Write] runs the complete pipeline for a grid.
package table

import (
	"fmt"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfgrid/document"
	"seehuhn.de/go/pdfgrid/grid"
	"seehuhn.de/go/pdfgrid/layout"
)

// Assembler draws table fragments onto document pages.
type Assembler struct {
	doc    *document.MultiPage
	g      *grid.Grid
	geom   *layout.Geometry
	widths []float64
	err    error
}

// NewAssembler creates a new Assembler, which draws the table g onto
// pages of doc.  The column widths are computed from the content box of
// geom.
func NewAssembler(doc *document.MultiPage, g *grid.Grid, geom *layout.Geometry) *Assembler {
	a := &Assembler{
		doc:  doc,
		g:    g,
		geom: geom,
	}
	box := geom.ContentBox()
	a.widths, a.err = g.Widths(box.Dx())
	return a
}

// Assemble adds one page to the document, showing the rows of frag.
//
// Header rows are drawn at the top of the content box, followed by the
// data rows.  If the fragment overflows, everything outside the content
// box is clipped.
func (a *Assembler) Assemble(frag *layout.Fragment) error {
	if a.err != nil {
		return a.err
	}

	page, err := a.doc.AddPage()
	if err != nil {
		return err
	}
	box := a.geom.ContentBox()

	if frag.Overflow {
		page.PushGraphicsState()
		page.Rectangle(box.LLx, box.LLy, box.Dx(), box.Dy())
		page.ClipNonZero()
		page.EndPath()
	}
	if a.g.BorderWidth > 0 {
		page.SetLineWidth(a.g.BorderWidth)
		if a.g.BorderGray != 0 {
			page.SetStrokeGray(a.g.BorderGray)
		}
	}

	y := box.URy
	for i, row := range frag.Header {
		err := a.drawRow(page.Canvas, row, box.LLx, y, frag.HeaderHeights[i])
		if err != nil {
			return &layout.RowError{Index: i, Header: true, Err: err}
		}
		y -= frag.HeaderHeights[i]
	}
	for i, row := range frag.Rows {
		err := a.drawRow(page.Canvas, row, box.LLx, y, frag.RowHeights[i])
		if err != nil {
			return &layout.RowError{Index: frag.Start + i, Err: err}
		}
		y -= frag.RowHeights[i]
	}

	if frag.Overflow {
		page.PopGraphicsState()
	}

	err = page.Close()
	if err != nil {
		return fmt.Errorf("page %d: %w", frag.Index+1, err)
	}
	return nil
}

// drawRow draws a table row with top-left corner (x, yTop).
func (a *Assembler) drawRow(c *document.Canvas, row *grid.Row, x, yTop, height float64) error {
	left, width, err := grid.CellBox(row, a.widths)
	if err != nil {
		return err
	}

	for i := range row.Cells {
		cell := &row.Cells[i]
		cellBox := rect.Rect{
			LLx: x + left[i],
			LLy: yTop - height,
			URx: x + left[i] + width[i],
			URy: yTop,
		}
		if a.g.BorderWidth > 0 {
			c.Rectangle(cellBox.LLx, cellBox.LLy, width[i], height)
			c.Stroke()
		}

		s := grid.CellStyle(row, cell, a.g.Style)
		drawText(c, cellText(cell.Value, s, cellBox))
	}
	return c.Err
}

// textLine is a line of text, positioned on the page.
type textLine struct {
	X, Y  float64 // start of the baseline
	Text  string
	style grid.Style
}

// cellText breaks the value of a cell into lines and positions the lines
// inside the cell box, according to the alignment and padding of the
// style.
func cellText(value string, s grid.Style, box rect.Rect) []textLine {
	f := s.Font
	innerW := box.Dx() - s.Padding.Left - s.Padding.Right
	innerH := box.Dy() - s.Padding.Top - s.Padding.Bottom
	lines := f.Wrap(value, s.Size, max(innerW, 0))

	lh := f.LineHeight(s.Size)
	slack := innerH - float64(len(lines))*lh
	top := box.URy - s.Padding.Top
	switch s.VAlign {
	case grid.VAlignMiddle:
		top -= max(slack, 0) / 2
	case grid.VAlignBottom:
		top -= max(slack, 0)
	}

	res := make([]textLine, 0, len(lines))
	baseline := top - f.Ascent*s.Size/1000
	for _, line := range lines {
		x := box.LLx + s.Padding.Left
		switch s.Align {
		case grid.AlignCenter:
			x += (innerW - f.Width(line, s.Size)) / 2
		case grid.AlignRight:
			x += innerW - f.Width(line, s.Size)
		}
		if line != "" {
			res = append(res, textLine{X: x, Y: baseline, Text: line, style: s})
		}
		baseline -= lh
	}
	return res
}

// drawText draws the given lines using a single text object.
func drawText(c *document.Canvas, lines []textLine) {
	if len(lines) == 0 {
		return
	}
	c.SetFont(lines[0].style.Font, lines[0].style.Size)
	c.TextStart()
	var x, y float64
	for _, line := range lines {
		c.TextFirstLine(line.X-x, line.Y-y)
		c.TextShow(line.Text)
		x, y = line.X, line.Y
	}
	c.TextEnd()
}
