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

package grid

import (
	"seehuhn.de/go/pdfgrid/font"
)

// Alignment is the horizontal alignment of text within a cell.
type Alignment uint8

// These are the supported horizontal alignments.
// AlignDefault inherits the alignment of the enclosing row or grid.
const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// VAlignment is the vertical alignment of text within a cell.
type VAlignment uint8

// These are the supported vertical alignments.
// VAlignDefault inherits the alignment of the enclosing row or grid.
const (
	VAlignDefault VAlignment = iota
	VAlignTop
	VAlignMiddle
	VAlignBottom
)

// Padding is the space between the cell border and the cell text.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding returns a padding of p on all four sides.
func UniformPadding(p float64) Padding {
	return Padding{p, p, p, p}
}

// Style describes how the text in a cell is drawn.
//
// Zero fields are inherited: cells inherit from their row, rows inherit
// from the grid.
type Style struct {
	Font    *font.Font
	Size    float64
	Align   Alignment
	VAlign  VAlignment
	Padding Padding
}

// Inherit returns a copy of s where zero fields are replaced by the
// corresponding fields of parent.
func (s *Style) Inherit(parent Style) Style {
	if s == nil {
		return parent
	}
	res := *s
	if res.Font == nil {
		res.Font = parent.Font
	}
	if res.Size == 0 {
		res.Size = parent.Size
	}
	if res.Align == AlignDefault {
		res.Align = parent.Align
	}
	if res.VAlign == VAlignDefault {
		res.VAlign = parent.VAlign
	}
	if res.Padding == (Padding{}) {
		res.Padding = parent.Padding
	}
	return res
}

// Cell is one cell of a table row.
type Cell struct {
	Value string

	// ColumnSpan is the number of columns covered by the cell.
	// The value 0 is treated as 1.
	ColumnSpan int

	// Style, if non-nil, overrides the style of the row.
	Style *Style

	// Align, if set, overrides the horizontal alignment of the style.
	Align Alignment
}

// Span returns the number of columns covered by the cell.
func (c *Cell) Span() int {
	if c.ColumnSpan == 0 {
		return 1
	}
	return c.ColumnSpan
}

// Row is a table row.
type Row struct {
	Cells []Cell

	// Style, if non-nil, overrides the style of the grid.
	Style *Style
}

// NewRow returns a row with one cell per value.
func NewRow(style *Style, values ...string) *Row {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i].Value = v
	}
	return &Row{Cells: cells, Style: style}
}

// CellStyle returns the effective style of a cell in row, given the
// default style base.
func CellStyle(row *Row, cell *Cell, base Style) Style {
	s := cell.Style.Inherit(row.Style.Inherit(base))
	if cell.Align != AlignDefault {
		s.Align = cell.Align
	}
	if s.Align == AlignDefault {
		s.Align = AlignLeft
	}
	if s.VAlign == VAlignDefault {
		s.VAlign = VAlignTop
	}
	if s.Font == nil {
		s.Font = font.Helvetica
	}
	if s.Size == 0 {
		s.Size = 10
	}
	return s
}
