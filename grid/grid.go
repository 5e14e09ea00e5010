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

// Package grid describes tables: columns, rows, cells and their styles.
//
// A [Grid] has a fixed set of columns, an optional list of header rows,
// and a forward-only sequence of data rows.  Grids know nothing about
// pages; rows are split into pages by the layout package.
package grid

import (
	"errors"
	"fmt"
)

// ErrColumnMismatch indicates that the column spans of a row do not
// match the columns of the grid.
var ErrColumnMismatch = errors.New("row does not match column schema")

// Column describes one column of a grid.
type Column struct {
	// Index is the position of the column, starting at 0.
	Index int

	// Width is the width of the column in PDF units.  Columns with
	// width 0 share the space left over by the other columns equally.
	Width float64
}

// Columns returns n columns which share the available width equally.
func Columns(n int) []Column {
	cols := make([]Column, n)
	for i := range cols {
		cols[i].Index = i
	}
	return cols
}

// Grid is a table with header rows and a sequence of data rows.
type Grid struct {
	Columns []Column

	// Header contains the rows shown at the top of the table.
	Header []*Row

	// Rows produces the data rows.  A nil source is an empty table.
	Rows RowSource

	// RepeatHeader specifies whether the header rows are repeated at
	// the top of every page, or only shown on the first page.
	RepeatHeader bool

	// Style is the default style for all cells.
	Style Style

	// BorderWidth is the line width used for cell borders.
	// If this is 0, no borders are drawn.
	BorderWidth float64

	// BorderGray is the gray level of cell borders, from 0 (black) to
	// 1 (white).
	BorderGray float64
}

// Widths computes the column widths for the given content width.
func (g *Grid) Widths(contentWidth float64) ([]float64, error) {
	if len(g.Columns) == 0 {
		return nil, errors.New("grid has no columns")
	}

	res := make([]float64, len(g.Columns))
	fixed := 0.0
	auto := 0
	for i, col := range g.Columns {
		if col.Index != i {
			return nil, fmt.Errorf("column %d has index %d", i, col.Index)
		}
		switch {
		case col.Width < 0:
			return nil, fmt.Errorf("column %d: negative width %g", i, col.Width)
		case col.Width == 0:
			auto++
		default:
			fixed += col.Width
			res[i] = col.Width
		}
	}

	if fixed > contentWidth {
		return nil, fmt.Errorf("columns need width %g, only %g available",
			fixed, contentWidth)
	}
	if auto > 0 {
		share := (contentWidth - fixed) / float64(auto)
		if share <= 0 {
			return nil, fmt.Errorf("no space left for %d columns", auto)
		}
		for i, col := range g.Columns {
			if col.Width == 0 {
				res[i] = share
			}
		}
	}
	return res, nil
}

// Validate checks that the cells of row exactly cover the columns of g.
func (g *Grid) Validate(row *Row) error {
	return validate(row, len(g.Columns))
}

func validate(row *Row, numCols int) error {
	if row == nil {
		return fmt.Errorf("%w: missing row", ErrColumnMismatch)
	}
	col := 0
	for i := range row.Cells {
		span := row.Cells[i].Span()
		if span < 1 {
			return fmt.Errorf("%w: cell %d has span %d",
				ErrColumnMismatch, i, row.Cells[i].ColumnSpan)
		}
		if col+span > numCols {
			return fmt.Errorf("%w: cell %d spans columns %d to %d of %d",
				ErrColumnMismatch, i, col, col+span-1, numCols)
		}
		col += span
	}
	if col != numCols {
		return fmt.Errorf("%w: row covers %d of %d columns",
			ErrColumnMismatch, col, numCols)
	}
	return nil
}
