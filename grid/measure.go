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

// TextMeasurer computes the size of cell text.
//
// Implementations must be deterministic: the same arguments must always
// give the same result.
type TextMeasurer interface {
	// MeasureText returns the width and height of value, typeset using
	// the given font and font size, and wrapped into lines of at most
	// maxWidth.
	MeasureText(value string, f *font.Font, size, maxWidth float64) (width, height float64)
}

// FontMeasurer measures text using the metrics of the standard fonts.
// Text is wrapped at word boundaries using [font.Font.Wrap].
type FontMeasurer struct{}

// MeasureText implements the [TextMeasurer] interface.
func (FontMeasurer) MeasureText(value string, f *font.Font, size, maxWidth float64) (float64, float64) {
	lines := f.Wrap(value, size, maxWidth)
	width := 0.0
	for _, line := range lines {
		width = max(width, f.Width(line, size))
	}
	return width, float64(len(lines)) * f.LineHeight(size)
}

// CellBox returns the horizontal extent of every cell in row, given the
// column widths.  Columns covered by a spanning cell are merged.
func CellBox(row *Row, widths []float64) (left, width []float64, err error) {
	err = validate(row, len(widths))
	if err != nil {
		return nil, nil, err
	}
	left = make([]float64, len(row.Cells))
	width = make([]float64, len(row.Cells))
	col := 0
	x := 0.0
	for i := range row.Cells {
		span := row.Cells[i].Span()
		w := 0.0
		for _, cw := range widths[col : col+span] {
			w += cw
		}
		left[i] = x
		width[i] = w
		x += w
		col += span
	}
	return left, width, nil
}

// MeasureRow returns the height of row, when typeset with the given column
// widths.  The height of a row is the height of its tallest cell,
// including padding.  Cell styles default to base.
//
// If the cells of row do not match the column widths, an error wrapping
// [ErrColumnMismatch] is returned.
func MeasureRow(row *Row, widths []float64, base Style, m TextMeasurer) (float64, error) {
	_, cellWidth, err := CellBox(row, widths)
	if err != nil {
		return 0, err
	}

	height := 0.0
	for i := range row.Cells {
		cell := &row.Cells[i]
		s := CellStyle(row, cell, base)
		inner := cellWidth[i] - s.Padding.Left - s.Padding.Right
		_, h := m.MeasureText(cell.Value, s.Font, s.Size, max(inner, 0))
		height = max(height, h+s.Padding.Top+s.Padding.Bottom)
	}
	return height, nil
}
