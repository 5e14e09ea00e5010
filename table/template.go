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
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfgrid/document"
	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/grid"
)

// Template describes the page decorations which are drawn identically on
// every page, independent of the table contents.
type Template struct {
	// Top and Bottom, if non-nil, draw the regions reserved by
	// Geometry.TemplateTop and Geometry.TemplateBottom.
	Top, Bottom func(c *document.Canvas, box rect.Rect) error
}

// SetTemplate attaches the page template to the document.
// This must be called before the first page is assembled.
func (a *Assembler) SetTemplate(t *Template) error {
	if a.err != nil {
		return a.err
	}
	var regions []document.Region
	add := func(box rect.Rect, draw func(*document.Canvas, rect.Rect) error) {
		if draw == nil || box.Dy() <= 0 {
			return
		}
		regions = append(regions, document.Region{
			Box: box,
			Draw: func(c *document.Canvas) error {
				return draw(c, box)
			},
		})
	}
	add(a.geom.TopRegion(), t.Top)
	add(a.geom.BottomRegion(), t.Bottom)
	return a.doc.SetTemplate(regions...)
}

// StaticText returns a template region which shows a fixed text,
// vertically centred in the region.
func StaticText(text string, f *font.Font, size float64, align grid.Alignment) func(*document.Canvas, rect.Rect) error {
	s := grid.Style{
		Font:   f,
		Size:   size,
		Align:  align,
		VAlign: grid.VAlignMiddle,
	}
	return func(c *document.Canvas, box rect.Rect) error {
		drawText(c, cellText(text, s, box))
		return c.Err
	}
}
