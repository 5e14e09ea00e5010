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

// Package layout splits tables into pages.
//
// [Paginate] takes a grid and a page geometry and returns a [Paginator],
// which produces one [Fragment] per page.  Data rows are pulled from the
// grid one at a time, so that arbitrarily long tables can be laid out
// with memory proportional to the size of a single page.
package layout

import (
	"seehuhn.de/go/geom/rect"
)

// Margins gives the distance between the page edges and the content box.
type Margins struct {
	Top, Left, Bottom, Right float64
}

// Geometry describes the layout of a page.  All pages of a document use
// the same geometry.
type Geometry struct {
	PageSize rect.Rect
	Margins  Margins

	// TemplateTop and TemplateBottom reserve space inside the margins,
	// for the page template.
	TemplateTop, TemplateBottom float64
}

// ContentBox returns the area of the page available for the table.
func (g *Geometry) ContentBox() rect.Rect {
	return rect.Rect{
		LLx: g.PageSize.LLx + g.Margins.Left,
		LLy: g.PageSize.LLy + g.Margins.Bottom + g.TemplateBottom,
		URx: g.PageSize.URx - g.Margins.Right,
		URy: g.PageSize.URy - g.Margins.Top - g.TemplateTop,
	}
}

// UsableHeight returns the height available for table rows on each page.
func (g *Geometry) UsableHeight() float64 {
	box := g.ContentBox()
	return box.Dy()
}

// TopRegion returns the area reserved for the top part of the page
// template.
func (g *Geometry) TopRegion() rect.Rect {
	top := g.PageSize.URy - g.Margins.Top
	return rect.Rect{
		LLx: g.PageSize.LLx + g.Margins.Left,
		LLy: top - g.TemplateTop,
		URx: g.PageSize.URx - g.Margins.Right,
		URy: top,
	}
}

// BottomRegion returns the area reserved for the bottom part of the page
// template.
func (g *Geometry) BottomRegion() rect.Rect {
	bottom := g.PageSize.LLy + g.Margins.Bottom
	return rect.Rect{
		LLx: g.PageSize.LLx + g.Margins.Left,
		LLy: bottom,
		URx: g.PageSize.URx - g.Margins.Right,
		URy: bottom + g.TemplateBottom,
	}
}
