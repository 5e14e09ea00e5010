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

package document

import (
	"errors"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfgrid/pdf"
)

// Region is a part of the page template.
type Region struct {
	// Box is the area of the page covered by the region.
	// Content drawn outside the box is clipped.
	Box rect.Rect

	// Draw paints the region.  It is called exactly once.
	Draw func(c *Canvas) error
}

// SetTemplate attaches a page template to the document.
//
// Each region is written to the file once, as a form XObject, and is
// painted on every page added afterwards.  The template must be set
// before the first page is added, and can only be set once.
func (doc *MultiPage) SetTemplate(regions ...Region) error {
	if doc.closed {
		return ErrClosed
	}
	if doc.template != nil {
		return errors.New("page template already set")
	}
	if doc.numOpen > 0 || doc.NumPages() > 0 {
		return errors.New("page template must be set before the first page")
	}

	refs := make([]pdf.Reference, 0, len(regions))
	for _, r := range regions {
		if r.Box.Dx() <= 0 || r.Box.Dy() <= 0 {
			continue
		}
		ref, err := doc.writeForm(r)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}
	doc.template = refs
	return nil
}

// writeForm renders a template region into a form XObject.
// The form uses page coordinates, so that it can be painted with the
// identity transformation.
func (doc *MultiPage) writeForm(r Region) (pdf.Reference, error) {
	c := newCanvas(doc)
	if r.Draw != nil {
		err := r.Draw(c)
		if err != nil {
			return 0, err
		}
	}
	err := c.Finish()
	if err != nil {
		return 0, err
	}

	box := r.Box
	dict := pdf.Dict{
		"Type":    pdf.Name("XObject"),
		"Subtype": pdf.Name("Form"),
		"BBox": pdf.Array{
			pdf.Real(box.LLx), pdf.Real(box.LLy), pdf.Real(box.URx), pdf.Real(box.URy),
		},
		"Resources": c.Resources,
	}
	ref := doc.Out.Alloc()
	stm, err := doc.Out.OpenStream(ref, dict, true)
	if err != nil {
		return 0, err
	}
	_, err = c.buf.WriteTo(stm)
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}
