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
	"bytes"
	"errors"

	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/graphics"
	"seehuhn.de/go/pdfgrid/pdf"
)

// Canvas is a content stream which uses the fonts of a document.
type Canvas struct {
	*graphics.Writer

	doc *MultiPage
	buf *bytes.Buffer
}

func newCanvas(doc *MultiPage) *Canvas {
	buf := &bytes.Buffer{}
	return &Canvas{
		Writer: graphics.NewWriter(buf),
		doc:    doc,
		buf:    buf,
	}
}

// SetFont sets the font and font size for subsequent text.
// The font dictionary is written to the document on first use.
func (c *Canvas) SetFont(f *font.Font, size float64) {
	if c.Err != nil {
		return
	}
	ref, err := c.doc.FontRef(f)
	if err != nil {
		c.Err = err
		return
	}
	c.TextSetFont(f, ref, size)
}

// Page is a page of a PDF document.
// The contents of the page can be drawn using the [graphics.Writer]
// methods.
type Page struct {
	*Canvas

	// Dict is the page dictionary.  Entries set by the caller are written
	// to the file when the page is closed.
	Dict pdf.Dict

	doc *MultiPage
}

// Close writes the page to the PDF file.
// The page contents can no longer be modified after this call.
func (p *Page) Close() error {
	if p.Canvas == nil {
		return errors.New("page already closed")
	}
	err := p.Finish()
	if err != nil {
		return err
	}
	doc := p.doc
	if doc.closed {
		return ErrClosed
	}

	contentRef := doc.Out.Alloc()
	stm, err := doc.Out.OpenStream(contentRef, nil, true)
	if err != nil {
		return err
	}
	_, err = p.buf.WriteTo(stm)
	if err != nil {
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	p.Dict["Contents"] = contentRef
	p.Dict["Resources"] = p.Resources
	if p.Dict["MediaBox"] == nil {
		box := doc.PageSize
		p.Dict["MediaBox"] = pdf.Array{
			pdf.Real(box.LLx), pdf.Real(box.LLy), pdf.Real(box.URx), pdf.Real(box.URy),
		}
	}

	// Disable the page, since it has been written out and cannot be
	// modified anymore.
	p.Canvas = nil
	doc.numOpen--

	return doc.Tree.AppendPage(doc.Out.Alloc(), p.Dict)
}
