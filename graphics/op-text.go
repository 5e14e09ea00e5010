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

package graphics

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/pdf"
)

// TextStart starts a new text object.
//
// This implements the PDF graphics operator "BT".
func (w *Writer) TextStart() {
	if !w.isValid("TextStart", objPage) {
		return
	}
	w.currentObject = objText
	w.nesting = append(w.nesting, pairTypeBT)

	_, w.Err = fmt.Fprintln(w.Content, "BT")
}

// TextEnd ends the current text object.
//
// This implements the PDF graphics operator "ET".
func (w *Writer) TextEnd() {
	if !w.isValid("TextEnd", objText) {
		return
	}
	if len(w.nesting) == 0 || w.nesting[len(w.nesting)-1] != pairTypeBT {
		w.Err = errors.New("TextEnd: no matching TextStart")
		return
	}
	w.nesting = w.nesting[:len(w.nesting)-1]
	w.currentObject = objPage

	_, w.Err = fmt.Fprintln(w.Content, "ET")
}

// TextSetFont sets the font and font size.  The font dictionary must
// already have been written to the PDF file, as the object ref.
//
// This implements the PDF graphics operator "Tf".
func (w *Writer) TextSetFont(f *font.Font, ref pdf.Reference, size float64) {
	if !w.isValid("TextSetFont", objText|objPage) {
		return
	}
	if w.isSet(StateTextFont) && w.TextFont == f && nearlyEqual(size, w.TextFontSize) {
		return
	}

	name := w.resourceName(catFont, ref)
	w.TextFont = f
	w.TextFontSize = size
	w.Set |= StateTextFont

	w.Err = name.PDF(w.Content)
	if w.Err != nil {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, "", w.coord(size), "Tf")
}

// TextFirstLine moves to the start of the next line, offset from the start
// of the current line by (dx, dy).  At the start of a text object, the
// offset is relative to the origin.
//
// This implements the PDF graphics operator "Td".
func (w *Writer) TextFirstLine(dx, dy float64) {
	if !w.isValid("TextFirstLine", objText) {
		return
	}

	_, w.Err = fmt.Fprintln(w.Content, w.coord(dx), w.coord(dy), "Td")
}

// TextShow draws a string using the current font.
//
// This implements the PDF graphics operator "Tj".
func (w *Writer) TextShow(s string) {
	if !w.isValid("TextShow", objText) {
		return
	}
	if !w.isSet(StateTextFont) {
		w.Err = errors.New("TextShow: no font set")
		return
	}

	w.Err = w.TextFont.Encode(s).PDF(w.Content)
	if w.Err != nil {
		return
	}
	_, w.Err = io.WriteString(w.Content, " Tj\n")
}
