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

// Package metadata reads and writes document metadata.
//
// A PDF file stores metadata in two places: the document information
// dictionary referenced from the file trailer, and an XMP metadata stream
// referenced from the document catalog.  [Document] keeps the producer
// entries of both in sync.
package metadata

import (
	"fmt"

	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfgrid/pdf"
)

// PDF 2.0 sections: 14.3

// Stream represents an XMP metadata stream.
type Stream struct {
	Data *xmp.Packet
}

// Extract reads an XMP metadata stream from a PDF file.
// If obj is nil, the function returns nil.
func Extract(r *pdf.Reader, obj pdf.Object) (*Stream, error) {
	stm, err := r.GetStream(obj)
	if stm == nil || err != nil {
		return nil, err
	}
	body, err := pdf.DecodeStream(stm)
	if err != nil {
		return nil, err
	}

	packet, err := xmp.Read(body)
	if err != nil {
		return nil, fmt.Errorf("XMP metadata: %w", err)
	}

	return &Stream{Data: packet}, nil
}

// Embed writes the XMP metadata stream to the PDF file.
func (s *Stream) Embed(w *pdf.Writer) (pdf.Reference, error) {
	if w.Version < pdf.V1_4 {
		return 0, fmt.Errorf("XMP metadata streams require PDF version 1.4, not %s", w.Version)
	}
	ref := w.Alloc()

	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	body, err := w.OpenStream(ref, dict, true)
	if err != nil {
		return 0, err
	}

	err = s.Data.Write(body, nil)
	if err != nil {
		return 0, err
	}

	err = body.Close()
	if err != nil {
		return 0, err
	}

	return ref, nil
}

// Equal reports whether s and other represent the same XMP metadata.
func (s *Stream) Equal(other *Stream) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.Data.Equal(other.Data)
}

// PDF is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type PDF struct {
	_          xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_          xmp.Prefix    `xmp:"pdf"`
	Keywords   xmp.Text
	PDFVersion xmp.Text
	Producer   xmp.Text
	Trapped    xmp.Text
}
