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

// Package document writes multi-page PDF documents.
//
// Pages are written to the output file as soon as they are closed, so that
// the memory needed for a document does not grow with the number of pages.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/metadata"
	"seehuhn.de/go/pdfgrid/pagetree"
	"seehuhn.de/go/pdfgrid/pdf"
)

// MultiPage is a PDF document which is written one page at a time.
type MultiPage struct {
	Out  *pdf.Writer
	Tree *pagetree.Writer

	// PageSize is the media box used for all pages.
	PageSize rect.Rect

	// Info is written as the document information dictionary.
	Info *pdf.Info

	// Metadata, if non-nil, is written as the XMP metadata stream
	// of the document.
	Metadata *xmp.Packet

	fonts    map[*font.Font]pdf.Reference
	template []pdf.Reference

	numOpen   int
	base      io.Writer
	closeBase bool
	closed    bool
}

// ErrClosed is returned by operations on a closed document.
var ErrClosed = errors.New("document already closed")

// CreateMultiPage creates a new PDF file with the given name.
func CreateMultiPage(name string, pageSize rect.Rect, ver pdf.Version) (*MultiPage, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	doc, err := WriteMultiPage(fd, pageSize, ver)
	if err != nil {
		fd.Close()
		return nil, err
	}
	doc.closeBase = true
	return doc, nil
}

// WriteMultiPage starts a new PDF document, which is written to w.
func WriteMultiPage(w io.Writer, pageSize rect.Rect, ver pdf.Version) (*MultiPage, error) {
	if pageSize.Dx() <= 0 || pageSize.Dy() <= 0 {
		return nil, fmt.Errorf("invalid page size %v", pageSize)
	}
	out, err := pdf.NewWriter(w, ver)
	if err != nil {
		return nil, err
	}

	return &MultiPage{
		Out:      out,
		Tree:     pagetree.NewWriter(out),
		PageSize: pageSize,
		Info:     &pdf.Info{},
		fonts:    make(map[*font.Font]pdf.Reference),
		base:     w,
	}, nil
}

// NumPages returns the number of pages written so far.
func (doc *MultiPage) NumPages() int {
	return doc.Tree.NumPages()
}

// FontRef returns the reference of the font dictionary for f.
// The font dictionary is written to the file on first use.
func (doc *MultiPage) FontRef(f *font.Font) (pdf.Reference, error) {
	if doc.closed {
		return 0, ErrClosed
	}
	if ref, ok := doc.fonts[f]; ok {
		return ref, nil
	}
	ref, err := doc.Out.Write(f.Dict())
	if err != nil {
		return 0, err
	}
	doc.fonts[f] = ref
	return ref, nil
}

// Close writes the page tree, the metadata and the cross-reference table
// to the file.  All pages must be closed before the document is closed.
func (doc *MultiPage) Close() error {
	if doc.closed {
		return ErrClosed
	}
	if doc.numOpen != 0 {
		return fmt.Errorf("%d pages still open", doc.numOpen)
	}
	doc.closed = true

	ref, err := doc.Tree.Close()
	if err != nil {
		return err
	}
	doc.Out.Catalog["Pages"] = ref

	if doc.Metadata != nil {
		stm := &metadata.Stream{Data: doc.Metadata}
		mRef, err := stm.Embed(doc.Out)
		if err != nil {
			return err
		}
		doc.Out.Catalog["Metadata"] = mRef
	}
	doc.Out.Info = doc.Info

	err = doc.Out.Close()
	if err != nil {
		return err
	}
	if doc.closeBase {
		err = doc.base.(io.Closer).Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// AddPage starts a new page.  The page template, if any, is painted
// before the caller's content.  The page must be closed before the
// document is closed.
func (doc *MultiPage) AddPage() (*Page, error) {
	if doc.closed {
		return nil, ErrClosed
	}
	doc.numOpen++

	p := &Page{
		Canvas: newCanvas(doc),
		Dict: pdf.Dict{
			"Type": pdf.Name("Page"),
		},
		doc: doc,
	}
	for _, ref := range doc.template {
		p.DrawXObject(ref)
	}
	return p, nil
}
