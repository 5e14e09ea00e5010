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

package pdf

import (
	"bufio"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Writer represents a PDF file open for writing.
// Use [NewWriter] to create a new Writer.
//
// Objects are written to the output as soon as they are passed to
// [Writer.Put], only the cross-reference information is kept in memory.
type Writer struct {
	// Version is the PDF version used in the file header.
	Version Version

	// Catalog is the document catalog.  This is written when the file is
	// closed, and must contain at least the /Pages entry by then.
	Catalog Dict

	// Info, if non-nil, is written as the document information dictionary
	// when the file is closed.
	Info *Info

	// ID, if it has two elements, is written as the file identifier.
	ID [][]byte

	w       *posWriter
	nextRef uint32
	xref    map[uint32]*xRefEntry

	inStream bool
	closed   bool
}

// NewWriter prepares a PDF file for writing.
func NewWriter(w io.Writer, ver Version) (*Writer, error) {
	verString, err := ver.ToString()
	if err != nil {
		return nil, err
	}

	pdf := &Writer{
		Version: ver,
		Catalog: Dict{},

		w:       &posWriter{w: bufio.NewWriter(w)},
		nextRef: 1,
		xref:    make(map[uint32]*xRefEntry),
	}

	_, err = fmt.Fprintf(pdf.w, "%%PDF-%s\n%%\x80\x80\x80\x80\n", verString)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	ref := NewReference(pdf.nextRef, 0)
	pdf.nextRef++
	return ref
}

// Put writes obj to the file, as the indirect object ref.
// Each reference can only be written once.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.closed {
		return ErrClosed
	}
	if pdf.inStream {
		return errors.New("Put: stream still open")
	}
	if _, seen := pdf.xref[ref.Number()]; seen {
		return fmt.Errorf("object %s already written", ref)
	}

	pos := pdf.w.pos
	err := pdf.writeHeader(ref)
	if err != nil {
		return err
	}
	err = writeObject(pdf.w, obj)
	if err != nil {
		return err
	}
	_, err = io.WriteString(pdf.w, "\nendobj\n")
	if err != nil {
		return err
	}

	pdf.xref[ref.Number()] = &xRefEntry{Pos: pos, Generation: ref.Generation()}
	return nil
}

// Write writes obj to the file as a new indirect object and returns
// the reference which was allocated for it.
func (pdf *Writer) Write(obj Object) (Reference, error) {
	ref := pdf.Alloc()
	return ref, pdf.Put(ref, obj)
}

func (pdf *Writer) writeHeader(ref Reference) error {
	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", ref.Number(), ref.Generation())
	return err
}

// OpenStream adds a stream object to the file and returns an io.WriteCloser
// which can be used to write the stream contents.  If compress is true, the
// data is compressed using the FlateDecode filter.  The /Length entry of the
// stream dictionary is filled in automatically, using an indirect object.
//
// The stream data goes straight to the output, so no other objects can be
// written until the returned WriteCloser has been closed.
func (pdf *Writer) OpenStream(ref Reference, dict Dict, compress bool) (io.WriteCloser, error) {
	if pdf.closed {
		return nil, ErrClosed
	}
	if pdf.inStream {
		return nil, errors.New("OpenStream: another stream is still open")
	}
	if _, seen := pdf.xref[ref.Number()]; seen {
		return nil, fmt.Errorf("object %s already written", ref)
	}

	streamDict := Dict{}
	for key, val := range dict {
		streamDict[key] = val
	}
	lengthRef := pdf.Alloc()
	streamDict["Length"] = lengthRef
	if compress {
		streamDict["Filter"] = Name("FlateDecode")
	}

	pos := pdf.w.pos
	err := pdf.writeHeader(ref)
	if err != nil {
		return nil, err
	}
	err = streamDict.PDF(pdf.w)
	if err != nil {
		return nil, err
	}
	_, err = io.WriteString(pdf.w, "\nstream\n")
	if err != nil {
		return nil, err
	}
	pdf.xref[ref.Number()] = &xRefEntry{Pos: pos, Generation: ref.Generation()}
	pdf.inStream = true

	stm := &streamWriter{
		pdf:       pdf,
		lengthRef: lengthRef,
		start:     pdf.w.pos,
	}
	if compress {
		stm.zw = zlib.NewWriter(pdf.w)
	}
	return stm, nil
}

type streamWriter struct {
	pdf       *Writer
	lengthRef Reference
	start     int64
	zw        *zlib.Writer
	closed    bool
}

func (s *streamWriter) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errors.New("write to closed stream")
	}
	if s.zw != nil {
		return s.zw.Write(p)
	}
	return s.pdf.w.Write(p)
}

func (s *streamWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.zw != nil {
		err := s.zw.Close()
		if err != nil {
			return err
		}
	}
	length := s.pdf.w.pos - s.start

	_, err := io.WriteString(s.pdf.w, "\nendstream\nendobj\n")
	if err != nil {
		return err
	}
	s.pdf.inStream = false

	return s.pdf.Put(s.lengthRef, Integer(length))
}

// Close writes the document catalog, the information dictionary, and the
// cross-reference table and flushes all data to the underlying io.Writer.
// The underlying io.Writer is not closed.
func (pdf *Writer) Close() error {
	if pdf.closed {
		return ErrClosed
	}
	if pdf.inStream {
		return errors.New("Close: stream still open")
	}
	if pdf.Catalog["Pages"] == nil {
		return errors.New("Close: missing /Pages in document catalog")
	}

	trailer := Dict{}

	pdf.Catalog["Type"] = Name("Catalog")
	rootRef, err := pdf.Write(pdf.Catalog)
	if err != nil {
		return err
	}
	trailer["Root"] = rootRef

	if pdf.Info != nil {
		infoRef, err := pdf.Write(pdf.Info.AsDict())
		if err != nil {
			return err
		}
		trailer["Info"] = infoRef
	}

	if len(pdf.ID) == 2 {
		trailer["ID"] = Array{String(pdf.ID[0]), String(pdf.ID[1])}
	}

	xRefPos := pdf.w.pos
	err = pdf.writeXRefTable(trailer)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pdf.w, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	err = pdf.w.w.Flush()
	if err != nil {
		return err
	}
	pdf.closed = true
	return nil
}

type posWriter struct {
	w   *bufio.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
