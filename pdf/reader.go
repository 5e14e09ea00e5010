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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader represents a pdf file opened for reading.
// Use [Open] or [NewReader] to create a new Reader.
type Reader struct {
	// Version is the PDF version used in this file.  This is specified in
	// the initial comment at the start of the file, and may be overridden by
	// the /Version entry in the document catalog.
	Version Version

	// ID is the file identifier, or nil if the file does not specify one.
	ID [][]byte

	size int64
	r    io.ReaderAt

	xref    map[uint32]*xRefEntry
	trailer Dict
	level   int

	stmRef  Reference
	stmData []byte
	stmIdx  map[uint32]int64
}

// Open opens the named PDF file for reading.  After use, [Reader.Close]
// must be called to close the file the Reader is reading from.
func Open(fname string) (*Reader, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	r, err := NewReader(fd, fi.Size())
	if err != nil {
		fd.Close()
		return nil, err
	}
	return r, nil
}

// NewReader creates a new Reader object.
// Encrypted files are rejected with [ErrEncrypted].
func NewReader(data io.ReaderAt, size int64) (*Reader, error) {
	r := &Reader{
		size: size,
		r:    data,
	}

	s := r.scannerAt(0)
	version, err := s.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.Version = version

	xref, trailer, err := r.readXRef()
	if err != nil {
		return nil, err
	}
	r.xref = xref
	r.trailer = trailer

	if trailer["Encrypt"] != nil {
		return nil, ErrEncrypted
	}

	if ID, ok := trailer["ID"].(Array); ok && len(ID) >= 2 {
		for _, part := range ID[:2] {
			s, ok := part.(String)
			if !ok {
				break
			}
			r.ID = append(r.ID, []byte(s))
		}
		if len(r.ID) != 2 {
			r.ID = nil
		}
	}

	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	if verName, ok := catalog["Version"].(Name); ok {
		ver, err := ParseVersion(string(verName))
		if err == nil && ver > r.Version {
			r.Version = ver
		}
	}

	return r, nil
}

// Close closes the file underlying the reader.  This call only has an effect
// if the io.ReaderAt passed to NewReader() has a Close() method, or if the
// Reader was created using Open().
func (r *Reader) Close() error {
	if closer, ok := r.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Trailer returns the trailer dictionary of the file.
// Only the /Root, /Info and /ID entries are included.
func (r *Reader) Trailer() Dict {
	return r.trailer
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() (Dict, error) {
	root := r.trailer["Root"]
	if root == nil {
		return nil, malformed(0, "missing /Root in trailer")
	}
	return r.GetDict(root)
}

// Info returns the document information dictionary, or nil if the file
// has none.
func (r *Reader) Info() (*Info, error) {
	infoObj := r.trailer["Info"]
	if infoObj == nil {
		return nil, nil
	}
	dict, err := r.GetDict(infoObj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, nil
	}
	return DecodeInfo(dict), nil
}

// Resolve resolves references to indirect objects.
//
// If obj is a [Reference], the function loads the corresponding object
// from the file and returns the result.  Otherwise, obj is returned
// unchanged.  References to free or missing objects resolve to nil.
func (r *Reader) Resolve(obj Object) (Object, error) {
	ref, ok := obj.(Reference)
	if !ok {
		return obj, nil
	}
	return r.get(ref, true)
}

func (r *Reader) get(ref Reference, canStream bool) (Object, error) {
	entry := r.xref[ref.Number()]
	if entry.IsFree() {
		return nil, nil
	}

	if entry.InStream != 0 {
		if !canStream {
			return nil, malformed(0, "object streams inside object streams not allowed")
		}
		if ref.Generation() != 0 {
			return nil, nil
		}
		return r.getFromObjectStream(ref.Number(), entry.InStream, entry.Pos)
	}
	if entry.Generation != ref.Generation() {
		return nil, nil
	}

	s := r.scannerAt(entry.Pos)
	fileRef, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if fileRef != ref {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("xref corrupted: expected %s, found %s", ref, fileRef),
		}
	}
	return obj, nil
}

func (r *Reader) getFromObjectStream(number uint32, stmRef Reference, idx int64) (Object, error) {
	if r.stmRef != stmRef || r.stmData == nil {
		err := r.loadObjectStream(stmRef)
		if err != nil {
			return nil, err
		}
	}

	offs, ok := r.stmIdx[number]
	if !ok {
		return nil, &MalformedFileError{
			Pos: r.errPos(stmRef),
			Err: fmt.Errorf("object %d missing from object stream (index %d)", number, idx),
		}
	}
	if offs < 0 || offs > int64(len(r.stmData)) {
		return nil, malformed(r.errPos(stmRef), "invalid offset in object stream")
	}
	s := newScanner(bytes.NewReader(r.stmData[offs:]), r.safeGetInt)
	err := s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	return s.ReadObject()
}

func (r *Reader) loadObjectStream(stmRef Reference) error {
	container, err := r.get(stmRef, false)
	if err != nil {
		return err
	}
	stream, ok := container.(*Stream)
	if !ok {
		return malformed(r.errPos(stmRef), "wrong type for object stream")
	}

	N, ok := stream.Dict["N"].(Integer)
	if !ok || N < 0 || N > 1_000_000 {
		return malformed(r.errPos(stmRef), "no valid /N for ObjStm")
	}
	first, ok := stream.Dict["First"].(Integer)
	if !ok || first < 0 {
		return malformed(r.errPos(stmRef), "no valid /First for ObjStm")
	}

	decoded, err := DecodeStream(stream)
	if err != nil {
		return &MalformedFileError{Pos: r.errPos(stmRef), Err: err}
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return &MalformedFileError{Pos: r.errPos(stmRef), Err: err}
	}

	s := newScanner(bytes.NewReader(data), r.safeGetInt)
	idx := make(map[uint32]int64, N)
	for range N {
		err = s.SkipWhiteSpace()
		if err != nil {
			return err
		}
		no, err := s.ReadInteger()
		if err != nil {
			return err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return err
		}
		offs, err := s.ReadInteger()
		if err != nil {
			return err
		}
		if no < 0 || no > 0xFFFFFFFF {
			return malformed(r.errPos(stmRef), "invalid object number in ObjStm")
		}
		idx[uint32(no)] = int64(first) + int64(offs)
	}

	r.stmRef = stmRef
	r.stmData = data
	r.stmIdx = idx
	return nil
}

// GetDict resolves references to indirect objects and makes sure the resulting
// object is a dictionary.  A nil object yields a nil dictionary.
func (r *Reader) GetDict(obj Object) (Dict, error) {
	candidate, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch val := candidate.(type) {
	case nil:
		return nil, nil
	case Dict:
		return val, nil
	case *Stream:
		return val.Dict, nil
	}
	return nil, &MalformedFileError{
		Pos: r.errPos(obj),
		Err: errors.New("wrong type (expected Dict)"),
	}
}

// GetStream resolves references to indirect objects and makes sure the
// resulting object is a stream.  A nil object yields a nil stream.
func (r *Reader) GetStream(obj Object) (*Stream, error) {
	candidate, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch val := candidate.(type) {
	case nil:
		return nil, nil
	case *Stream:
		return val, nil
	}
	return nil, &MalformedFileError{
		Pos: r.errPos(obj),
		Err: errors.New("wrong type (expected Stream)"),
	}
}

// GetInteger resolves references to indirect objects and makes sure the
// resulting object is an Integer.
func (r *Reader) GetInteger(obj Object) (Integer, error) {
	candidate, err := r.Resolve(obj)
	if err != nil {
		return 0, err
	}
	val, ok := candidate.(Integer)
	if !ok {
		return 0, &MalformedFileError{
			Pos: r.errPos(obj),
			Err: errors.New("wrong type (expected Integer)"),
		}
	}
	return val, nil
}

func (r *Reader) safeGetInt(obj Object) (Integer, error) {
	if x, ok := obj.(Integer); ok {
		return x, nil
	}

	if r.level > 2 {
		return 0, &MalformedFileError{
			Pos: r.errPos(obj),
			Err: errors.New("too many levels of indirection for /Length"),
		}
	}
	r.level++
	val, err := r.GetInteger(obj)
	r.level--
	return val, err
}

func (r *Reader) scannerAt(pos int64) *scanner {
	s := newScanner(io.NewSectionReader(r.r, pos, r.size-pos), r.safeGetInt)
	s.ra = r.r
	s.base = pos
	return s
}

func (r *Reader) errPos(obj Object) int64 {
	ref, ok := obj.(Reference)
	if !ok || r.xref == nil {
		return 0
	}

	for range 2 {
		entry := r.xref[ref.Number()]
		if entry.IsFree() {
			return 0
		}
		if entry.InStream == 0 {
			return entry.Pos
		}
		ref = entry.InStream
	}
	return 0
}
