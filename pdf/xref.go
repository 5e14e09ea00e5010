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
	"strconv"
)

type xRefEntry struct {
	// InStream, if non-zero, is the object stream which contains the object.
	// In this case, Pos is the index of the object within the stream.
	InStream Reference

	// Pos is the byte offset of the object in the file.  Free entries
	// use -1.
	Pos        int64
	Generation uint16
}

func (entry *xRefEntry) IsFree() bool {
	return entry == nil || entry.Pos < 0
}

func (r *Reader) findXRef() (int64, error) {
	pos, err := r.lastOccurrence("startxref")
	if err != nil {
		return 0, err
	}

	s := r.scannerAt(pos + 9)
	err = s.SkipWhiteSpace()
	if err != nil {
		return 0, err
	}
	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}
	if xRefPos <= 0 || int64(xRefPos) >= r.size {
		return 0, malformed(s.filePos(), "invalid xref position")
	}
	return int64(xRefPos), nil
}

func (r *Reader) lastOccurrence(pat string) (int64, error) {
	const chunkSize = 1024

	buf := make([]byte, chunkSize)
	k := int64(len(pat))
	pos := r.size
	for pos >= k {
		start := max(pos-chunkSize, 0)
		n, err := r.r.ReadAt(buf[:pos-start], start)
		if err != nil && err != io.EOF {
			return 0, err
		}

		idx := bytes.LastIndex(buf[:n], []byte(pat))
		if idx >= 0 {
			return start + int64(idx), nil
		}
		if start == 0 {
			break
		}
		pos = start + k - 1
	}
	return 0, malformed(0, "startxref not found")
}

// readXRef reads all cross-reference sections of the file, following the
// /Prev chain.  Entries from newer sections take precedence.
func (r *Reader) readXRef() (map[uint32]*xRefEntry, Dict, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, nil, err
	}

	xref := make(map[uint32]*xRefEntry)
	trailer := Dict{}
	first := true
	seen := make(map[int64]bool)
	for !seen[start] {
		seen[start] = true

		s := r.scannerAt(start)
		buf, err := s.Peek(4)
		if err != nil {
			return nil, nil, err
		}

		var dict Dict
		if bytes.Equal(buf, []byte("xref")) {
			dict, err = readXRefTable(xref, s)
			if err != nil {
				return nil, nil, err
			}

			// hybrid-reference files
			if zStart, ok := dict["XRefStm"].(Integer); ok {
				_, err = r.readXRefStream(xref, r.scannerAt(int64(zStart)))
				if err != nil {
					return nil, nil, err
				}
			}
		} else {
			dict, err = r.readXRefStream(xref, s)
			if err != nil {
				return nil, nil, err
			}
		}

		if first {
			for _, key := range []Name{"Root", "Encrypt", "Info", "ID"} {
				if val, ok := dict[key]; ok {
					trailer[key] = val
				}
			}
			first = false
		}

		prev := dict["Prev"]
		if prev == nil {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= r.size {
			return nil, nil, &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int64(prevStart)
	}

	return xref, trailer, nil
}

func readXRefTable(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}

	for {
		buf, err := s.Peek(1)
		if err != nil {
			return nil, err
		}
		if len(buf) == 0 || buf[0] < '0' || buf[0] > '9' {
			break
		}

		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		length, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if start < 0 || length < 0 {
			return nil, malformed(s.filePos(), "invalid xref subsection")
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		err = decodeXRefSection(xref, s, uint32(start), uint32(start+length))
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
	}

	err = s.SkipString("trailer")
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	return s.ReadDict()
}

func decodeXRefSection(xref map[uint32]*xRefEntry, s *scanner, start, end uint32) error {
	for i := start; i < end; i++ {
		buf, err := s.Peek(20)
		if err != nil {
			return err
		}
		if len(buf) < 18 {
			return &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}

		if xref[i] == nil {
			a, err := strconv.ParseInt(string(buf[:10]), 10, 64)
			if err != nil {
				return &MalformedFileError{Pos: s.filePos(), Err: err}
			}
			b, err := strconv.ParseUint(string(buf[11:16]), 10, 16)
			if err != nil {
				// fix a common error in some PDF files
				if bytes.HasPrefix(buf, []byte("0000000000 65536 ")) {
					b = 65535
				} else {
					return &MalformedFileError{Pos: s.filePos(), Err: err}
				}
			}
			switch buf[17] {
			case 'f':
				xref[i] = &xRefEntry{Pos: -1, Generation: uint16(b)}
			case 'n':
				xref[i] = &xRefEntry{Pos: a, Generation: uint16(b)}
			default:
				return malformed(s.filePos(), "malformed xref table")
			}
		}

		// entries are 20 bytes, but some writers use 19 byte entries
		err = s.Discard(18)
		if err != nil {
			return err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readXRefStream(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	_, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*Stream)
	if !ok {
		return nil, malformed(s.filePos(), "invalid xref stream")
	}
	dict := stream.Dict

	w, ss, err := checkXRefStreamDict(dict)
	if err != nil {
		return nil, err
	}
	body, err := DecodeStream(stream)
	if err != nil {
		return nil, err
	}
	err = decodeXRefStream(xref, body, w, ss)
	if err != nil {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: err}
	}
	return dict, nil
}

type xRefSubSection struct {
	Start, Size uint32
}

func checkXRefStreamDict(dict Dict) ([]int, []xRefSubSection, error) {
	errXRef := errors.New("malformed xref stream dictionary")

	size, ok := dict["Size"].(Integer)
	if !ok || size < 0 {
		return nil, nil, &MalformedFileError{Err: errXRef}
	}
	W, ok := dict["W"].(Array)
	if !ok || len(W) < 3 {
		return nil, nil, &MalformedFileError{Err: errXRef}
	}
	w := make([]int, len(W))
	for i, Wi := range W {
		wi, ok := Wi.(Integer)
		if !ok || wi < 0 || wi > 8 {
			return nil, nil, &MalformedFileError{Err: errXRef}
		}
		w[i] = int(wi)
	}

	var ss []xRefSubSection
	switch index := dict["Index"].(type) {
	case nil:
		ss = append(ss, xRefSubSection{0, uint32(size)})
	case Array:
		if len(index)%2 != 0 {
			return nil, nil, &MalformedFileError{Err: errXRef}
		}
		for i := 0; i < len(index); i += 2 {
			start, ok1 := index[i].(Integer)
			n, ok2 := index[i+1].(Integer)
			if !ok1 || !ok2 || start < 0 || n < 0 {
				return nil, nil, &MalformedFileError{Err: errXRef}
			}
			ss = append(ss, xRefSubSection{uint32(start), uint32(n)})
		}
	default:
		return nil, nil, &MalformedFileError{Err: errXRef}
	}
	return w, ss, nil
}

func decodeXRefStream(xref map[uint32]*xRefEntry, r io.Reader, w []int, ss []xRefSubSection) error {
	wTotal := 0
	for _, wi := range w {
		wTotal += wi
	}
	buf := make([]byte, wTotal)

	w0, w1, w2 := w[0], w[1], w[2]
	for _, sec := range ss {
		for i := sec.Start; i < sec.Start+sec.Size; i++ {
			_, err := io.ReadFull(r, buf)
			if err != nil {
				return err
			}
			if xref[i] != nil {
				continue
			}

			tp := decodeInt(buf[:w0])
			if w0 == 0 {
				tp = 1
			}
			a := decodeInt(buf[w0 : w0+w1])
			b := decodeInt(buf[w0+w1 : w0+w1+w2])
			switch tp {
			case 0: // free object
				xref[i] = &xRefEntry{Pos: -1, Generation: uint16(b)}
			case 1: // uncompressed object, a = byte offset
				xref[i] = &xRefEntry{Pos: a, Generation: uint16(b)}
			case 2: // compressed object, a = object stream, b = index
				xref[i] = &xRefEntry{
					InStream: NewReference(uint32(a), 0),
					Pos:      b,
				}
			}
		}
	}
	return nil
}

func decodeInt(buf []byte) (res int64) {
	for _, x := range buf {
		res = res<<8 | int64(x)
	}
	return res
}

func (pdf *Writer) writeXRefTable(trailer Dict) error {
	_, err := fmt.Fprintf(pdf.w, "xref\n0 %d\n", pdf.nextRef)
	if err != nil {
		return err
	}
	for i := uint32(0); i < pdf.nextRef; i++ {
		entry := pdf.xref[i]
		if entry != nil && entry.Pos >= 0 {
			_, err = fmt.Fprintf(pdf.w, "%010d %05d n\r\n", entry.Pos, entry.Generation)
		} else {
			_, err = io.WriteString(pdf.w, "0000000000 65535 f\r\n")
		}
		if err != nil {
			return err
		}
	}

	trailer["Size"] = Integer(pdf.nextRef)
	_, err = io.WriteString(pdf.w, "trailer\n")
	if err != nil {
		return err
	}
	return trailer.PDF(pdf.w)
}
