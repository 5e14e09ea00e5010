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
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// DecodeStream returns a reader for the decoded contents of stm.
// Only the FlateDecode filter is supported, optionally with a PNG
// predictor.  Filter parameters must be direct objects.
func DecodeStream(stm *Stream) (io.Reader, error) {
	var filters, params Array
	switch f := stm.Dict["Filter"].(type) {
	case nil:
		// pass
	case Name:
		filters = Array{f}
		params = Array{stm.Dict["DecodeParms"]}
	case Array:
		filters = f
		params, _ = stm.Dict["DecodeParms"].(Array)
	default:
		return nil, fmt.Errorf("invalid /Filter %s", Format(f))
	}

	r := stm.R
	for i, filter := range filters {
		var param Object
		if i < len(params) {
			param = params[i]
		}
		var err error
		r, err = applyFilter(r, filter, param)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func applyFilter(r io.Reader, name Object, param Object) (io.Reader, error) {
	n, ok := name.(Name)
	if !ok {
		return nil, fmt.Errorf("invalid filter description %s", Format(name))
	}
	switch n {
	case "FlateDecode", "Fl":
		params := map[Name]int{
			"Predictor":        1,
			"Colors":           1,
			"BitsPerComponent": 8,
			"Columns":          1,
		}
		if pDict, ok := param.(Dict); ok {
			for key := range params {
				if val, ok := pDict[key].(Integer); ok {
					params[key] = int(val)
				}
			}
		}

		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}

		pred := params["Predictor"]
		switch {
		case pred == 1:
			return zr, nil
		case pred >= 10 && pred <= 15:
			bpp := (params["Colors"]*params["BitsPerComponent"] + 7) / 8
			rowLen := (params["Columns"]*params["Colors"]*params["BitsPerComponent"] + 7) / 8
			if bpp < 1 || rowLen < 1 || rowLen > 1<<20 {
				return nil, errors.New("invalid predictor parameters")
			}
			return &pngReader{
				r:    zr,
				bpp:  bpp,
				prev: make([]byte, rowLen),
				cur:  make([]byte, 1+rowLen),
			}, nil
		default:
			return nil, fmt.Errorf("unsupported predictor %d", pred)
		}
	default:
		return nil, fmt.Errorf("unsupported filter %q", n)
	}
}

// pngReader undoes the PNG row filters.  Each row starts with a
// tag byte which selects the filter for this row.
type pngReader struct {
	r    io.Reader
	bpp  int
	prev []byte
	cur  []byte
	pend []byte
}

func (r *pngReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}

		_, err := io.ReadFull(r.r, r.cur)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil {
			return n, err
		}

		row := r.cur[1:]
		switch r.cur[0] {
		case 0: // None
		case 1: // Sub
			for i := r.bpp; i < len(row); i++ {
				row[i] += row[i-r.bpp]
			}
		case 2: // Up
			for i := range row {
				row[i] += r.prev[i]
			}
		case 3: // Average
			for i := range row {
				var left int
				if i >= r.bpp {
					left = int(row[i-r.bpp])
				}
				row[i] += byte((left + int(r.prev[i])) / 2)
			}
		case 4: // Paeth
			for i := range row {
				var a, c byte
				if i >= r.bpp {
					a = row[i-r.bpp]
					c = r.prev[i-r.bpp]
				}
				row[i] += paeth(a, r.prev[i], c)
			}
		default:
			return n, fmt.Errorf("invalid PNG predictor tag %d", r.cur[0])
		}
		copy(r.prev, row)
		r.pend = r.prev
	}
	return n, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
