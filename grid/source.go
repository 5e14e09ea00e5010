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

package grid

import (
	"fmt"
	"io"
)

// RowSource produces the data rows of a grid, one at a time.
//
// Next returns the next row, or io.EOF once all rows have been returned.
// Rows are consumed in order and cannot be revisited.
type RowSource interface {
	Next() (*Row, error)
}

type sliceSource struct {
	rows []*Row
	pos  int
}

// Rows returns a RowSource which produces the given rows.
func Rows(rows ...*Row) RowSource {
	return &sliceSource{rows: rows}
}

func (s *sliceSource) Next() (*Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

type genSource struct {
	n, pos int
	gen    func(i int) (*Row, error)
}

// Generate returns a RowSource which produces n rows, by calling gen with
// the row indices 0, 1, ..., n-1.  Rows are generated on demand, so that
// only the rows of the current page need to be kept in memory.
func Generate(n int, gen func(i int) (*Row, error)) RowSource {
	return &genSource{n: n, gen: gen}
}

func (s *genSource) Next() (*Row, error) {
	if s.pos >= s.n {
		return nil, io.EOF
	}
	i := s.pos
	s.pos++
	row, err := s.gen(i)
	if err != nil {
		return nil, fmt.Errorf("generating row %d: %w", i, err)
	}
	return row, nil
}
