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

package layout

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"seehuhn.de/go/pdfgrid/grid"
)

// ErrInvalidGeometry indicates that the page has no space left for data
// rows, after margins, page template and header rows are subtracted.
var ErrInvalidGeometry = errors.New("invalid page geometry")

// RowError is returned when a row cannot be laid out.
type RowError struct {
	// Index is the index of the offending row, counting header rows and
	// data rows separately.
	Index int

	// Header is true if the row is a header row.
	Header bool

	Err error
}

func (err *RowError) Error() string {
	kind := "data"
	if err.Header {
		kind = "header"
	}
	return fmt.Sprintf("%s row %d: %v", kind, err.Index, err.Err)
}

func (err *RowError) Unwrap() error {
	return err.Err
}

// Fragment describes the part of a table shown on one page.
type Fragment struct {
	// Index is the page number of the fragment, starting at 0.
	Index int

	// Header contains the header rows shown on this page.
	Header        []*grid.Row
	HeaderHeights []float64

	Rows       []*grid.Row
	RowHeights []float64

	// Start and End give the range of data row indices in the fragment.
	Start, End int

	// Remaining is the unused height of the content box.
	Remaining float64

	// Overflow is set if the fragment contains a single row which is too
	// tall for any page of the table.  The row is clipped at the
	// bottom edge of the content box when the page is drawn.
	Overflow bool
}

// Observer is notified about the progress of pagination.
type Observer interface {
	FragmentDone(frag *Fragment)
	RowOverflow(index int, height, avail float64)
}

// Options can be used to control pagination.
type Options struct {
	Observer Observer
}

// Paginator produces the fragments of a table, one at a time.
type Paginator struct {
	g      *grid.Grid
	m      grid.TextMeasurer
	obs    Observer
	widths []float64
	usable float64

	headerHeights []float64
	headerHeight  float64

	next      int // index of the next data row
	pending   *grid.Row
	pendingH  float64
	numFrags  int
	exhausted bool
	err       error
}

// Paginate prepares a grid for splitting into pages.
//
// Header rows are measured immediately.  Data rows are only read from the
// grid when fragments are requested via [Paginator.Next].
func Paginate(g *grid.Grid, geom *Geometry, m grid.TextMeasurer, opt *Options) (*Paginator, error) {
	if opt == nil {
		opt = &Options{}
	}

	usable := geom.UsableHeight()
	if usable <= 0 {
		return nil, fmt.Errorf("%w: usable height %g", ErrInvalidGeometry, usable)
	}
	box := geom.ContentBox()
	if box.Dx() <= 0 {
		return nil, fmt.Errorf("%w: content width %g", ErrInvalidGeometry, box.Dx())
	}
	widths, err := g.Widths(box.Dx())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	p := &Paginator{
		g:      g,
		m:      m,
		obs:    opt.Observer,
		widths: widths,
		usable: usable,
	}
	for i, row := range g.Header {
		h, err := grid.MeasureRow(row, widths, g.Style, m)
		if err != nil {
			return nil, &RowError{Index: i, Header: true, Err: err}
		}
		p.headerHeights = append(p.headerHeights, h)
		p.headerHeight += h
	}
	if len(g.Header) > 0 && usable-p.headerHeight <= 0 {
		return nil, fmt.Errorf("%w: header rows need height %g, only %g available",
			ErrInvalidGeometry, p.headerHeight, usable)
	}
	if g.Rows == nil {
		p.exhausted = true
	}
	return p, nil
}

// Widths returns the column widths used for the table.
func (p *Paginator) Widths() []float64 {
	return p.widths
}

// Next returns the next fragment.  After the last fragment, io.EOF is
// returned.
//
// An empty table gives a single fragment if the table has header rows,
// and no fragments otherwise.
func (p *Paginator) Next() (*Fragment, error) {
	if p.err != nil {
		return nil, p.err
	}

	frag := &Fragment{
		Index: p.numFrags,
		Start: p.next,
	}
	avail := p.usable - p.reserved(frag.Index)
	if p.numFrags == 0 || p.g.RepeatHeader {
		frag.Header = p.g.Header
		frag.HeaderHeights = p.headerHeights
	}

	for {
		row, h, err := p.peek()
		if err == io.EOF {
			break
		} else if err != nil {
			p.err = fmt.Errorf("page %d: %w", frag.Index+1, err)
			return nil, p.err
		}

		if h > avail {
			if len(frag.Rows) > 0 {
				break
			}
			if h <= p.usable-p.reserved(frag.Index+1) {
				// The row fits on the next page, which has no header.
				break
			}
			// The row does not fit on an empty page.  Place it on a
			// page by itself.
			frag.Overflow = true
			if p.obs != nil {
				p.obs.RowOverflow(p.next, h, avail)
			}
			p.take(frag, row, h)
			avail = 0
			break
		}

		p.take(frag, row, h)
		avail -= h
	}

	if len(frag.Rows) == 0 && (p.numFrags > 0 || len(frag.Header) == 0) {
		return nil, io.EOF
	}

	frag.End = p.next
	frag.Remaining = avail
	p.numFrags++
	if p.obs != nil {
		p.obs.FragmentDone(frag)
	}
	return frag, nil
}

// All iterates over the remaining fragments.  Iteration stops after the
// first error.
func (p *Paginator) All() iter.Seq2[*Fragment, error] {
	return func(yield func(*Fragment, error) bool) {
		for {
			frag, err := p.Next()
			if err == io.EOF {
				return
			}
			if !yield(frag, err) || err != nil {
				return
			}
		}
	}
}

// peek returns the next data row and its height, without consuming it.
func (p *Paginator) peek() (*grid.Row, float64, error) {
	if p.pending != nil {
		return p.pending, p.pendingH, nil
	}
	if p.exhausted {
		return nil, 0, io.EOF
	}

	row, err := p.g.Rows.Next()
	if err == io.EOF {
		p.exhausted = true
		return nil, 0, io.EOF
	} else if err != nil {
		return nil, 0, &RowError{Index: p.next, Err: err}
	}

	h, err := grid.MeasureRow(row, p.widths, p.g.Style, p.m)
	if err != nil {
		return nil, 0, &RowError{Index: p.next, Err: err}
	}
	p.pending = row
	p.pendingH = h
	return row, h, nil
}

// reserved returns the height taken by header rows on the fragment with
// the given index.
func (p *Paginator) reserved(index int) float64 {
	if index == 0 || p.g.RepeatHeader {
		return p.headerHeight
	}
	return 0
}

func (p *Paginator) take(frag *Fragment, row *grid.Row, h float64) {
	frag.Rows = append(frag.Rows, row)
	frag.RowHeights = append(frag.RowHeights, h)
	p.pending = nil
	p.next++
}
