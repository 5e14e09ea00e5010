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

// Package graphics writes PDF content streams.
//
// A [Writer] emits graphics operators to an io.Writer and keeps track of
// the resources used by the content stream.  Errors are sticky: once an
// operator fails, the error is stored in [Writer.Err] and all further
// operators are ignored.
package graphics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/pdf"
)

// Writer writes a PDF content stream.
type Writer struct {
	Content io.Writer

	// Resources is the resource dictionary for the content stream.
	// Entries are added as fonts and XObjects are used.
	Resources pdf.Dict

	Err error

	State
	stack []State

	currentObject objectType
	nesting       []pairType

	resName map[resKey]pdf.Name
}

type objectType byte

const (
	objPage objectType = 1 << iota
	objPath
	objText
	objClipping
)

func (s objectType) String() string {
	switch s {
	case objPage:
		return "page"
	case objPath:
		return "path"
	case objText:
		return "text"
	case objClipping:
		return "clipping path"
	}
	return "objectType(" + strconv.Itoa(int(s)) + ")"
}

type pairType byte

const (
	pairTypeQ  pairType = iota + 1 // q ... Q
	pairTypeBT                     // BT ... ET
)

type resourceCategory pdf.Name

const (
	catFont    resourceCategory = "Font"
	catXObject resourceCategory = "XObject"
)

type resKey struct {
	cat resourceCategory
	ref pdf.Reference
}

// NewWriter allocates a new Writer object.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		Content:       out,
		Resources:     pdf.Dict{},
		State:         NewState(),
		currentObject: objPage,
		resName:       make(map[resKey]pdf.Name),
	}
}

// Finish checks that all q/Q and BT/ET pairs have been closed, and returns
// the first error encountered while writing the content stream.
func (w *Writer) Finish() error {
	if w.Err != nil {
		return w.Err
	}
	if len(w.nesting) > 0 {
		return errors.New("unbalanced graphics operators at end of content stream")
	}
	if w.currentObject != objPage {
		return fmt.Errorf("unexpected state %q at end of content stream", w.currentObject)
	}
	return nil
}

// isValid returns true, if the current graphics object is one of the given
// types and if w.Err is nil.  Otherwise it sets w.Err and returns false.
func (w *Writer) isValid(cmd string, ss objectType) bool {
	if w.Err != nil {
		return false
	}
	if w.currentObject&ss != 0 {
		return true
	}
	w.Err = fmt.Errorf("unexpected state %q for %q", w.currentObject, cmd)
	return false
}

// resourceName returns the name used to refer to ref from within the
// content stream, adding ref to the resource dictionary if needed.
func (w *Writer) resourceName(cat resourceCategory, ref pdf.Reference) pdf.Name {
	key := resKey{cat, ref}
	if name, ok := w.resName[key]; ok {
		return name
	}

	dict, _ := w.Resources[pdf.Name(cat)].(pdf.Dict)
	if dict == nil {
		dict = pdf.Dict{}
		w.Resources[pdf.Name(cat)] = dict
	}

	prefix := string(cat[:1])
	var name pdf.Name
	for i := len(dict) + 1; ; i++ {
		name = pdf.Name(prefix + strconv.Itoa(i))
		if _, used := dict[name]; !used {
			break
		}
	}
	dict[name] = ref
	w.resName[key] = name
	return name
}

func (w *Writer) coord(x float64) string {
	return format(x)
}

// format formats a number for use in a content stream.  Values are
// rounded to four decimal places.
func format(x float64) string {
	x = math.Round(x*1e4) / 1e4
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func nearlyEqual(a, b float64) bool {
	const ε = 1e-6
	return math.Abs(a-b) < ε
}

// State holds the parts of the graphics state tracked by a [Writer].
type State struct {
	LineWidth  float64
	StrokeGray float64

	TextFont     *font.Font
	TextFontSize float64

	// Set records which of the fields above have been set explicitly.
	Set StateBits
}

// StateBits is a bit mask for the fields of [State].
type StateBits uint8

// Possible values for [StateBits].
const (
	StateLineWidth StateBits = 1 << iota
	StateStrokeColor
	StateTextFont
)

// NewState returns the initial graphics state of a content stream.
func NewState() State {
	return State{
		LineWidth: 1,
	}
}

func (s *State) isSet(bits StateBits) bool {
	return s.Set&bits == bits
}
