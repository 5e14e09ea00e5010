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
	"fmt"
	"io"
)

// Getter represents a source of PDF objects, for example a [Reader].
type Getter interface {
	Resolve(obj Object) (Object, error)
}

// A Copier is used to copy objects from one PDF file to another. The Copier
// keeps track of the objects that have already been copied and ensures that
// each object is copied only once.
//
// Indirect objects are allocated in the target file as needed, and references
// are translated accordingly.  Stream data is copied without decoding.
type Copier struct {
	trans map[Reference]Reference
	r     Getter
	w     *Writer
}

// NewCopier creates a new Copier.
func NewCopier(w *Writer, r Getter) *Copier {
	return &Copier{
		trans: make(map[Reference]Reference),
		w:     w,
		r:     r,
	}
}

// Copy copies an object from the source file to the target file, recursively.
// Streams can only be copied as indirect objects, via their reference.
func (c *Copier) Copy(obj Object) (Object, error) {
	switch x := obj.(type) {
	case Dict:
		return c.CopyDict(x)
	case Array:
		return c.CopyArray(x)
	case Reference:
		return c.CopyReference(x)
	case *Stream:
		return nil, fmt.Errorf("cannot copy %s as a direct object", x)
	default:
		return obj, nil
	}
}

// CopyDict copies a dictionary from the source file to the target file.
func (c *Copier) CopyDict(obj Dict) (Dict, error) {
	if obj == nil {
		return nil, nil
	}
	res := Dict{}
	for key, val := range obj {
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		if repl != nil {
			res[key] = repl
		}
	}
	return res, nil
}

// CopyArray copies an array from the source file to the target file.
func (c *Copier) CopyArray(obj Array) (Array, error) {
	res := make(Array, len(obj))
	for i, val := range obj {
		repl, err := c.Copy(val)
		if err != nil {
			return nil, err
		}
		res[i] = repl
	}
	return res, nil
}

// CopyReference copies an indirect object from the source file to the
// target file and returns the reference of the copy.
func (c *Copier) CopyReference(obj Reference) (Reference, error) {
	newRef, ok := c.trans[obj]
	if ok {
		return newRef, nil
	}
	newRef = c.w.Alloc()
	c.trans[obj] = newRef

	val, err := c.r.Resolve(obj)
	if err != nil {
		return 0, err
	}

	if stm, isStream := val.(*Stream); isStream {
		err = c.copyStream(newRef, stm)
	} else {
		var trans Object
		trans, err = c.Copy(val)
		if err == nil {
			err = c.w.Put(newRef, trans)
		}
	}
	if err != nil {
		return 0, err
	}
	return newRef, nil
}

func (c *Copier) copyStream(newRef Reference, stm *Stream) error {
	src := Dict{}
	for key, val := range stm.Dict {
		if key != "Length" {
			src[key] = val
		}
	}
	// All objects referenced by the dictionary must be written before
	// the stream is opened.
	dict, err := c.CopyDict(src)
	if err != nil {
		return err
	}

	w, err := c.w.OpenStream(newRef, dict, false)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, stm.R)
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Redirect makes references to origRef in the source file point to newRef
// in the target file.
func (c *Copier) Redirect(origRef, newRef Reference) {
	c.trans[origRef] = newRef
}
