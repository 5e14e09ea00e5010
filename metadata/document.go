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

package metadata

import (
	"errors"
	"io"

	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfgrid/pdf"
)

// ErrNotLoaded is returned by methods of a [Document] which has not been
// obtained from [Load].
var ErrNotLoaded = errors.New("document not loaded")

// Document is a PDF file whose metadata can be modified.
// The file is re-serialised by [Document.WriteTo].
type Document struct {
	r       *pdf.Reader
	catalog pdf.Dict
	info    *pdf.Info
	meta    *Stream
}

// Load parses a PDF file.
//
// Classic cross-reference tables, cross-reference streams, object streams,
// and incrementally updated files are supported.  Encrypted files are
// rejected with [pdf.ErrEncrypted].
func Load(data io.ReaderAt, size int64) (*Document, error) {
	r, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, err
	}
	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &pdf.MalformedFileError{Err: errors.New("missing document catalog")}
	}

	info, err := r.Info()
	if err != nil {
		return nil, err
	}
	if info == nil {
		info = &pdf.Info{}
	} else {
		// text entries may be stored as indirect objects
		for key, val := range info.Custom {
			if _, isRef := val.(pdf.Reference); !isRef {
				continue
			}
			obj, err := r.Resolve(val)
			if err != nil {
				return nil, err
			}
			if s, isString := obj.(pdf.String); isString {
				tmp := pdf.DecodeInfo(pdf.Dict{key: s})
				if len(tmp.Custom) == 0 {
					delete(info.Custom, key)
					mergeText(info, tmp)
				}
			}
		}
	}

	meta, err := Extract(r, catalog["Metadata"])
	if err != nil {
		return nil, err
	}

	return &Document{
		r:       r,
		catalog: catalog,
		info:    info,
		meta:    meta,
	}, nil
}

func mergeText(dst, src *pdf.Info) {
	for _, p := range []struct{ d, s *string }{
		{&dst.Title, &src.Title},
		{&dst.Author, &src.Author},
		{&dst.Subject, &src.Subject},
		{&dst.Keywords, &src.Keywords},
		{&dst.Creator, &src.Creator},
		{&dst.Producer, &src.Producer},
	} {
		if *p.s != "" {
			*p.d = *p.s
		}
	}
}

// Version returns the PDF version of the loaded file.
func (d *Document) Version() (pdf.Version, error) {
	if d == nil || d.r == nil {
		return 0, ErrNotLoaded
	}
	return d.r.Version, nil
}

// Producer returns the producer recorded in the document information
// dictionary and in the XMP metadata.  Missing entries are returned as
// empty strings.
func (d *Document) Producer() (info, xmpProducer string, err error) {
	if d == nil || d.r == nil {
		return "", "", ErrNotLoaded
	}
	info = d.info.Producer
	if d.meta != nil {
		ns := &PDF{}
		d.meta.Data.Get(ns)
		xmpProducer = ns.Producer.V
	}
	return info, xmpProducer, nil
}

// SetProducer sets the producer in the document information dictionary
// and in the XMP metadata to the same value.  Other metadata is preserved.
// If the document has no XMP metadata stream, a new one is created.
func (d *Document) SetProducer(name string) error {
	if d == nil || d.r == nil {
		return ErrNotLoaded
	}

	d.info.Producer = name
	delete(d.info.Custom, "Producer")

	if d.meta == nil {
		d.meta = &Stream{Data: xmp.NewPacket()}
	}
	ns := &PDF{}
	d.meta.Data.Get(ns)
	ns.Producer = xmp.NewText(name)
	return d.meta.Data.Set(ns)
}

// WriteTo writes the document to w.
//
// All objects reachable from the document catalog and the information
// dictionary are written, unreachable objects are dropped.  Stream data
// is copied without decoding.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d == nil || d.r == nil {
		return 0, ErrNotLoaded
	}

	cw := &countingWriter{w: w}
	ver := d.r.Version
	if d.meta != nil && ver < pdf.V1_4 {
		ver = pdf.V1_4
	}
	out, err := pdf.NewWriter(cw, ver)
	if err != nil {
		return cw.n, err
	}
	out.ID = d.r.ID

	c := pdf.NewCopier(out, d.r)
	for key, val := range d.catalog {
		if key == "Metadata" || key == "Type" {
			continue
		}
		newVal, err := c.Copy(val)
		if err != nil {
			return cw.n, err
		}
		out.Catalog[key] = newVal
	}

	info := *d.info
	info.Custom, err = c.CopyDict(d.info.Custom)
	if err != nil {
		return cw.n, err
	}
	out.Info = &info

	if d.meta != nil {
		ref, err := d.meta.Embed(out)
		if err != nil {
			return cw.n, err
		}
		out.Catalog["Metadata"] = ref
	}

	err = out.Close()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}
