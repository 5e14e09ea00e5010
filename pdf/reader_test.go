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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterReader(t *testing.T) {
	out := &bytes.Buffer{}
	w, err := NewWriter(out, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	w.Info = &Info{
		Title:    "PDF Test Document",
		Author:   "Jochen Voß",
		Producer: "pdfgrid test",
	}
	w.ID = [][]byte{[]byte("0123456789abcdef"), []byte("0123456789abcdef")}

	fontRef, err := w.Write(Dict{
		"Type":     Name("Font"),
		"Subtype":  Name("Type1"),
		"BaseFont": Name("Helvetica"),
	})
	if err != nil {
		t.Fatal(err)
	}

	contentRef := w.Alloc()
	body := "BT\n/F1 24 Tf\n30 30 Td\n(Hello World) Tj\nET\n"
	stm, err := w.OpenStream(contentRef, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	_, err = stm.Write([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	err = stm.Close()
	if err != nil {
		t.Fatal(err)
	}

	pagesRef := w.Alloc()
	pageRef, err := w.Write(Dict{
		"Type":      Name("Page"),
		"MediaBox":  Array{Integer(0), Integer(0), Integer(200), Integer(100)},
		"Resources": Dict{"Font": Dict{"F1": fontRef}},
		"Contents":  contentRef,
		"Parent":    pagesRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{pageRef},
		"Count": Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Catalog["Pages"] = pagesRef

	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: got %v, want ErrClosed", err)
	}

	r, err := NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != V1_7 {
		t.Errorf("wrong version %s", r.Version)
	}
	if len(r.ID) != 2 || string(r.ID[0]) != "0123456789abcdef" {
		t.Errorf("wrong ID %q", r.ID)
	}

	info, err := r.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Author != "Jochen Voß" || info.Producer != "pdfgrid test" {
		t.Errorf("wrong info %#v", info)
	}

	catalog, err := r.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	pages, err := r.GetDict(catalog["Pages"])
	if err != nil {
		t.Fatal(err)
	}
	if pages["Count"] != Integer(1) {
		t.Errorf("wrong page count %v", pages["Count"])
	}
	kids := pages["Kids"].(Array)
	page, err := r.GetDict(kids[0])
	if err != nil {
		t.Fatal(err)
	}
	if page["Parent"] != catalog["Pages"] {
		t.Errorf("wrong parent %v", page["Parent"])
	}

	contents, err := r.GetStream(page["Contents"])
	if err != nil {
		t.Fatal(err)
	}
	if _, isRef := contents.Dict["Length"].(Reference); !isRef {
		t.Errorf("expected indirect /Length, got %v", contents.Dict["Length"])
	}
	decoded, err := DecodeStream(contents)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Errorf("wrong stream contents %q", data)
	}
}

func TestWriterErrors(t *testing.T) {
	w, err := NewWriter(io.Discard, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := w.Write(Integer(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Put(ref, Integer(2)); err == nil {
		t.Error("object written twice")
	}

	stm, err := w.OpenStream(w.Alloc(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(Integer(3)); err == nil {
		t.Error("object written while stream open")
	}
	stm.Close()

	if err := w.Close(); err == nil {
		t.Error("missing error for catalog without /Pages")
	}

	if _, err := NewWriter(io.Discard, Version(99)); err == nil {
		t.Error("invalid version accepted")
	}
}

// buildObjStmFile creates a PDF file which uses an xref stream and an
// uncompressed object stream.
func buildObjStmFile(t *testing.T) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	offs := map[int]int{}
	buf.WriteString("%PDF-1.5\n")

	offs[1] = buf.Len()
	buf.WriteString("1 0 obj\n<</Type/Catalog/Pages 2 0 R>>\nendobj\n")
	offs[2] = buf.Len()
	buf.WriteString("2 0 obj\n<</Type/Pages/Kids[]/Count 0>>\nendobj\n")

	header := "4 0 5 8 "
	objects := "(hello) <</A 4 0 R>>"
	offs[3] = buf.Len()
	fmt.Fprintf(buf, "3 0 obj\n<</Type/ObjStm/N 2/First %d/Length %d>>\nstream\n%s%s\nendstream\nendobj\n",
		len(header), len(header)+len(objects), header, objects)

	offs[6] = buf.Len()
	xref := &bytes.Buffer{}
	entry := func(tp byte, a uint32, b uint16) {
		xref.WriteByte(tp)
		binary.Write(xref, binary.BigEndian, a)
		binary.Write(xref, binary.BigEndian, b)
	}
	entry(0, 0, 65535)
	entry(1, uint32(offs[1]), 0)
	entry(1, uint32(offs[2]), 0)
	entry(1, uint32(offs[3]), 0)
	entry(2, 3, 0)
	entry(2, 3, 1)
	entry(1, uint32(offs[6]), 0)
	fmt.Fprintf(buf, "6 0 obj\n<</Type/XRef/Size 7/W[1 4 2]/Root 1 0 R/Length %d>>\nstream\n",
		xref.Len())
	buf.Write(xref.Bytes())
	fmt.Fprintf(buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", offs[6])

	return buf.Bytes()
}

func TestObjectStream(t *testing.T) {
	data := buildObjStmFile(t)
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != V1_5 {
		t.Errorf("wrong version %s", r.Version)
	}

	obj, err := r.Resolve(NewReference(4, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(obj, Object(String("hello"))); d != "" {
		t.Errorf("object 4 (-got +want):\n%s", d)
	}

	obj, err = r.Resolve(NewReference(5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(obj, Object(Dict{"A": NewReference(4, 0)})); d != "" {
		t.Errorf("object 5 (-got +want):\n%s", d)
	}

	// free and missing objects resolve to null
	for _, n := range []uint32{0, 100} {
		obj, err = r.Resolve(NewReference(n, 0))
		if err != nil || obj != nil {
			t.Errorf("object %d: got %v, %v", n, obj, err)
		}
	}
}

func TestIncrementalUpdate(t *testing.T) {
	out := &bytes.Buffer{}
	w, err := NewWriter(out, V1_4)
	if err != nil {
		t.Fatal(err)
	}
	w.Info = &Info{Producer: "old"}
	pagesRef, err := w.Write(Dict{"Type": Name("Pages"), "Kids": Array{}, "Count": Integer(0)})
	if err != nil {
		t.Fatal(err)
	}
	w.Catalog["Pages"] = pagesRef
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	// objects: 1 = pages, 2 = catalog, 3 = info
	prev := bytes.LastIndex(out.Bytes(), []byte("\nxref\n")) + 1
	pos := out.Len()
	fmt.Fprintf(out, "3 0 obj\n<</Producer (new)>>\nendobj\n")
	xrefPos := out.Len()
	fmt.Fprintf(out, "xref\n3 1\n%010d 00000 n\r\ntrailer\n<</Size 4/Root 2 0 R/Info 3 0 R/Prev %d>>\nstartxref\n%d\n%%%%EOF\n",
		pos, prev, xrefPos)

	data := out.Bytes()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	info, err := r.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Producer != "new" {
		t.Errorf("got producer %q, want \"new\"", info.Producer)
	}
	catalog, err := r.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if catalog["Pages"] != pagesRef {
		t.Errorf("wrong pages reference %v", catalog["Pages"])
	}
}

func TestEncryptedRejected(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj\n<</Type/Catalog>>\nendobj\n")
	xrefPos := len(data)
	data = fmt.Appendf(data, "xref\n0 2\n0000000000 65535 f\r\n0000000009 00000 n\r\ntrailer\n<</Size 2/Root 1 0 R/Encrypt <</Filter/Standard>>>>\nstartxref\n%d\n%%%%EOF\n", xrefPos)

	_, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrEncrypted) {
		t.Errorf("got %v, want ErrEncrypted", err)
	}
}

func TestMalformed(t *testing.T) {
	cases := []string{
		"",
		"hello world",
		"%PDF-1.7\nno xref here",
		"%PDF-1.7\nstartxref\n999999\n%%EOF",
	}
	for _, in := range cases {
		_, err := NewReader(bytes.NewReader([]byte(in)), int64(len(in)))
		if err == nil {
			t.Errorf("%q: missing error", in)
		}
	}
}
