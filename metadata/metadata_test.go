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
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfgrid/pdf"
)

// writeTestFile creates a one-page PDF file.  If packet is non-nil, it is
// included as the XMP metadata stream.
func writeTestFile(t *testing.T, info *pdf.Info, packet *xmp.Packet) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, pdf.V1_7)
	if err != nil {
		t.Fatal(err)
	}
	w.Info = info

	pagesRef := w.Alloc()
	pageRef, err := w.Write(pdf.Dict{
		"Type":     pdf.Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(100), pdf.Integer(100)},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{pageRef},
		"Count": pdf.Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	w.Catalog["Pages"] = pagesRef

	// an unreachable object, which should be dropped on rewrite
	_, err = w.Write(pdf.String("garbage"))
	if err != nil {
		t.Fatal(err)
	}

	if packet != nil {
		ref, err := (&Stream{Data: packet}).Embed(w)
		if err != nil {
			t.Fatal(err)
		}
		w.Catalog["Metadata"] = ref
	}

	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func load(t *testing.T, data []byte) *Document {
	t.Helper()
	doc, err := Load(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestRoundTrip(t *testing.T) {
	packet := xmp.NewPacket()
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.Und, "Test Document")
	dc.Creator.Append(xmp.NewProperName("Test Author"))
	err := packet.Set(dc)
	if err != nil {
		t.Fatalf("failed to set properties: %v", err)
	}
	original := &Stream{Data: packet}

	out := &bytes.Buffer{}
	w, err := pdf.NewWriter(out, pdf.V2_0)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := original.Embed(w)
	if err != nil {
		t.Fatalf("failed to embed metadata: %v", err)
	}
	pagesRef, err := w.Write(pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{}, "Count": pdf.Integer(0)})
	if err != nil {
		t.Fatal(err)
	}
	w.Catalog["Pages"] = pagesRef
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatal(err)
	}
	extracted, err := Extract(r, ref)
	if err != nil {
		t.Fatalf("failed to extract metadata: %v", err)
	}

	var originalDC, extractedDC xmp.DublinCore
	original.Data.Get(&originalDC)
	extracted.Data.Get(&extractedDC)
	if diff := cmp.Diff(extractedDC, originalDC); diff != "" {
		t.Errorf("round trip failed (-got +want):\n%s", diff)
	}
}

func TestEmbedOldVersion(t *testing.T) {
	w, err := pdf.NewWriter(&bytes.Buffer{}, pdf.V1_3)
	if err != nil {
		t.Fatal(err)
	}
	_, err = (&Stream{Data: xmp.NewPacket()}).Embed(w)
	if err == nil {
		t.Error("XMP metadata accepted for PDF 1.3")
	}
}

func TestSetProducer(t *testing.T) {
	packet := xmp.NewPacket()
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.Und, "Inventory")
	ns := &PDF{Producer: xmp.NewText("FastBound - Firearms Compliance Software")}
	err := packet.Set(dc, ns)
	if err != nil {
		t.Fatal(err)
	}
	info := &pdf.Info{
		Title:    "Inventory",
		Producer: "FastBound - Firearms Compliance Software",
		Custom:   pdf.Dict{"Department": pdf.String("Receiving")},
	}
	data := writeTestFile(t, info, packet)

	doc := load(t, data)
	gotInfo, gotXMP, err := doc.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if gotInfo != info.Producer || gotXMP != info.Producer {
		t.Errorf("initial producer: got %q / %q", gotInfo, gotXMP)
	}

	const producer = "Acme Ledger 2.1"
	err = doc.SetProducer(producer)
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	n, err := doc.WriteTo(out)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(out.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d bytes", n, out.Len())
	}
	if bytes.Contains(out.Bytes(), []byte("garbage")) {
		t.Error("unreachable object was copied")
	}

	doc2 := load(t, out.Bytes())
	gotInfo, gotXMP, err = doc2.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if gotInfo != producer || gotXMP != producer {
		t.Errorf("rewritten producer: got %q / %q, want %q", gotInfo, gotXMP, producer)
	}

	// other metadata is preserved
	if doc2.info.Title != "Inventory" {
		t.Errorf("title lost: %q", doc2.info.Title)
	}
	if d := cmp.Diff(doc2.info.Custom["Department"], pdf.Object(pdf.String("Receiving"))); d != "" {
		t.Errorf("custom info entry (-got +want):\n%s", d)
	}
	var dc2 xmp.DublinCore
	doc2.meta.Data.Get(&dc2)
	if d := cmp.Diff(dc2, *dc); d != "" {
		t.Errorf("Dublin Core metadata changed (-got +want):\n%s", d)
	}

	r, err := pdf.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := r.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	pages, err := r.GetDict(catalog["Pages"])
	if err != nil {
		t.Fatal(err)
	}
	if pages["Count"] != pdf.Integer(1) {
		t.Errorf("page tree not copied: %v", pages)
	}
}

// A file without XMP metadata gets a new metadata stream.
func TestMissingXMP(t *testing.T) {
	data := writeTestFile(t, &pdf.Info{Producer: "old"}, nil)
	doc := load(t, data)

	_, gotXMP, err := doc.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if gotXMP != "" {
		t.Errorf("unexpected XMP producer %q", gotXMP)
	}

	err = doc.SetProducer("new")
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	_, err = doc.WriteTo(out)
	if err != nil {
		t.Fatal(err)
	}

	doc2 := load(t, out.Bytes())
	gotInfo, gotXMP, err := doc2.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if gotInfo != "new" || gotXMP != "new" {
		t.Errorf("got %q / %q", gotInfo, gotXMP)
	}
}

// A file without an information dictionary gets a new one.
func TestMissingInfo(t *testing.T) {
	data := writeTestFile(t, nil, nil)
	doc := load(t, data)
	err := doc.SetProducer("Ünïcödé producer")
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	_, err = doc.WriteTo(out)
	if err != nil {
		t.Fatal(err)
	}
	gotInfo, gotXMP, err := load(t, out.Bytes()).Producer()
	if err != nil {
		t.Fatal(err)
	}
	if gotInfo != "Ünïcödé producer" || gotXMP != "Ünïcödé producer" {
		t.Errorf("got %q / %q", gotInfo, gotXMP)
	}
}

func TestIndirectProducer(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.4\n")
	var offs []int
	for _, obj := range []string{
		"<</Type/Catalog/Pages 2 0 R>>",
		"<</Type/Pages/Kids[]/Count 0>>",
		"(indirect producer)",
		"<</Producer 3 0 R>>",
	} {
		offs = append(offs, buf.Len())
		fmt.Fprintf(buf, "%d 0 obj\n%s\nendobj\n", len(offs), obj)
	}
	xrefPos := buf.Len()
	buf.WriteString("xref\n0 5\n0000000000 65535 f\r\n")
	for _, o := range offs {
		fmt.Fprintf(buf, "%010d 00000 n\r\n", o)
	}
	fmt.Fprintf(buf, "trailer\n<</Size 5/Root 1 0 R/Info 4 0 R>>\nstartxref\n%d\n%%%%EOF\n", xrefPos)

	doc := load(t, buf.Bytes())
	gotInfo, _, err := doc.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if gotInfo != "indirect producer" {
		t.Errorf("got %q", gotInfo)
	}
}

func TestNotLoaded(t *testing.T) {
	var doc Document
	if err := doc.SetProducer("x"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("SetProducer: got %v", err)
	}
	if _, _, err := doc.Producer(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Producer: got %v", err)
	}
	if _, err := doc.WriteTo(&bytes.Buffer{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("WriteTo: got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not a PDF file")), 14)
	var perr *pdf.MalformedFileError
	if !errors.As(err, &perr) {
		t.Errorf("got %v, want MalformedFileError", err)
	}
}
