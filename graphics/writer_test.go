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

package graphics

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/pdf"
)

func TestContentStream(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)

	fontRef := pdf.NewReference(7, 0)
	formRef := pdf.NewReference(9, 0)

	w.PushGraphicsState()
	w.SetLineWidth(0.5)
	w.SetLineWidth(0.5) // no-op
	w.SetStrokeGray(0.25)
	w.Rectangle(10, 20, 100.123456, 50)
	w.Stroke()
	w.PopGraphicsState()

	w.Rectangle(0, 0, 10, 5)
	w.Stroke()

	w.TextStart()
	w.TextSetFont(font.Helvetica, fontRef, 10)
	w.TextSetFont(font.Helvetica, fontRef, 10) // no-op
	w.TextFirstLine(12, 34.5)
	w.TextShow("Hello (World)")
	w.TextEnd()

	w.DrawXObject(formRef)

	err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	want := `q
0.5 w
0.25 G
10 20 100.1235 50 re
S
Q
0 0 10 5 re
S
BT
/F1 10 Tf
12 34.5 Td
(Hello (World)) Tj
ET
/X1 Do
`
	if d := cmp.Diff(buf.String(), want); d != "" {
		t.Errorf("wrong content stream (-got +want):\n%s", d)
	}

	wantRes := pdf.Dict{
		"Font":    pdf.Dict{"F1": fontRef},
		"XObject": pdf.Dict{"X1": formRef},
	}
	if d := cmp.Diff(w.Resources, wantRes); d != "" {
		t.Errorf("wrong resources (-got +want):\n%s", d)
	}
}

func TestResourceNames(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	a := w.resourceName(catFont, pdf.NewReference(1, 0))
	b := w.resourceName(catFont, pdf.NewReference(2, 0))
	c := w.resourceName(catFont, pdf.NewReference(1, 0))
	if a == b || a != c {
		t.Errorf("wrong names %q %q %q", a, b, c)
	}
}

func TestStickyErrors(t *testing.T) {
	cases := []struct {
		name string
		ops  func(w *Writer)
	}{
		{"Stroke without path", func(w *Writer) { w.Stroke() }},
		{"unbalanced Q", func(w *Writer) { w.PopGraphicsState() }},
		{"text without font", func(w *Writer) {
			w.TextStart()
			w.TextShow("x")
			w.TextEnd()
		}},
		{"unclosed text", func(w *Writer) { w.TextStart() }},
		{"unclosed q", func(w *Writer) { w.PushGraphicsState() }},
		{"open path", func(w *Writer) { w.Rectangle(0, 0, 1, 1) }},
		{"invalid gray", func(w *Writer) { w.SetStrokeGray(2) }},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			w := NewWriter(buf)
			test.ops(w)
			if err := w.Finish(); err == nil {
				t.Error("missing error")
			}
		})
	}
}

func TestClip(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	w.PushGraphicsState()
	w.Rectangle(0, 0, 10, 10)
	w.ClipNonZero()
	w.EndPath()
	w.SetStrokeGray(0.5)
	w.Rectangle(0, 0, 20, 20)
	w.Stroke()
	w.PopGraphicsState()
	if err := w.Finish(); err != nil {
		t.Fatal(err)
	}
	want := "q\n0 0 10 10 re\nW\nn\n0.5 G\n0 0 20 20 re\nS\nQ\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormat(t *testing.T) {
	cases := map[float64]string{
		0:            "0",
		-0.00001:     "0",
		1:            "1",
		-2.5:         "-2.5",
		841.88999999: "841.89",
	}
	for x, want := range cases {
		if got := format(x); got != want {
			t.Errorf("format(%g) = %q, want %q", x, got, want)
		}
	}
}
