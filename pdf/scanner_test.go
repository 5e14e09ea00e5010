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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRefill(t *testing.T) {
	n := scannerBufSize + 2
	buf := make([]byte, n)
	s := newScanner(bytes.NewReader(buf), nil)

	for _, inc := range []int{0, 1, scannerBufSize, 1} {
		s.pos += inc
		err := s.refill()
		total := int(s.total) + s.pos
		expectUsed := min(scannerBufSize, n-total)
		if err != nil || s.pos != 0 || s.used != expectUsed {
			t.Errorf("%d: s.pos = %d, s.used = %d, err = %v",
				total, s.pos, s.used, err)
		}
	}
}

func TestReadObject(t *testing.T) {
	cases := []struct {
		in  string
		val Object
		ok  bool
	}{
		{"null", nil, true},
		{"true", Bool(true), true},
		{"false", Bool(false), true},
		{"TRUE", nil, false},

		{"0", Integer(0), true},
		{"+12", Integer(12), true},
		{"-4567", Integer(-4567), true},
		{".5", Real(.5), true},
		{"-0.5", Real(-.5), true},
		{"3.", Real(3), true},

		{"(hello)", String("hello"), true},
		{"(a(b)c)", String("a(b)c"), true},
		{`(a\)b)`, String("a)b"), true},
		{`(\101\102)`, String("AB"), true},
		{`(\7x)`, String("\007x"), true},
		{"(line\\\nbreak)", String("linebreak"), true},
		{"(cr\r\nlf)", String("cr\nlf"), true},
		{"<48656C6C6F>", String("Hello"), true},
		{"<48 65 6c>", String("Hel"), true},
		{"<486>", String("H`"), true},

		{"/Type", Name("Type"), true},
		{"/A#20B", Name("A B"), true},
		{"/", Name(""), true},

		{"[1 2 R 3]", Array{NewReference(1, 2), Integer(3)}, true},
		{"[/a [true] null]", Array{Name("a"), Array{Bool(true)}, nil}, true},
		{"[]", Array(nil), true},
		{"<</A 1 0 R/B 2>>", Dict{"A": NewReference(1, 0), "B": Integer(2)}, true},
		{"<< /A << /B (x) >> >>", Dict{"A": Dict{"B": String("x")}}, true},
		{"<</A null>>", Dict{}, true},
		{"<</A 1", nil, false},
	}
	for _, test := range cases {
		s := newScanner(strings.NewReader(test.in), nil)
		val, err := s.ReadObject()
		if (err == nil) != test.ok {
			t.Errorf("%q: unexpected error status %v", test.in, err)
			continue
		}
		if !test.ok {
			continue
		}
		if d := cmp.Diff(val, test.val); d != "" {
			t.Errorf("%q: wrong value (-got +want):\n%s", test.in, d)
		}
	}
}

func TestReadIndirectObject(t *testing.T) {
	in := "  12 0 obj\n<</Type/Page>>\nendobj\n"
	s := newScanner(strings.NewReader(in), nil)
	ref, obj, err := s.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if ref != NewReference(12, 0) {
		t.Errorf("wrong reference %s", ref)
	}
	if d := cmp.Diff(obj, Object(Dict{"Type": Name("Page")})); d != "" {
		t.Errorf("wrong object (-got +want):\n%s", d)
	}

	in = "7 1 obj 3 0 R endobj"
	s = newScanner(strings.NewReader(in), nil)
	_, obj, err = s.ReadIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj != NewReference(3, 0) {
		t.Errorf("wrong object %v", obj)
	}
}

func TestStreamNotAllowed(t *testing.T) {
	in := "<</Length 3>>\nstream\nabc\nendstream"
	s := newScanner(strings.NewReader(in), nil)
	_, err := s.ReadObject()
	if err == nil {
		t.Error("stream accepted without backing file")
	}
}

func TestSkipWhiteSpace(t *testing.T) {
	s := newScanner(strings.NewReader(" % comment\n\t 42"), nil)
	err := s.SkipWhiteSpace()
	if err != nil {
		t.Fatal(err)
	}
	x, err := s.ReadInteger()
	if err != nil {
		t.Fatal(err)
	}
	if x != 42 {
		t.Errorf("got %d, want 42", x)
	}

	// white space at end of input is fine
	err = s.SkipWhiteSpace()
	if err != nil {
		t.Error(err)
	}
}
