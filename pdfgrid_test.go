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

package pdfgrid

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfgrid/layout"
	"seehuhn.de/go/pdfgrid/metadata"
	"seehuhn.de/go/pdfgrid/pdf"
)

type recorder struct {
	steps     []string
	rows      []int
	fragments int
	overflows int
}

func (r *recorder) Step(msg string, _ time.Duration) { r.steps = append(r.steps, msg) }

func (r *recorder) RowsGenerated(n int, _ time.Duration) { r.rows = append(r.rows, n) }

func (r *recorder) FragmentDone(*layout.Fragment) { r.fragments++ }

func (r *recorder) RowOverflow(int, float64, float64) { r.overflows++ }

func openPDF(t *testing.T, name string) *pdf.Reader {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func pageCount(t *testing.T, r *pdf.Reader) int {
	t.Helper()
	catalog, err := r.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	pages, err := r.GetDict(catalog["Pages"])
	if err != nil {
		t.Fatal(err)
	}
	count, ok := pages["Count"].(pdf.Integer)
	if !ok {
		t.Fatalf("invalid page count %v", pages["Count"])
	}
	return int(count)
}

func TestGenerateTabularDocument(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	name, err := GenerateTabularDocument(2000, filepath.Join(dir, "items.pdf"),
		&Options{Observer: rec})
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(name) {
		t.Errorf("path %q is not absolute", name)
	}

	if d := cmp.Diff(rec.rows, []int{1000, 2000}); d != "" {
		t.Errorf("progress reports (-got +want):\n%s", d)
	}
	if len(rec.steps) == 0 {
		t.Error("no steps reported")
	}
	if rec.overflows != 0 {
		t.Errorf("%d rows overflowed", rec.overflows)
	}

	r := openPDF(t, name)
	n := pageCount(t, r)
	if n < 2 || n != rec.fragments {
		t.Errorf("got %d pages, %d fragments", n, rec.fragments)
	}

	info, err := r.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Producer != DefaultProducer || info.Title != "Table of Items" {
		t.Errorf("wrong document info %#v", info)
	}

	doc, err := metadata.Load(bytes.NewReader(mustRead(t, name)), fileSize(t, name))
	if err != nil {
		t.Fatal(err)
	}
	infoProducer, xmpProducer, err := doc.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if infoProducer != DefaultProducer || xmpProducer != DefaultProducer {
		t.Errorf("got producers %q, %q", infoProducer, xmpProducer)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected files left in output directory: %v", entries)
	}
}

func TestGenerateEmpty(t *testing.T) {
	name, err := GenerateTabularDocument(0, filepath.Join(t.TempDir(), "empty.pdf"), nil)
	if err != nil {
		t.Fatal(err)
	}
	r := openPDF(t, name)
	if n := pageCount(t, r); n != 1 {
		t.Errorf("got %d pages, want 1 header-only page", n)
	}

	_, err = GenerateTabularDocument(-1, filepath.Join(t.TempDir(), "bad.pdf"), nil)
	if err == nil {
		t.Error("negative row count accepted")
	}
}

func TestItemRow(t *testing.T) {
	row := ItemRow(17)
	if len(row) != len(ItemColumns) {
		t.Fatalf("got %d values, want %d", len(row), len(ItemColumns))
	}
	if !strings.HasPrefix(row[0], "Manufacturer / Importer17 ") {
		t.Errorf("wrong first column %q", row[0])
	}
	if row[6] != "Attribute4_17" {
		t.Errorf("wrong last column %q", row[6])
	}
}

func TestProducerOutputPath(t *testing.T) {
	cases := []struct{ in, out string }{
		{"report.pdf", "report_fbproducer.pdf"},
		{"/tmp/a/report.pdf", "/tmp/a/report_fbproducer.pdf"},
		{"dir/file.v2.PDF", "dir/file.v2_fbproducer.PDF"},
		{"noext", "noext_fbproducer"},
	}
	for _, c := range cases {
		got := ProducerOutputPath(c.in)
		if got != filepath.FromSlash(c.out) {
			t.Errorf("%q: got %q, want %q", c.in, got, c.out)
		}
	}
}

func TestRewriteProducer(t *testing.T) {
	dir := t.TempDir()
	in, err := GenerateTabularDocument(30, filepath.Join(dir, "in.pdf"), &Options{Producer: "old"})
	if err != nil {
		t.Fatal(err)
	}

	err = RewriteProducer(in, "", "new producer", nil)
	if err != nil {
		t.Fatal(err)
	}
	out := ProducerOutputPath(in)

	doc, err := metadata.Load(bytes.NewReader(mustRead(t, out)), fileSize(t, out))
	if err != nil {
		t.Fatal(err)
	}
	infoProducer, xmpProducer, err := doc.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if infoProducer != "new producer" || xmpProducer != "new producer" {
		t.Errorf("got producers %q, %q", infoProducer, xmpProducer)
	}
	if a, b := pageCount(t, openPDF(t, in)), pageCount(t, openPDF(t, out)); a != b {
		t.Errorf("page count changed from %d to %d", a, b)
	}

	// an empty producer selects the default
	out2 := filepath.Join(dir, "default.pdf")
	err = RewriteProducer(in, out2, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	doc, err = metadata.Load(bytes.NewReader(mustRead(t, out2)), fileSize(t, out2))
	if err != nil {
		t.Fatal(err)
	}
	infoProducer, xmpProducer, err = doc.Producer()
	if err != nil {
		t.Fatal(err)
	}
	if infoProducer != DefaultProducer || xmpProducer != DefaultProducer {
		t.Errorf("got producers %q, %q", infoProducer, xmpProducer)
	}
}

func TestRewriteProducerErrors(t *testing.T) {
	dir := t.TempDir()
	err := RewriteProducer(filepath.Join(dir, "missing.pdf"), "", "x", nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.pdf")
	err = os.WriteFile(bad, []byte("not a PDF file"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = RewriteProducer(bad, "", "x", nil)
	if err == nil {
		t.Error("invalid file accepted")
	}
	if _, err := os.Stat(ProducerOutputPath(bad)); !errors.Is(err, os.ErrNotExist) {
		t.Error("output written for invalid input")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.txt")
	err := os.WriteFile(name, []byte("old"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	errTest := errors.New("test error")
	err = writeFileAtomic(name, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return errTest
	})
	if !errors.Is(err, errTest) {
		t.Errorf("got %v, want %v", err, errTest)
	}
	if data := mustRead(t, name); string(data) != "old" {
		t.Errorf("file modified after failure: %q", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %v", entries)
	}

	err = writeFileAtomic(name, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if data := mustRead(t, name); string(data) != "new" {
		t.Errorf("got %q, want \"new\"", data)
	}
}

func mustRead(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func fileSize(t *testing.T, name string) int64 {
	t.Helper()
	fi, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	return fi.Size()
}
