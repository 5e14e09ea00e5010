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

// Pdf-grid writes a PDF file containing a large table of synthetic items.
//
// The table header is repeated on every page, and every page carries a
// footer.  Rows are laid out one page at a time, so that very large
// tables can be written with little memory.
package main

import (
	"flag"
	"fmt"
	"os"

	"seehuhn.de/go/pdfgrid"
	"seehuhn.de/go/pdfgrid/tools/internal/buildinfo"
	"seehuhn.de/go/pdfgrid/tools/internal/logging"
	"seehuhn.de/go/pdfgrid/tools/internal/profile"
)

func main() {
	rows := flag.Int("n", 50000, "number of table rows")
	out := flag.String("o", pdfgrid.DefaultOutputName, "output file name")
	producer := flag.String("producer", pdfgrid.DefaultProducer, "producer recorded in the document metadata")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	verbose := flag.Bool("v", false, "log every page")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short("pdf-grid"))
		return
	}
	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "error: unexpected arguments")
		flag.Usage()
		os.Exit(1)
	}

	log := logging.New(os.Stderr, *verbose)
	stop, err := profile.Start(*cpuprofile, *memprofile, log)
	if err != nil {
		log.Fatal(err)
	}

	name, err := pdfgrid.GenerateTabularDocument(*rows, *out, &pdfgrid.Options{
		Producer: *producer,
		Observer: &logging.Observer{Log: log},
	})
	stop()
	if err != nil {
		log.WithError(err).Error("cannot generate document")
		os.Exit(1)
	}
	fmt.Println(name)
}
