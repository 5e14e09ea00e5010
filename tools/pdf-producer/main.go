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

// Pdf-producer sets the producer of a PDF file.
//
// The producer is changed in both the document information dictionary
// and the XMP metadata stream.  The result is written to a new file; by
// default "_fbproducer" is appended to the input file name.
package main

import (
	"flag"
	"fmt"
	"os"

	"seehuhn.de/go/pdfgrid"
	"seehuhn.de/go/pdfgrid/tools/internal/buildinfo"
	"seehuhn.de/go/pdfgrid/tools/internal/logging"
)

func main() {
	out := flag.String("o", "", "output file name (default <name>_fbproducer.pdf)")
	producer := flag.String("producer", pdfgrid.DefaultProducer, "new producer")
	verbose := flag.Bool("v", false, "verbose output")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short("pdf-producer"))
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: exactly one input file needed")
		flag.Usage()
		os.Exit(1)
	}
	in := flag.Arg(0)
	if *out == "" {
		*out = pdfgrid.ProducerOutputPath(in)
	}

	log := logging.New(os.Stderr, *verbose)
	err := pdfgrid.RewriteProducer(in, *out, *producer, &pdfgrid.Options{
		Observer: &logging.Observer{Log: log},
	})
	if err != nil {
		log.WithError(err).Error("cannot rewrite producer")
		os.Exit(1)
	}
	fmt.Println(*out)
}
