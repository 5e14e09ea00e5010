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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/pdfgrid/metadata"
)

// ProducerOutputPath returns the default output file name used by
// [RewriteProducer]: the suffix "_fbproducer" is inserted before the file
// name extension.
func ProducerOutputPath(inputPath string) string {
	dir, base := filepath.Split(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+"_fbproducer"+ext)
}

// RewriteProducer reads the PDF file inputPath, sets the producer in the
// document information dictionary and in the XMP metadata, and writes the
// result to outputPath.  If outputPath is empty, the name is derived
// from inputPath using [ProducerOutputPath].  If producer is empty, the
// producer from opt is used.
//
// The output file is replaced atomically: if an error occurs, no partial
// output file is left behind.
func RewriteProducer(inputPath, outputPath, producer string, opt *Options) error {
	if outputPath == "" {
		outputPath = ProducerOutputPath(inputPath)
	}
	if producer == "" {
		producer = opt.producer()
	}
	sw := newStopwatch(opt.observer())

	fd, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer fd.Close()
	fi, err := fd.Stat()
	if err != nil {
		return err
	}

	doc, err := metadata.Load(fd, fi.Size())
	if err != nil {
		return fmt.Errorf("loading %q: %w", inputPath, err)
	}
	sw.step("loaded " + inputPath)

	err = doc.SetProducer(producer)
	if err != nil {
		return err
	}
	sw.step("producer set")

	err = writeFileAtomic(outputPath, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
	if err != nil {
		return err
	}
	sw.step("wrote " + outputPath)
	return nil
}
