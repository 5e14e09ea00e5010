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
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfgrid/document"
	"seehuhn.de/go/pdfgrid/font"
	"seehuhn.de/go/pdfgrid/grid"
	"seehuhn.de/go/pdfgrid/layout"
	"seehuhn.de/go/pdfgrid/metadata"
	"seehuhn.de/go/pdfgrid/pdf"
	"seehuhn.de/go/pdfgrid/table"
)

// DefaultOutputName is the file name used by [GenerateTabularDocument]
// if no output path is given.
const DefaultOutputName = "GeneratedGridPdf.pdf"

const (
	tableTitle = "Table of Items"
	footerText = "Generic Footer Text"
)

// ItemColumns are the column headings of the generated item table.
var ItemColumns = []string{
	"Manufacturer / Importer",
	"Type",
	"Attribute 1",
	"Model",
	"Attribute 2",
	"Attribute 3",
	"Attribute 4",
}

// ItemRow returns the values of the synthetic item with index i.
func ItemRow(i int) []string {
	return []string{
		fmt.Sprintf("Manufacturer / Importer%d dsflkjasdkfajsdkfjasdkfjaksdjfaksdjfaskdjfadskjf", i),
		fmt.Sprintf("Type%d", i),
		fmt.Sprintf("Attribute1_%d", i),
		fmt.Sprintf("Model%d", i),
		fmt.Sprintf("Attribute2_%d", i),
		fmt.Sprintf("Attribute3_%d", i),
		fmt.Sprintf("Attribute4_%d", i),
	}
}

// ItemGeometry is the page layout of the generated document: A4 paper,
// with a 50pt footer at the bottom of the page.
var ItemGeometry = layout.Geometry{
	PageSize:       document.A4,
	Margins:        layout.Margins{Top: 40, Left: 40, Bottom: 0, Right: 40},
	TemplateBottom: 50,
}

// ItemGrid returns the table of rowCount synthetic items.  Rows are
// generated on demand.  If obs is non-nil, it is notified after every
// ProgressInterval rows.
func ItemGrid(rowCount int, obs Observer) *grid.Grid {
	title := &grid.Row{
		Cells: []grid.Cell{{Value: tableTitle, ColumnSpan: len(ItemColumns)}},
		Style: &grid.Style{
			Font:   font.Helvetica,
			Size:   14,
			Align:  grid.AlignCenter,
			VAlign: grid.VAlignMiddle,
		},
	}
	header := grid.NewRow(&grid.Style{Font: font.HelveticaBold, Size: 10}, ItemColumns...)

	if obs == nil {
		obs = nopObserver{}
	}
	start := time.Now()
	rows := grid.Generate(rowCount, func(i int) (*grid.Row, error) {
		if (i+1)%ProgressInterval == 0 {
			obs.RowsGenerated(i+1, time.Since(start))
		}
		return grid.NewRow(nil, ItemRow(i)...), nil
	})

	return &grid.Grid{
		Columns:      grid.Columns(len(ItemColumns)),
		Header:       []*grid.Row{title, header},
		Rows:         rows,
		RepeatHeader: true,
		Style: grid.Style{
			Font:    font.Helvetica,
			Size:    10,
			Padding: grid.UniformPadding(2),
		},
		BorderWidth: 0.5,
	}
}

// GenerateTabularDocument writes a PDF file containing a table with
// rowCount synthetic items.  The table header is repeated on every page,
// and every page has a footer.  If outputPath is empty,
// [DefaultOutputName] in the current directory is used.
//
// The function returns the absolute path of the output file.  The file
// is replaced atomically: if an error occurs, no partial output file is
// left behind.
func GenerateTabularDocument(rowCount int, outputPath string, opt *Options) (string, error) {
	if rowCount < 0 {
		return "", fmt.Errorf("invalid row count %d", rowCount)
	}
	if outputPath == "" {
		outputPath = DefaultOutputName
	}
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", err
	}

	obs := opt.observer()
	sw := newStopwatch(obs)
	var layoutObs layout.Observer
	if lo, ok := obs.(layout.Observer); ok {
		layoutObs = lo
	}

	err = writeFileAtomic(outputPath, func(w io.Writer) error {
		doc, err := document.WriteMultiPage(w, ItemGeometry.PageSize, pdf.V1_7)
		if err != nil {
			return err
		}
		now := time.Now()
		doc.Info.Title = tableTitle
		doc.Info.Producer = opt.producer()
		doc.Info.CreationDate = now
		doc.Metadata, err = itemMetadata(opt.producer())
		if err != nil {
			return err
		}

		g := ItemGrid(rowCount, obs)
		sw.step("created headers")

		geom := ItemGeometry
		numPages, err := table.Write(doc, g, &geom, grid.FontMeasurer{}, &table.Options{
			Template: &table.Template{
				Bottom: table.StaticText(footerText, font.HelveticaBold, 9, grid.AlignCenter),
			},
			Observer: layoutObs,
		})
		if err != nil {
			return err
		}
		sw.step(fmt.Sprintf("drew %d rows on %d pages", rowCount, numPages))

		err = doc.Close()
		if err != nil {
			return err
		}
		sw.step("closed document")
		return nil
	})
	if err != nil {
		return "", err
	}
	sw.step("saved " + outputPath)
	return outputPath, nil
}

func itemMetadata(producer string) (*xmp.Packet, error) {
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.Und, tableTitle)
	ns := &metadata.PDF{Producer: xmp.NewText(producer)}

	packet := xmp.NewPacket()
	err := packet.Set(dc, ns)
	if err != nil {
		return nil, err
	}
	return packet, nil
}
