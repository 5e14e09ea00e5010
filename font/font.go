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

// Package font provides the standard PDF fonts used for table text.
//
// Fonts are not embedded.  Text is encoded using WinAnsiEncoding, so
// that only characters from the Windows-1252 character set can be
// shown; all other characters are replaced by a question mark.
package font

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/pdfgrid/pdf"
)

// Font is one of the standard 14 PDF fonts, used with WinAnsiEncoding.
type Font struct {
	// Name is the PostScript name of the font.
	Name pdf.Name

	// Ascent and Descent are given in units of 1/1000 em.
	// Descent is negative.
	Ascent, Descent float64

	widths *[256]uint16
}

// The fonts available for table text.
var (
	Helvetica = &Font{
		Name:    "Helvetica",
		Ascent:  718,
		Descent: -207,
		widths:  &helveticaWidths,
	}
	HelveticaBold = &Font{
		Name:    "Helvetica-Bold",
		Ascent:  718,
		Descent: -207,
		widths:  &helveticaBoldWidths,
	}
)

// Dict returns the font dictionary for use in a PDF file.
func (f *Font) Dict() pdf.Dict {
	return pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": f.Name,
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
}

// Encode converts s to the character codes used in PDF content streams.
func (f *Font) Encode(s string) pdf.String {
	res := make(pdf.String, 0, len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		res = append(res, c)
	}
	return res
}

// Width returns the width of s when set at the given font size.
func (f *Font) Width(s string, size float64) float64 {
	var w uint
	for _, c := range f.Encode(s) {
		w += uint(f.widths[c])
	}
	return float64(w) * size / 1000
}

// LineHeight returns the distance between baselines of consecutive lines,
// at the given font size.
func (f *Font) LineHeight(size float64) float64 {
	return (f.Ascent - f.Descent) * size / 1000
}

// Wrap breaks s into lines which fit into the given width.
//
// Lines are broken at spaces.  Words which are wider than the available
// width are broken between characters, but every line contains at least
// one character.  Newline characters in s force a line break.  If width
// is not positive, only forced line breaks are applied.
func (f *Font) Wrap(s string, size, width float64) []string {
	var lines []string
	for para := range strings.SplitSeq(s, "\n") {
		lines = f.wrapParagraph(lines, para, size, width)
	}
	return lines
}

func (f *Font) wrapParagraph(lines []string, para string, size, width float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return append(lines, "")
	}
	if width <= 0 {
		return append(lines, strings.Join(words, " "))
	}

	line := ""
	for _, word := range words {
		if line != "" {
			candidate := line + " " + word
			if f.Width(candidate, size) <= width {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = ""
		}

		for f.Width(word, size) > width && utf8.RuneCountInString(word) > 1 {
			k := f.fitPrefix(word, size, width)
			lines = append(lines, word[:k])
			word = word[k:]
		}
		line = word
	}
	return append(lines, line)
}

// fitPrefix returns the length in bytes of the longest prefix of s which
// fits into width.  At least one rune is always included.
func (f *Font) fitPrefix(s string, size, width float64) int {
	var w uint
	k := 0
	for k < len(s) {
		r, n := utf8.DecodeRuneInString(s[k:])
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		w += uint(f.widths[c])
		if float64(w)*size/1000 > width && k > 0 {
			break
		}
		k += n
	}
	return k
}
