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
	"strconv"
	"time"
)

// Version represents a version of PDF standard.
type Version int

// PDF versions supported by this library.
const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

// ParseVersion parses a PDF version string like "1.7".
func ParseVersion(verString string) (Version, error) {
	switch verString {
	case "1.0":
		return V1_0, nil
	case "1.1":
		return V1_1, nil
	case "1.2":
		return V1_2, nil
	case "1.3":
		return V1_3, nil
	case "1.4":
		return V1_4, nil
	case "1.5":
		return V1_5, nil
	case "1.6":
		return V1_6, nil
	case "1.7":
		return V1_7, nil
	case "2.0":
		return V2_0, nil
	}
	return 0, errVersion
}

// ToString returns the string representation of ver, e.g. "1.7".
func (ver Version) ToString() (string, error) {
	if ver >= V1_0 && ver <= V1_7 {
		return "1." + string([]byte{byte(ver - V1_0 + '0')}), nil
	}
	if ver == V2_0 {
		return "2.0", nil
	}
	return "", errVersion
}

func (ver Version) String() string {
	s, err := ver.ToString()
	if err != nil {
		s = "pdf.Version(" + strconv.Itoa(int(ver)) + ")"
	}
	return s
}

// Info represents a PDF Document Information Dictionary.
// All fields in this structure are optional.
//
// The Document Information Dictionary is documented in section
// 14.3.3 of PDF 32000-1:2008.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Creator gives the name of the application that created the original
	// document, if the document was converted to PDF from another format.
	Creator string

	// Producer gives the name of the application that converted the document
	// to PDF.
	Producer string

	CreationDate time.Time
	ModDate      time.Time

	// Custom contains all other entries of the dictionary, unchanged.
	Custom Dict
}

var infoText = []Name{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"}

func (info *Info) textField(key Name) *string {
	switch key {
	case "Title":
		return &info.Title
	case "Author":
		return &info.Author
	case "Subject":
		return &info.Subject
	case "Keywords":
		return &info.Keywords
	case "Creator":
		return &info.Creator
	case "Producer":
		return &info.Producer
	}
	return nil
}

// AsDict converts the Info structure into a PDF dictionary.
func (info *Info) AsDict() Dict {
	dict := Dict{}
	for key, val := range info.Custom {
		dict[key] = val
	}
	for _, key := range infoText {
		if s := *info.textField(key); s != "" {
			dict[key] = TextString(s)
		}
	}
	if !info.CreationDate.IsZero() {
		dict["CreationDate"] = Date(info.CreationDate)
	}
	if !info.ModDate.IsZero() {
		dict["ModDate"] = Date(info.ModDate)
	}
	return dict
}

// DecodeInfo converts a Document Information Dictionary into an Info
// structure.  Dates are kept verbatim in Custom, all entries which are
// not text strings with a known key are kept in Custom as well.
func DecodeInfo(dict Dict) *Info {
	info := &Info{Custom: Dict{}}
	for key, val := range dict {
		p := info.textField(key)
		s, isString := val.(String)
		if p != nil && isString {
			*p = s.AsTextString()
			continue
		}
		info.Custom[key] = val
	}
	return info
}
