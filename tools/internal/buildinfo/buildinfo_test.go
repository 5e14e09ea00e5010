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

package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestDescribe(t *testing.T) {
	const path = "seehuhn.de/go/pdfgrid"
	cases := []struct {
		version  string
		settings []debug.BuildSetting
		want     string
	}{
		{"v0.1.0", nil, "pdf-grid (seehuhn.de/go/pdfgrid v0.1.0)"},
		{"(devel)", nil, "pdf-grid"},
		{"", []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
		}, "pdf-grid (seehuhn.de/go/pdfgrid 01234567)"},
		{"(devel)", []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc"},
			{Key: "vcs.modified", Value: "true"},
		}, "pdf-grid (seehuhn.de/go/pdfgrid abc+dirty)"},
	}
	for _, c := range cases {
		info := &debug.BuildInfo{
			Main:     debug.Module{Path: path, Version: c.version},
			Settings: c.settings,
		}
		got := describe("pdf-grid", info)
		if got != c.want {
			t.Errorf("%q: got %q, want %q", c.version, got, c.want)
		}
	}
}
