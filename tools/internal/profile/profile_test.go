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

package profile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMemProfile(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	name := filepath.Join(t.TempDir(), "mem.prof")
	stop, err := Start("", name, log)
	if err != nil {
		t.Fatal(err)
	}
	stop()

	fi, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("empty memory profile")
	}
}

func TestNoProfile(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	stop, err := Start("", "", log)
	if err != nil {
		t.Fatal(err)
	}
	stop()
}
