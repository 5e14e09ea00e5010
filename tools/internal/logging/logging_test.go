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

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfgrid/layout"
)

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var res []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		err := json.Unmarshal([]byte(line), &rec)
		if err != nil {
			t.Fatalf("%q: %v", line, err)
		}
		delete(rec, "time")
		res = append(res, rec)
	}
	return res
}

func TestObserver(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := &Observer{Log: New(buf, false)}

	obs.RowsGenerated(1000, 1500*time.Millisecond)
	obs.FragmentDone(&layout.Fragment{Index: 0, Start: 0, End: 20})
	obs.RowOverflow(7, 900, 700)
	obs.Step("done", 2*time.Second)

	want := []map[string]any{
		{"level": "info", "msg": "rows generated", "rows": 1000.0, "elapsed": "1.5s"},
		{"level": "warning", "msg": "row does not fit on a page and will be truncated",
			"row": 7.0, "height": 900.0, "available": 700.0},
		{"level": "info", "msg": "done", "elapsed": "2s"},
	}
	if d := cmp.Diff(records(t, buf), want); d != "" {
		t.Errorf("log records (-got +want):\n%s", d)
	}
}

func TestVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := &Observer{Log: New(buf, true)}
	obs.FragmentDone(&layout.Fragment{Index: 2, Start: 40, End: 60, Remaining: 12.5})

	want := []map[string]any{
		{"level": "debug", "msg": "page laid out", "page": 3.0, "rows": 20.0, "remaining": 12.5},
	}
	if d := cmp.Diff(records(t, buf), want); d != "" {
		t.Errorf("log records (-got +want):\n%s", d)
	}
}
