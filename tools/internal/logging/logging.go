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

// Package logging sets up structured logging for the command line tools,
// and reports the progress of document operations to the log.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"seehuhn.de/go/pdfgrid/layout"
)

// New returns a logger which writes to w.  Text output is used for
// terminals, JSON lines otherwise.  If verbose is set, debug messages are
// included.
func New(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if isTerminal(w) {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Observer logs the progress of document generation.
// It can be used as a pdfgrid.Observer and as a layout.Observer.
type Observer struct {
	Log logrus.FieldLogger
}

// Step logs the completion of a processing step.
func (o *Observer) Step(msg string, elapsed time.Duration) {
	o.Log.WithField("elapsed", elapsed.Round(time.Millisecond).String()).Info(msg)
}

// RowsGenerated logs the number of data rows generated so far.
func (o *Observer) RowsGenerated(n int, elapsed time.Duration) {
	o.Log.WithFields(logrus.Fields{
		"rows":    n,
		"elapsed": elapsed.Round(time.Millisecond).String(),
	}).Info("rows generated")
}

// FragmentDone logs every completed page at debug level.
func (o *Observer) FragmentDone(frag *layout.Fragment) {
	o.Log.WithFields(logrus.Fields{
		"page":      frag.Index + 1,
		"rows":      frag.End - frag.Start,
		"remaining": frag.Remaining,
	}).Debug("page laid out")
}

// RowOverflow logs a row which is too tall for a page.
func (o *Observer) RowOverflow(index int, height, avail float64) {
	o.Log.WithFields(logrus.Fields{
		"row":       index,
		"height":    height,
		"available": avail,
	}).Warn("row does not fit on a page and will be truncated")
}
