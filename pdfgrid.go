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

// Package pdfgrid generates large paginated tables as PDF files and
// rewrites the producer metadata of existing PDF files.
//
// [GenerateTabularDocument] streams synthetic item rows through the
// layout and table packages, so that documents with tens of thousands of
// rows can be written with memory proportional to a single page.
// [RewriteProducer] loads a PDF file, sets the producer in both the
// document information dictionary and the XMP metadata, and writes the
// result to a new file.
package pdfgrid

import (
	"time"
)

// DefaultProducer is the producer string used when none is given.
const DefaultProducer = "FastBound - Firearms Compliance Software"

// Observer is notified about the progress of long-running operations.
//
// If an Observer also implements layout.Observer, it is notified about
// every page produced by the pagination engine.
type Observer interface {
	// Step is called when a step of an operation has completed.
	// The elapsed time is measured from the start of the operation.
	Step(msg string, elapsed time.Duration)

	// RowsGenerated is called after every [ProgressInterval] data rows.
	RowsGenerated(n int, elapsed time.Duration)
}

// ProgressInterval is the number of generated rows between calls to
// [Observer.RowsGenerated].
const ProgressInterval = 1000

// Options control the caller-facing operations.
// A nil *Options is valid and selects the defaults.
type Options struct {
	// Producer is recorded in the document metadata.  If this is empty,
	// DefaultProducer is used.
	Producer string

	Observer Observer
}

func (opt *Options) producer() string {
	if opt == nil || opt.Producer == "" {
		return DefaultProducer
	}
	return opt.Producer
}

func (opt *Options) observer() Observer {
	if opt == nil || opt.Observer == nil {
		return nopObserver{}
	}
	return opt.Observer
}

type nopObserver struct{}

func (nopObserver) Step(string, time.Duration) {}

func (nopObserver) RowsGenerated(int, time.Duration) {}

// stopwatch reports elapsed times to an observer.
type stopwatch struct {
	start time.Time
	obs   Observer
}

func newStopwatch(obs Observer) *stopwatch {
	return &stopwatch{start: time.Now(), obs: obs}
}

func (s *stopwatch) step(msg string) {
	s.obs.Step(msg, time.Since(s.start))
}
