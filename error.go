// seehuhn.de/go/pdfedit - an editor for PDF pages and annotations
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


package pdfedit

import (
	"errors"
	"fmt"
)

var (
	// ErrSelection indicates that an operation which requires exactly one
	// selected page was invoked with zero or several pages selected.
	ErrSelection = errors.New("exactly one page must be selected")

	// ErrNotConfirmed is returned by destructive bulk operations which were
	// not explicitly confirmed.
	ErrNotConfirmed = errors.New("operation not confirmed")

	// ErrUnknownPage is returned when a page ID is not part of the collection.
	ErrUnknownPage = errors.New("unknown page")

	// ErrUnknownSource is returned when a page refers to a source document
	// which is not registered.
	ErrUnknownSource = errors.New("unknown source document")

	// ErrNoSession is returned when an editor operation is requested while no
	// page is open for editing.
	ErrNoSession = errors.New("no page is open for editing")
)

// IngestionError indicates that an input file is unsupported or corrupt.
// The file is skipped, the rest of the batch is processed.
type IngestionError struct {
	File string
	Err  error
}

func (err *IngestionError) Error() string {
	return fmt.Sprintf("%s: cannot ingest: %v", err.File, err.Err)
}

func (err *IngestionError) Unwrap() error {
	return err.Err
}

// ConversionError indicates that a raster image could not be embedded into
// a PDF document.
type ConversionError struct {
	File string
	Err  error
}

func (err *ConversionError) Error() string {
	return fmt.Sprintf("%s: cannot convert image to PDF: %v", err.File, err.Err)
}

func (err *ConversionError) Unwrap() error {
	return err.Err
}

// RenderError indicates that a page could not be rasterized.
type RenderError struct {
	Page int // 0-based index of the page inside its source document
	Err  error
}

func (err *RenderError) Error() string {
	return fmt.Sprintf("page %d: cannot render: %v", err.Page+1, err.Err)
}

func (err *RenderError) Unwrap() error {
	return err.Err
}

// ExportError indicates that the output document could not be produced.
// No partial output is returned together with an ExportError.
type ExportError struct {
	Err error
}

func (err *ExportError) Error() string {
	return "export failed: " + err.Err.Error()
}

func (err *ExportError) Unwrap() error {
	return err.Err
}

// ClipboardError indicates that the clipboard raster of a page could not be
// generated.
type ClipboardError struct {
	Err error
}

func (err *ClipboardError) Error() string {
	return "copy to clipboard failed: " + err.Err.Error()
}

func (err *ClipboardError) Unwrap() error {
	return err.Err
}

// A Notice reports a non-fatal failure for one item of a batch operation.
type Notice struct {
	// Item names the file or page the notice refers to.
	Item string

	Err error
}

func (n Notice) String() string {
	return n.Item + ": " + n.Err.Error()
}
