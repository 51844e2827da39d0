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


// Package pdfedit holds the types shared by the packages of the PDF page
// editor.
//
// The editor ingests PDF files and raster images (package ingest), keeps the
// resulting pages in an ordered collection (package pages), lets the user draw
// annotations on a high-resolution render of a page (package editor), and
// composites everything into a single output PDF (package export).
// Annotation geometry is stored in page-intrinsic units (package annot) and
// all raster targets are painted by the same renderer (package paint), so that
// what the user sees in the editor, in the page grid, and in the exported file
// agrees.
//
// Batch operations are best-effort: a failure for one file or one page is
// reported as a [Notice] and does not abort its siblings.  Failures of a
// whole operation are reported using the error types defined in this
// package.
package pdfedit
