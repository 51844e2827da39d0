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


// Package testpdf generates small PDF documents in memory, for use in
// tests.
package testpdf

import (
	"bytes"
	"io"
	"testing"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdfedit/internal/pdfout"
)

// Page describes one page of a generated document.
type Page struct {
	// Width and Height give the size of the media box in PDF points.
	// If zero, US Letter size is used.
	Width, Height float64

	// Rotate is stored in the /Rotate entry of the page dictionary.
	Rotate int

	// Content is the page content stream.
	Content string

	// Resources, if set, is used as the resource dictionary of the page.
	Resources pdf.Dict
}

// Write writes a PDF document containing the given pages to w.
func Write(w io.Writer, pages ...Page) error {
	doc, err := pdfout.New(w, nil)
	if err != nil {
		return err
	}

	for _, p := range pages {
		width, height := p.Width, p.Height
		if width == 0 || height == 0 {
			width, height = 612, 792
		}

		contentRef, err := pdfout.WriteContent(doc.Out, []byte(p.Content))
		if err != nil {
			return err
		}

		res := p.Resources
		if res == nil {
			res = pdf.Dict{}
		}
		dict := pdf.Dict{
			"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Number(width), pdf.Number(height)},
			"Resources": res,
			"Contents":  contentRef,
		}
		if p.Rotate != 0 {
			dict["Rotate"] = pdf.Integer(p.Rotate)
		}
		err = doc.AppendPage(dict)
		if err != nil {
			return err
		}
	}

	return doc.Close()
}

// Make returns the bytes of a PDF document containing the given pages.
// Errors are reported via t.Fatal.
func Make(t testing.TB, pages ...Page) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	err := Write(buf, pages...)
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Open parses a document previously generated by [Make].
func Open(t testing.TB, data []byte) *pdf.Reader {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}
