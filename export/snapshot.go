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


package export

import (
	"bytes"
	"image"
	"image/png"

	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/pages"
	"seehuhn.de/go/pdfedit/paint"
)

// Snapshot renders the single selected page of c, with its annotations,
// and returns the image as PNG data.  The scale is given in pixels per PDF
// point.
//
// If not exactly one page is selected, the error wraps
// [pdfedit.ErrSelection].  All errors are of type [pdfedit.ClipboardError].
func Snapshot(c *pages.Collection, scale float64) ([]byte, error) {
	p, err := c.SingleSelected()
	if err != nil {
		return nil, &pdfedit.ClipboardError{Err: err}
	}
	img, err := Flatten(p, c, scale)
	if err != nil {
		return nil, &pdfedit.ClipboardError{Err: err}
	}

	buf := &bytes.Buffer{}
	err = png.Encode(buf, img)
	if err != nil {
		return nil, &pdfedit.ClipboardError{Err: err}
	}
	return buf.Bytes(), nil
}

// Flatten renders a page as it is shown to the user: turned by its
// rotation, with the annotations drawn on top.
func Flatten(p *pages.Page, c *pages.Collection, scale float64) (*image.RGBA, error) {
	src, err := c.Source(p.SourceID)
	if err != nil {
		return nil, err
	}
	base, err := ingest.RenderHighRes(p, src, scale)
	if err != nil {
		return nil, err
	}
	b := base.Bounds()
	v := annot.NewView(p.Intrinsic(), b.Dx(), b.Dy(), p.TotalRotation())
	return paint.Composite(base, p.Annotations, v), nil
}
