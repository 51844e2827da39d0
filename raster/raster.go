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


// Package raster renders PDF pages to bitmap images.
//
// The renderer interprets the page content stream using the callbacks of
// [reader.Reader] and paints paths, glyph outlines and image XObjects with
// the anti-aliasing rasterizer from golang.org/x/image/vector.  Clipping
// paths, shadings and transparency groups are not supported.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Open parses a PDF document held in memory.
// The reader keeps a reference to data, so callers which share the buffer
// must pass a copy.
func Open(data []byte, opt *pdf.ReaderOptions) (*pdf.Reader, error) {
	return pdf.NewReader(bytes.NewReader(data), opt)
}

// NumPages returns the number of pages in the document.
func NumPages(r pdf.Getter) (int, error) {
	return pagetree.NumPages(r)
}

// PageInfo describes the geometry of a page.
type PageInfo struct {
	// Dict is the page dictionary, with inherited attributes filled in.
	Dict pdf.Dict

	// MediaBox is the visible area of the page, in PDF points.
	MediaBox pdf.Rectangle

	// Rotate is the rotation specified in the page dictionary,
	// normalized to one of 0, 90, 180 or 270.
	Rotate int
}

// Size returns the width and height of the unrotated page in PDF points.
func (p *PageInfo) Size() (width, height float64) {
	return p.MediaBox.URx - p.MediaBox.LLx, p.MediaBox.URy - p.MediaBox.LLy
}

// GetPage returns information about the page with the given (0-based)
// index.
func GetPage(r pdf.Getter, pageIndex int) (*PageInfo, error) {
	_, dict, err := pagetree.GetPage(r, pageIndex)
	if err != nil {
		return nil, err
	}

	mbox, err := pdf.GetRectangle(r, dict["MediaBox"])
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageIndex+1, err)
	}
	if mbox == nil {
		// A4 is the default used by most PDF viewers.
		mbox = &pdf.Rectangle{URx: 595.276, URy: 841.89}
	}
	if mbox.URx < mbox.LLx {
		mbox.LLx, mbox.URx = mbox.URx, mbox.LLx
	}
	if mbox.URy < mbox.LLy {
		mbox.LLy, mbox.URy = mbox.URy, mbox.LLy
	}
	if mbox.URx-mbox.LLx <= 0 || mbox.URy-mbox.LLy <= 0 {
		return nil, fmt.Errorf("page %d: %w", pageIndex+1, errEmptyPage)
	}

	rot, err := pdf.Optional(pdf.GetInteger(r, dict["Rotate"]))
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageIndex+1, err)
	}

	info := &PageInfo{
		Dict:     dict,
		MediaBox: *mbox,
		Rotate:   normalizeRotation(int(rot)),
	}
	return info, nil
}

// Render rasterizes the page with the given (0-based) index.
//
// The scale gives the number of pixels per PDF point.  The page is turned
// clockwise by rotation degrees (a multiple of 90) in addition to any
// rotation specified in the page dictionary, if includePageRotation is set.
func Render(r pdf.Getter, pageIndex int, scale float64, rotation int, includePageRotation bool) (*image.RGBA, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("invalid scale %g", scale)
	}
	info, err := GetPage(r, pageIndex)
	if err != nil {
		return nil, err
	}
	if includePageRotation {
		rotation += info.Rotate
	}
	return RenderPage(r, info, scale, rotation)
}

// RenderPage rasterizes a page previously located with [GetPage].
func RenderPage(r pdf.Getter, info *PageInfo, scale float64, rotation int) (*image.RGBA, error) {
	rotation = normalizeRotation(rotation)
	dev := DeviceMatrix(&info.MediaBox, scale, rotation)

	w, h := info.Size()
	width := max(1, int(math.Ceil(w*scale-0.01)))
	height := max(1, int(math.Ceil(h*scale-0.01)))
	if rotation == 90 || rotation == 270 {
		width, height = height, width
	}

	rend := newRenderer(r, width, height)
	err := rend.parsePage(info.Dict, dev)
	if err != nil {
		return nil, err
	}
	return rend.img, nil
}

// DeviceMatrix returns the matrix which maps PDF default user space onto
// the pixels of a raster with origin at the top-left corner, after the page
// has been turned clockwise by rotation degrees.
func DeviceMatrix(mbox *pdf.Rectangle, scale float64, rotation int) matrix.Matrix {
	s := scale
	switch normalizeRotation(rotation) {
	case 90:
		return matrix.Matrix{0, s, s, 0, -mbox.LLy * s, -mbox.LLx * s}
	case 180:
		return matrix.Matrix{-s, 0, 0, s, mbox.URx * s, -mbox.LLy * s}
	case 270:
		return matrix.Matrix{0, -s, -s, 0, mbox.URy * s, mbox.URx * s}
	default:
		return matrix.Matrix{s, 0, 0, -s, -mbox.LLx * s, mbox.URy * s}
	}
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg / 90 * 90
}

var errEmptyPage = errors.New("empty media box")
