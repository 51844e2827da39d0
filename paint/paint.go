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


// Package paint draws annotations onto raster images.
//
// The same functions are used for every target: the editor overlay, the
// page thumbnails, the clipboard image and the flattened layer of exported
// pages.  Geometry is converted from page-intrinsic units by independent
// horizontal and vertical scale factors.
package paint

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdfedit/annot"
)

// Annotations draws all annotations in list onto dst, in order.
// Page-intrinsic coordinates are multiplied by sx and sy to obtain pixel
// coordinates in dst.
func Annotations(dst draw.Image, list []annot.Annotation, sx, sy float64) {
	p := newPainter(dst, sx, sy)
	for i := range list {
		p.annotation(&list[i])
	}
}

// Fit draws the annotations onto dst, choosing the scale factors such that
// a page of the given intrinsic size covers all of dst.
func Fit(dst draw.Image, list []annot.Annotation, intrinsic annot.Size) {
	b := dst.Bounds()
	sx, sy := annot.ScaleFor(intrinsic, b.Dx(), b.Dy())
	Annotations(dst, list, sx, sy)
}

// Overlay returns a transparent image of the scaled page size, with the
// annotations drawn onto it.
func Overlay(list []annot.Annotation, intrinsic annot.Size, sx, sy float64) *image.RGBA {
	w := max(1, int(math.Round(intrinsic.Width*sx)))
	h := max(1, int(math.Round(intrinsic.Height*sy)))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Annotations(img, list, sx, sy)
	return img
}

// Composite returns a copy of base with the annotations drawn on top.
// The base image must already show the page as described by v, that is
// scaled by v.ScaleX and v.ScaleY and turned by v.Rotation degrees.
func Composite(base image.Image, list []annot.Annotation, v annot.View) *image.RGBA {
	b := base.Bounds()
	res := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(res, res.Bounds(), base, b.Min, draw.Src)
	if len(list) == 0 {
		return res
	}

	if annot.NormalizeRotation(v.Rotation) == 0 {
		Annotations(res, list, v.ScaleX, v.ScaleY)
		return res
	}
	layer := Rotate(Overlay(list, v.Intrinsic, v.ScaleX, v.ScaleY), v.Rotation)
	draw.Draw(res, res.Bounds(), layer, image.Point{}, draw.Over)
	return res
}

// Rotate turns src clockwise by the given angle, which is rounded down to
// a multiple of 90 degrees.  The result always is a new image.
func Rotate(src image.Image, deg int) *image.RGBA {
	b := src.Bounds()
	W, H := b.Dx(), b.Dy()
	deg = annot.NormalizeRotation(deg)

	var res *image.RGBA
	if deg == 90 || deg == 270 {
		res = image.NewRGBA(image.Rect(0, 0, H, W))
	} else {
		res = image.NewRGBA(image.Rect(0, 0, W, H))
	}
	if deg == 0 {
		draw.Draw(res, res.Bounds(), src, b.Min, draw.Src)
		return res
	}

	for y := range H {
		for x := range W {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			switch deg {
			case 90:
				res.Set(H-1-y, x, c)
			case 180:
				res.Set(W-1-x, H-1-y, c)
			case 270:
				res.Set(y, W-1-x, c)
			}
		}
	}
	return res
}

type painter struct {
	dst    draw.Image
	sx, sy float64
	ras    *vector.Rasterizer
}

func newPainter(dst draw.Image, sx, sy float64) *painter {
	b := dst.Bounds()
	return &painter{
		dst: dst,
		sx:  sx,
		sy:  sy,
		ras: vector.NewRasterizer(b.Dx(), b.Dy()),
	}
}

func (p *painter) annotation(a *annot.Annotation) {
	switch a.Kind {
	case annot.Rect:
		p.rect(a)
	case annot.Highlight:
		p.highlight(a)
	case annot.Arrow:
		p.arrow(a)
	case annot.Text:
		p.text(a)
	case annot.Image:
		p.image(a)
	}
}

// strokeWidth returns the line width in pixels.
func (p *painter) strokeWidth() float64 {
	return annot.StrokeWidth * max(p.sx, p.sy)
}

// pt converts a point to pixel coordinates relative to the top-left
// corner of dst.  This is the coordinate system of the rasterizer.
func (p *painter) pt(v vec.Vec2) (float32, float32) {
	return float32(v.X * p.sx), float32(v.Y * p.sy)
}

// screenBox returns the normalized box of a in pixel coordinates.
func (p *painter) screenBox(a *annot.Annotation) (x0, y0, x1, y1 float32) {
	box := a.Box()
	x0, y0 = p.pt(vec.Vec2{X: box.X, Y: box.Y})
	x1, y1 = p.pt(vec.Vec2{X: box.X + box.Width, Y: box.Y + box.Height})
	return x0, y0, x1, y1
}

func (p *painter) reset() {
	b := p.dst.Bounds()
	p.ras.Reset(b.Dx(), b.Dy())
}

func (p *painter) draw(src image.Image) {
	b := p.dst.Bounds()
	p.ras.Draw(p.dst, b, src, image.Point{})
}

// rect strokes the outline of the normalized box.  The line is centred
// on the box edges.
func (p *painter) rect(a *annot.Annotation) {
	x0, y0, x1, y1 := p.screenBox(a)
	hw := float32(p.strokeWidth() / 2)

	p.reset()
	ring(p.ras, x0-hw, y0-hw, x1+hw, y1+hw, x0+hw, y0+hw, x1-hw, y1-hw)
	p.draw(image.NewUniform(a.Color.NRGBA(1)))
}

// ring adds the region between an outer and an inner rectangle.  If the
// inner rectangle is empty, the outer rectangle is filled completely.
func ring(ras *vector.Rasterizer, ox0, oy0, ox1, oy1, ix0, iy0, ix1, iy1 float32) {
	ras.MoveTo(ox0, oy0)
	ras.LineTo(ox1, oy0)
	ras.LineTo(ox1, oy1)
	ras.LineTo(ox0, oy1)
	ras.ClosePath()
	if ix1 <= ix0 || iy1 <= iy0 {
		return
	}
	ras.MoveTo(ix0, iy0)
	ras.LineTo(ix0, iy1)
	ras.LineTo(ix1, iy1)
	ras.LineTo(ix1, iy0)
	ras.ClosePath()
}

// highlight fills the normalized box with a translucent color.
func (p *painter) highlight(a *annot.Annotation) {
	x0, y0, x1, y1 := p.screenBox(a)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	p.reset()
	p.ras.MoveTo(x0, y0)
	p.ras.LineTo(x1, y0)
	p.ras.LineTo(x1, y1)
	p.ras.LineTo(x0, y1)
	p.ras.ClosePath()
	p.draw(image.NewUniform(a.Color.NRGBA(annot.HighlightAlpha)))
}

// arrow draws the shaft from (X, Y) to (X+Width, Y+Height), followed by a
// filled triangular head at the end point.
func (p *painter) arrow(a *annot.Annotation) {
	tip, left, right, ok := a.ArrowHead()
	if !ok {
		return
	}
	tx, ty := p.pt(tip)
	lx, ly := p.pt(left)
	rx, ry := p.pt(right)

	// The shaft ends at the base of the head, so that the line cap does not
	// poke through the tip.
	bx, by := (lx+rx)/2, (ly+ry)/2
	sx, sy := p.pt(vec.Vec2{X: a.X, Y: a.Y})
	hw := float32(p.strokeWidth() / 2)

	col := image.NewUniform(a.Color.NRGBA(1))

	p.reset()
	addSegment(p.ras, sx, sy, bx, by, hw)
	p.draw(col)

	p.reset()
	p.ras.MoveTo(tx, ty)
	p.ras.LineTo(lx, ly)
	p.ras.LineTo(rx, ry)
	p.ras.ClosePath()
	p.draw(col)
}

// addSegment adds a rectangle of half-width hw around the line segment
// from (x0, y0) to (x1, y1).
func addSegment(ras *vector.Rasterizer, x0, y0, x1, y1, hw float32) {
	vx, vy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(vx), float64(vy)))
	if l == 0 {
		return
	}
	nx, ny := -vy/l*hw, vx/l*hw
	ras.MoveTo(x0+nx, y0+ny)
	ras.LineTo(x0-nx, y0-ny)
	ras.LineTo(x1-nx, y1-ny)
	ras.LineTo(x1+nx, y1+ny)
	ras.ClosePath()
}
