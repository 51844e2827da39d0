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


package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
	"seehuhn.de/go/pdf/reader"
	"seehuhn.de/go/sfnt"
)

type pathOp int

const (
	opMoveTo pathOp = iota
	opLineTo
	opCurveTo
	opClose
)

type pathSeg struct {
	op   pathOp
	args []float64
}

// renderer paints the content of one page.
// All coordinates passed to the rasterizer are device pixels: the device
// matrix is installed as the initial CTM.
type renderer struct {
	r     *reader.Reader
	img   *image.RGBA
	ras   *vector.Rasterizer
	fonts map[font.Instance]*sfnt.Font
	path  []pathSeg
}

func newRenderer(r pdf.Getter, width, height int) *renderer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	rend := &renderer{
		r:     reader.New(r, nil),
		img:   img,
		ras:   vector.NewRasterizer(width, height),
		fonts: make(map[font.Instance]*sfnt.Font),
	}
	rend.r.PathMoveTo = rend.pathMoveTo
	rend.r.PathLineTo = rend.pathLineTo
	rend.r.PathCurveTo = rend.pathCurveTo
	rend.r.PathRectangle = rend.pathRectangle
	rend.r.PathClose = rend.pathClose
	rend.r.PathPaint = rend.pathPaint
	rend.r.DrawXObject = rend.drawXObject
	rend.r.Character = rend.character
	return rend
}

func (rend *renderer) parsePage(pageDict pdf.Dict, dev matrix.Matrix) error {
	rend.r.Reset()
	return rend.r.ParsePage(pageDict, dev)
}

func (rend *renderer) pathMoveTo(x, y float64) error {
	rend.path = append(rend.path, pathSeg{opMoveTo, []float64{x, y}})
	return nil
}

func (rend *renderer) pathLineTo(x, y float64) error {
	rend.path = append(rend.path, pathSeg{opLineTo, []float64{x, y}})
	return nil
}

func (rend *renderer) pathCurveTo(x1, y1, x2, y2, x3, y3 float64) error {
	rend.path = append(rend.path, pathSeg{opCurveTo, []float64{x1, y1, x2, y2, x3, y3}})
	return nil
}

func (rend *renderer) pathRectangle(x, y, w, h float64) error {
	rend.pathMoveTo(x, y)
	rend.pathLineTo(x+w, y)
	rend.pathLineTo(x+w, y+h)
	rend.pathLineTo(x, y+h)
	return rend.pathClose()
}

func (rend *renderer) pathClose() error {
	rend.path = append(rend.path, pathSeg{op: opClose})
	return nil
}

func (rend *renderer) pathPaint(op string) error {
	switch op {
	case "f", "F", "f*":
		rend.fill()
	case "S":
		rend.stroke()
	case "s":
		rend.pathClose()
		rend.stroke()
	case "B", "B*":
		rend.fill()
		rend.stroke()
	case "b", "b*":
		rend.pathClose()
		rend.fill()
		rend.stroke()
	}
	rend.path = rend.path[:0]
	return nil
}

// device maps a point from user space to device pixels.
func (rend *renderer) device(x, y float64) (float32, float32) {
	m := rend.r.CTM
	return float32(m[0]*x + m[2]*y + m[4]), float32(m[1]*x + m[3]*y + m[5])
}

// fill paints the current path with the non-zero winding rule.
// The rasterizer has no even-odd mode, so "f*" paths are filled the same
// way.
func (rend *renderer) fill() {
	bounds := rend.img.Bounds()
	rend.ras.Reset(bounds.Dx(), bounds.Dy())
	open := false
	for _, seg := range rend.path {
		switch seg.op {
		case opMoveTo:
			if open {
				rend.ras.ClosePath()
			}
			x, y := rend.device(seg.args[0], seg.args[1])
			rend.ras.MoveTo(x, y)
			open = true
		case opLineTo:
			x, y := rend.device(seg.args[0], seg.args[1])
			rend.ras.LineTo(x, y)
		case opCurveTo:
			x1, y1 := rend.device(seg.args[0], seg.args[1])
			x2, y2 := rend.device(seg.args[2], seg.args[3])
			x3, y3 := rend.device(seg.args[4], seg.args[5])
			rend.ras.CubeTo(x1, y1, x2, y2, x3, y3)
		case opClose:
			rend.ras.ClosePath()
			open = false
		}
	}
	if open {
		rend.ras.ClosePath()
	}
	col := toGoColor(rend.r.FillColor)
	rend.ras.Draw(rend.img, bounds, image.NewUniform(col), image.Point{})
}

// stroke paints the outline of the current path.  Every segment is drawn
// as a quadrilateral of the current line width, curves are flattened
// first.  Line joins and dash patterns are ignored.
func (rend *renderer) stroke() {
	bounds := rend.img.Bounds()
	rend.ras.Reset(bounds.Dx(), bounds.Dy())

	lw := rend.r.LineWidth
	m := rend.r.CTM
	hw := lw * math.Sqrt(math.Abs(m[0]*m[3]-m[1]*m[2])) / 2
	hw = max(hw, 0.5)

	var startX, startY, curX, curY float32
	seg := func(x, y float32) {
		quad(rend.ras, curX, curY, x, y, float32(hw))
		curX, curY = x, y
	}
	for _, s := range rend.path {
		switch s.op {
		case opMoveTo:
			curX, curY = rend.device(s.args[0], s.args[1])
			startX, startY = curX, curY
		case opLineTo:
			seg(rend.device(s.args[0], s.args[1]))
		case opCurveTo:
			x0, y0 := curX, curY
			x1, y1 := rend.device(s.args[0], s.args[1])
			x2, y2 := rend.device(s.args[2], s.args[3])
			x3, y3 := rend.device(s.args[4], s.args[5])
			const n = 16
			for i := 1; i <= n; i++ {
				t := float32(i) / n
				u := 1 - t
				x := u*u*u*x0 + 3*u*u*t*x1 + 3*u*t*t*x2 + t*t*t*x3
				y := u*u*u*y0 + 3*u*u*t*y1 + 3*u*t*t*y2 + t*t*t*y3
				seg(x, y)
			}
		case opClose:
			seg(startX, startY)
		}
	}

	col := toGoColor(rend.r.StrokeColor)
	rend.ras.Draw(rend.img, bounds, image.NewUniform(col), image.Point{})
}

// quad adds the rectangle of half-width hw around the segment from
// (x0, y0) to (x1, y1) to the rasterizer.
func quad(ras *vector.Rasterizer, x0, y0, x1, y1, hw float32) {
	vx, vy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(vx), float64(vy)))
	if l == 0 {
		return
	}
	nx, ny := -vy/l*hw, vx/l*hw
	ras.MoveTo(x0+nx, y0+ny)
	ras.LineTo(x1+nx, y1+ny)
	ras.LineTo(x1-nx, y1-ny)
	ras.LineTo(x0-nx, y0-ny)
	ras.ClosePath()
}

func toGoColor(c pdfcolor.Color) color.Color {
	if c == nil {
		return color.Black
	}

	vals, _, _ := pdfcolor.Operator(c)
	switch c.ColorSpace().Family() {
	case pdfcolor.FamilyDeviceGray, pdfcolor.FamilyCalGray:
		if len(vals) >= 1 {
			return color.Gray{Y: unit(vals[0])}
		}
	case pdfcolor.FamilyDeviceRGB, pdfcolor.FamilyCalRGB:
		if len(vals) >= 3 {
			return color.RGBA{R: unit(vals[0]), G: unit(vals[1]), B: unit(vals[2]), A: 255}
		}
	case pdfcolor.FamilyDeviceCMYK:
		if len(vals) >= 4 {
			return color.CMYK{C: unit(vals[0]), M: unit(vals[1]), Y: unit(vals[2]), K: unit(vals[3])}
		}
	}
	return color.Black
}

func unit(x float64) uint8 {
	return uint8(math.Round(max(0, min(1, x)) * 255))
}
