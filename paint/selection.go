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


package paint

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdfedit/annot"
)

// HandleRadius is the radius of the resize handles, in screen pixels.
const HandleRadius = 8

var (
	selectionColor = color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
	handleFill     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Selection marks the box b, given in page-intrinsic units, on an image
// showing the page as described by v.  If withHandles is set, the four
// resize handles are drawn at the corners.
func Selection(dst draw.Image, b annot.Box, v annot.View, withHandles bool) {
	p0 := v.ToScreen(vec.Vec2{X: b.X, Y: b.Y})
	p1 := v.ToScreen(vec.Vec2{X: b.X + b.Width, Y: b.Y + b.Height})
	sb := annot.Normalize(p0.X, p0.Y, p1.X-p0.X, p1.Y-p0.Y)

	x0 := float32(sb.X)
	y0 := float32(sb.Y)
	x1 := x0 + float32(sb.Width)
	y1 := y0 + float32(sb.Height)

	bounds := dst.Bounds()
	ras := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	ring(ras, x0-2, y0-2, x1+2, y1+2, x0-1, y0-1, x1+1, y1+1)
	ras.Draw(dst, bounds, image.NewUniform(selectionColor), image.Point{})

	if !withHandles {
		return
	}
	for _, h := range annot.Handles {
		c := v.ToScreen(b.Corner(h))
		cx, cy := float32(c.X), float32(c.Y)
		const r = HandleRadius / 2
		ras.Reset(bounds.Dx(), bounds.Dy())
		ring(ras, cx-r, cy-r, cx+r, cy+r, 0, 0, 0, 0)
		ras.Draw(dst, bounds, image.NewUniform(selectionColor), image.Point{})
		ras.Reset(bounds.Dx(), bounds.Dy())
		ring(ras, cx-r+1.5, cy-r+1.5, cx+r-1.5, cy+r-1.5, 0, 0, 0, 0)
		ras.Draw(dst, bounds, image.NewUniform(handleFill), image.Point{})
	}
}
