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


package annot

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Size is the extent of a page in page-intrinsic units.
type Size struct {
	Width, Height float64
}

// Box is an axis-aligned rectangle with non-negative width and height.
type Box struct {
	X, Y, Width, Height float64
}

// Normalize converts a signed box into the region it covers.
// The operation is idempotent.
func Normalize(x, y, width, height float64) Box {
	if width < 0 {
		x += width
		width = -width
	}
	if height < 0 {
		y += height
		height = -height
	}
	return Box{X: x, Y: y, Width: width, Height: height}
}

// Contains reports whether p lies inside b, or on its boundary.
func (b Box) Contains(p vec.Vec2) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Grow returns b enlarged by d on every side.
func (b Box) Grow(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, Width: b.Width + 2*d, Height: b.Height + 2*d}
}

// Corner returns the position of the given corner of b.
func (b Box) Corner(h Handle) vec.Vec2 {
	p := vec.Vec2{X: b.X, Y: b.Y}
	if h.east() {
		p.X += b.Width
	}
	if h.south() {
		p.Y += b.Height
	}
	return p
}

// ToScreen converts a point from page-intrinsic units to screen pixels.
func ToScreen(p vec.Vec2, sx, sy float64) vec.Vec2 {
	return vec.Vec2{X: p.X * sx, Y: p.Y * sy}
}

// ToPage converts a point from screen pixels to page-intrinsic units.
func ToPage(p vec.Vec2, sx, sy float64) vec.Vec2 {
	return vec.Vec2{X: p.X / sx, Y: p.Y / sy}
}

// ScaleFor returns the scale factors which map page-intrinsic units onto
// an unrotated raster of the given pixel size.
func ScaleFor(intrinsic Size, pixelWidth, pixelHeight int) (sx, sy float64) {
	if intrinsic.Width <= 0 || intrinsic.Height <= 0 {
		return 1, 1
	}
	return float64(pixelWidth) / intrinsic.Width, float64(pixelHeight) / intrinsic.Height
}

// View describes how a page is shown on screen.
//
// Page-intrinsic coordinates are first scaled by ScaleX and ScaleY, then
// the result is turned clockwise by Rotation degrees, which must be a
// multiple of 90.  For Rotation == 0 the view reduces to [ToScreen] and
// [ToPage].
type View struct {
	Intrinsic      Size
	ScaleX, ScaleY float64
	Rotation       int
}

// NewView returns the view which maps a page of the given intrinsic size
// onto a raster of pixelWidth x pixelHeight pixels, after the page has been
// turned by rotation degrees.
func NewView(intrinsic Size, pixelWidth, pixelHeight, rotation int) View {
	rotation = NormalizeRotation(rotation)
	if rotation == 90 || rotation == 270 {
		pixelWidth, pixelHeight = pixelHeight, pixelWidth
	}
	sx, sy := ScaleFor(intrinsic, pixelWidth, pixelHeight)
	return View{Intrinsic: intrinsic, ScaleX: sx, ScaleY: sy, Rotation: rotation}
}

// ScreenSize returns the size of the rotated page in screen pixels.
func (v View) ScreenSize() (width, height float64) {
	w := v.Intrinsic.Width * v.ScaleX
	h := v.Intrinsic.Height * v.ScaleY
	if v.Rotation == 90 || v.Rotation == 270 {
		return h, w
	}
	return w, h
}

// ToScreen converts a point from page-intrinsic units to screen pixels.
func (v View) ToScreen(p vec.Vec2) vec.Vec2 {
	q := ToScreen(p, v.ScaleX, v.ScaleY)
	w := v.Intrinsic.Width * v.ScaleX
	h := v.Intrinsic.Height * v.ScaleY
	switch NormalizeRotation(v.Rotation) {
	case 90:
		return vec.Vec2{X: h - q.Y, Y: q.X}
	case 180:
		return vec.Vec2{X: w - q.X, Y: h - q.Y}
	case 270:
		return vec.Vec2{X: q.Y, Y: w - q.X}
	default:
		return q
	}
}

// ToPage converts a point from screen pixels to page-intrinsic units.
// This is the inverse of [View.ToScreen].
func (v View) ToPage(p vec.Vec2) vec.Vec2 {
	w := v.Intrinsic.Width * v.ScaleX
	h := v.Intrinsic.Height * v.ScaleY
	var q vec.Vec2
	switch NormalizeRotation(v.Rotation) {
	case 90:
		q = vec.Vec2{X: p.Y, Y: h - p.X}
	case 180:
		q = vec.Vec2{X: w - p.X, Y: h - p.Y}
	case 270:
		q = vec.Vec2{X: w - p.Y, Y: p.X}
	default:
		q = p
	}
	return ToPage(q, v.ScaleX, v.ScaleY)
}

// PixelsPerUnit returns the smaller of the two scale factors.  This is used
// to convert screen distances, like the size of a resize handle, into
// page-intrinsic units.
func (v View) PixelsPerUnit() float64 {
	return math.Min(v.ScaleX, v.ScaleY)
}

// NormalizeRotation maps an angle in degrees to the range [0, 360).
// The result is rounded down to a multiple of 90.
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg / 90 * 90
}
