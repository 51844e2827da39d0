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
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Handle identifies one of the four resize handles of a box.
// The names refer to the corners of the normalized box as seen in the
// unrotated page.
type Handle int

// These are the four resize handles.
const (
	NW Handle = iota
	NE
	SW
	SE
)

// Handles lists all resize handles.
var Handles = []Handle{NW, NE, SW, SE}

func (h Handle) String() string {
	switch h {
	case NW:
		return "nw"
	case NE:
		return "ne"
	case SW:
		return "sw"
	case SE:
		return "se"
	default:
		return fmt.Sprintf("Handle(%d)", int(h))
	}
}

func (h Handle) east() bool  { return h == NE || h == SE }
func (h Handle) south() bool { return h == SW || h == SE }

// Moved returns a copy of a, translated by (dx, dy).
// Translating a snapshot by the total pointer displacement makes moves
// additive: moving by d1 and then by d2 equals moving by d1+d2.
func (a Annotation) Moved(dx, dy float64) Annotation {
	a.X += dx
	a.Y += dy
	return a
}

// Resized returns a copy of a, where the corner identified by h has been
// dragged by (dx, dy).
//
// The handle is located on the normalized box, so for boxes with negative
// width the west handle moves the stored far edge X+Width, and similarly
// for negative heights.  The result may have negative width or height;
// it is not normalized.
func (a Annotation) Resized(h Handle, dx, dy float64) Annotation {
	if !a.Kind.HasExtent() {
		return a
	}

	east := h.east()
	if a.Width < 0 {
		east = !east
	}
	if east {
		a.Width += dx
	} else {
		a.X += dx
		a.Width -= dx
	}

	south := h.south()
	if a.Height < 0 {
		south = !south
	}
	if south {
		a.Height += dy
	} else {
		a.Y += dy
		a.Height -= dy
	}
	return a
}

// HandleAt returns the handle of b which is within radius of p.
// If no handle is close enough, ok is false.
func HandleAt(b Box, p vec.Vec2, radius float64) (h Handle, ok bool) {
	for _, h := range Handles {
		if b.Corner(h).Sub(p).Length() <= radius {
			return h, true
		}
	}
	return 0, false
}

// DistanceToSegment returns the distance of p from the line segment
// between a and b.
func DistanceToSegment(p, a, b vec.Vec2) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l2
	t = max(0, min(1, t))
	return p.Sub(a.Add(d.Mul(t))).Length()
}

// ArrowHead returns the end points of the two sides of the head of an
// arrow annotation.  Both sides start at the tip (X+Width, Y+Height), have
// length [ArrowHeadLength] and form an angle of [ArrowHeadAngle] with the
// shaft.  For zero-length arrows ok is false.
func (a Annotation) ArrowHead() (tip, left, right vec.Vec2, ok bool) {
	tail := vec.Vec2{X: a.X, Y: a.Y}
	tip = vec.Vec2{X: a.X + a.Width, Y: a.Y + a.Height}
	d := tail.Sub(tip)
	if d.Length() == 0 {
		return tip, tip, tip, false
	}
	u := d.Normalize()

	sin, cos := math.Sincos(ArrowHeadAngle)
	l := vec.Vec2{X: u.X*cos - u.Y*sin, Y: u.X*sin + u.Y*cos}
	r := vec.Vec2{X: u.X*cos + u.Y*sin, Y: -u.X*sin + u.Y*cos}
	left = tip.Add(l.Mul(ArrowHeadLength))
	right = tip.Add(r.Mul(ArrowHeadLength))
	return tip, left, right, true
}
