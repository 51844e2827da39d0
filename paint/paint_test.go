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
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdfedit/annot"
)

var red = annot.Color{R: 0xff}

func newCanvas(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

func isSet(img *image.RGBA, x, y int) bool {
	return img.RGBAAt(x, y).A > 0
}

func TestNegativeRect(t *testing.T) {
	a := annot.Annotation{Kind: annot.Rect, X: 100, Y: 100, Width: -50, Height: -50, Color: red}
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	Annotations(img, []annot.Annotation{a}, 1, 1)

	type testCase struct {
		x, y int
		want bool
	}
	cases := []testCase{
		{50, 75, true},   // left edge
		{100, 75, true},  // right edge
		{75, 50, true},   // top edge
		{75, 100, true},  // bottom edge
		{75, 75, false},  // inside
		{40, 75, false},  // left of the box
		{110, 110, false}, // beyond the stored origin
	}
	for _, c := range cases {
		if got := isSet(img, c.x, c.y); got != c.want {
			t.Errorf("pixel (%d,%d): got %t, want %t", c.x, c.y, got, c.want)
		}
	}
	if a.Width != -50 || a.Height != -50 {
		t.Error("annotation was modified")
	}
}

func TestScaleConsistency(t *testing.T) {
	a := annot.Annotation{Kind: annot.Highlight, X: 10, Y: 20, Width: 30, Height: 40, Color: red}
	for _, s := range []float64{0.5, 1, 2, 3} {
		img := image.NewRGBA(image.Rect(0, 0, int(100*s), int(100*s)))
		Annotations(img, []annot.Annotation{a}, s, s)
		cx, cy := int(25*s), int(40*s)
		if !isSet(img, cx, cy) {
			t.Errorf("scale %g: centre not painted", s)
		}
		if isSet(img, int(5*s), cy) || isSet(img, cx, int(70*s)) {
			t.Errorf("scale %g: paint outside the box", s)
		}
	}
}

func TestHighlightBlends(t *testing.T) {
	intrinsic := annot.Size{Width: 100, Height: 100}
	a := annot.Annotation{
		Kind: annot.Highlight, X: 0, Y: 0, Width: 100, Height: 100,
		Color: annot.DefaultHighlightColor,
	}
	base := newCanvas(100, 100, color.White)
	draw.Draw(base, image.Rect(0, 0, 50, 100), image.Black, image.Point{}, draw.Src)

	v := annot.View{Intrinsic: intrinsic, ScaleX: 1, ScaleY: 1}
	res := Composite(base, []annot.Annotation{a}, v)

	onWhite := res.RGBAAt(75, 50)
	if onWhite.R != 255 || onWhite.G != 255 || onWhite.B < 140 || onWhite.B > 190 {
		t.Errorf("unexpected colour over white: %v", onWhite)
	}
	onBlack := res.RGBAAt(25, 50)
	if onBlack.R < 70 || onBlack.R > 110 || onBlack.B != 0 {
		t.Errorf("unexpected colour over black: %v", onBlack)
	}
	if base.RGBAAt(75, 50) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("base image was modified")
	}
}

func TestArrowHeadDirection(t *testing.T) {
	right := annot.Annotation{Kind: annot.Arrow, X: 20, Y: 100, Width: 160, Color: red}
	left := annot.Annotation{Kind: annot.Arrow, X: 180, Y: 100, Width: -160, Color: red}

	imgR := image.NewRGBA(image.Rect(0, 0, 200, 200))
	Annotations(imgR, []annot.Annotation{right}, 1, 1)
	imgL := image.NewRGBA(image.Rect(0, 0, 200, 200))
	Annotations(imgL, []annot.Annotation{left}, 1, 1)

	// Next to the shaft, close to the tip, only the head is painted.
	if !isSet(imgR, 172, 97) || isSet(imgR, 28, 97) {
		t.Error("right-pointing arrow has the head at the wrong end")
	}
	if !isSet(imgL, 28, 97) || isSet(imgL, 172, 97) {
		t.Error("left-pointing arrow has the head at the wrong end")
	}
	// Both arrows share the shaft.
	if !isSet(imgR, 100, 100) || !isSet(imgL, 100, 100) {
		t.Error("missing shaft")
	}
}

func TestRotate(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})

	type testCase struct {
		deg  int
		w, h int
		x, y int
	}
	cases := []testCase{
		{0, 3, 2, 0, 0},
		{90, 2, 3, 1, 0},
		{180, 3, 2, 2, 1},
		{270, 2, 3, 0, 2},
		{-90, 2, 3, 0, 2},
	}
	for _, c := range cases {
		res := Rotate(src, c.deg)
		b := res.Bounds()
		if b.Dx() != c.w || b.Dy() != c.h {
			t.Errorf("%d: unexpected size %dx%d", c.deg, b.Dx(), b.Dy())
			continue
		}
		if res.RGBAAt(c.x, c.y).R != 255 {
			t.Errorf("%d: corner pixel not at (%d,%d)", c.deg, c.x, c.y)
		}
	}
}

func TestCompositeRotated(t *testing.T) {
	intrinsic := annot.Size{Width: 200, Height: 100}
	a := annot.Annotation{Kind: annot.Highlight, X: 0, Y: 0, Width: 20, Height: 20, Color: red}

	// The base shows the page turned by 90 degrees at scale 1.
	base := newCanvas(100, 200, color.White)
	v := annot.NewView(intrinsic, 100, 200, 90)
	res := Composite(base, []annot.Annotation{a}, v)

	// The top-left corner of the page is now at the top-right.
	if got := res.RGBAAt(90, 10); got.G == 255 {
		t.Errorf("highlight missing at top right: %v", got)
	}
	if got := res.RGBAAt(10, 10); got.G != 255 {
		t.Errorf("highlight at unrotated position: %v", got)
	}
}

func TestText(t *testing.T) {
	a := annot.Annotation{Kind: annot.Text, X: 10, Y: 10, Text: "Hello", FontSize: 24, Color: red}
	w, h := TextSize(&a)
	if w <= 0 || h < 24 {
		t.Fatalf("unexpected text size %gx%g", w, h)
	}

	bold := a
	bold.FontWeight = annot.Bold
	if wb, _ := TextSize(&bold); wb <= w {
		t.Errorf("bold text is not wider: %g <= %g", wb, w)
	}

	b := Bounds(&a)
	if d := cmp.Diff(annot.Box{X: 10, Y: 10, Width: w, Height: h}, b); d != "" {
		t.Errorf("unexpected bounds (-want +got):\n%s", d)
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	Annotations(img, []annot.Annotation{a}, 1, 1)
	count := 0
	for y := range 100 {
		for x := range 200 {
			if isSet(img, x, y) {
				count++
				if float64(x) < b.X-1 || float64(x) > b.X+b.Width+1 ||
					float64(y) < b.Y-1 || float64(y) > b.Y+b.Height+1 {
					t.Fatalf("text pixel (%d,%d) outside of bounds %v", x, y, b)
				}
			}
		}
	}
	if count == 0 {
		t.Error("no text drawn")
	}
}

func TestImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.RGBA{0, 0, 255, 255}), image.Point{}, draw.Src)
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, src); err != nil {
		t.Fatal(err)
	}

	a := annot.Annotation{Kind: annot.Image, X: 60, Y: 60, Width: -40, Height: -20, ImageData: buf.Bytes()}
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	Fit(img, []annot.Annotation{a}, annot.Size{Width: 100, Height: 100})

	if got := img.RGBAAt(40, 50); got.B != 255 || got.A != 255 {
		t.Errorf("image not drawn into the normalized box: %v", got)
	}
	if isSet(img, 70, 70) {
		t.Error("image drawn at the stored origin")
	}
}

func TestSelection(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	v := annot.View{Intrinsic: annot.Size{Width: 50, Height: 50}, ScaleX: 2, ScaleY: 2}
	Selection(img, annot.Box{X: 10, Y: 10, Width: 20, Height: 20}, v, true)
	for _, p := range []image.Point{{20, 20}, {60, 20}, {20, 60}, {60, 60}} {
		if !isSet(img, p.X, p.Y) {
			t.Errorf("no handle at %v", p)
		}
	}
	if isSet(img, 40, 40) {
		t.Error("selection fills the box")
	}
}
