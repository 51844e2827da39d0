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
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdfedit/internal/testpdf"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

// The left half of the page is red.
const halfRed = "1 0 0 rg 0 0 100 100 re f"

func TestGetPage(t *testing.T) {
	data := testpdf.Make(t,
		testpdf.Page{Width: 200, Height: 100},
		testpdf.Page{Width: 300, Height: 400, Rotate: -90},
	)
	r := testpdf.Open(t, data)

	n, err := NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}

	info, err := GetPage(r, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(pdf.Rectangle{URx: 300, URy: 400}, info.MediaBox); d != "" {
		t.Errorf("unexpected media box (-want +got):\n%s", d)
	}
	if info.Rotate != 270 {
		t.Errorf("expected rotation 270, got %d", info.Rotate)
	}
}

func TestRender(t *testing.T) {
	type probe struct {
		x, y int
		want color.RGBA
	}
	type testCase struct {
		name          string
		page          testpdf.Page
		scale         float64
		rotation      int
		width, height int
		probes        []probe
	}
	cases := []testCase{
		{
			name:  "unrotated",
			page:  testpdf.Page{Width: 200, Height: 100, Content: halfRed},
			scale: 1,
			width: 200, height: 100,
			probes: []probe{{50, 50, red}, {150, 50, white}},
		},
		{
			name:  "scaled",
			page:  testpdf.Page{Width: 200, Height: 100, Content: halfRed},
			scale: 0.5,
			width: 100, height: 50,
			probes: []probe{{25, 25, red}, {75, 25, white}},
		},
		{
			name:     "rotated 90",
			page:     testpdf.Page{Width: 200, Height: 100, Content: halfRed},
			scale:    1,
			rotation: 90,
			width:    100, height: 200,
			probes: []probe{{50, 50, red}, {50, 150, white}},
		},
		{
			name:     "rotated 180",
			page:     testpdf.Page{Width: 200, Height: 100, Content: halfRed},
			scale:    1,
			rotation: 180,
			width:    200, height: 100,
			probes: []probe{{150, 50, red}, {50, 50, white}},
		},
		{
			name:     "page rotation is added",
			page:     testpdf.Page{Width: 200, Height: 100, Rotate: 180, Content: halfRed},
			scale:    1,
			rotation: 90,
			width:    100, height: 200,
			probes: []probe{{50, 150, red}, {50, 50, white}},
		},
		{
			name:  "stroke",
			page:  testpdf.Page{Width: 200, Height: 100, Content: "0 0 1 RG 10 w 0 50 m 200 50 l S"},
			scale: 1,
			width: 200, height: 100,
			probes: []probe{{100, 50, blue}, {100, 10, white}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := testpdf.Open(t, testpdf.Make(t, c.page))
			img, err := Render(r, 0, c.scale, c.rotation, true)
			if err != nil {
				t.Fatal(err)
			}
			b := img.Bounds()
			if b.Dx() != c.width || b.Dy() != c.height {
				t.Fatalf("unexpected size %dx%d", b.Dx(), b.Dy())
			}
			for _, p := range c.probes {
				got := img.RGBAAt(p.x, p.y)
				if got != p.want {
					t.Errorf("pixel (%d,%d): got %v, want %v", p.x, p.y, got, p.want)
				}
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r := testpdf.Open(t, testpdf.Make(t, testpdf.Page{}))
	if _, err := Render(r, 0, 0, 0, true); err == nil {
		t.Error("zero scale accepted")
	}
	if _, err := Render(r, 5, 1, 0, true); err == nil {
		t.Error("missing page accepted")
	}
}

func TestDeviceMatrix(t *testing.T) {
	mbox := &pdf.Rectangle{LLx: 10, LLy: 20, URx: 110, URy: 220}
	type testCase struct {
		rotation int
		x, y     float64
		wantX    float64
		wantY    float64
	}
	// (10, 220) is the top-left corner of the unrotated page.
	cases := []testCase{
		{0, 10, 220, 0, 0},
		{90, 10, 220, 400, 0},
		{180, 10, 220, 200, 400},
		{270, 10, 220, 0, 200},
	}
	for _, c := range cases {
		m := DeviceMatrix(mbox, 2, c.rotation)
		x, y := apply(m, c.x, c.y)
		if float64(x) != c.wantX || float64(y) != c.wantY {
			t.Errorf("rotation %d: got (%g,%g), want (%g,%g)",
				c.rotation, x, y, c.wantX, c.wantY)
		}
	}
}
