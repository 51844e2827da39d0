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


package pdfout

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"testing"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdfedit/raster"
)

func imagePage(t *testing.T, embed func(pdf.Putter) (pdf.Reference, error)) *pdf.Reader {
	t.Helper()
	buf := &bytes.Buffer{}
	doc, err := New(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := embed(doc.Out)
	if err != nil {
		t.Fatal(err)
	}
	box := &pdf.Rectangle{URx: 20, URy: 10}
	content, err := WriteContent(doc.Out, FullPage("Im0", box))
	if err != nil {
		t.Fatal(err)
	}
	err = doc.AppendPage(pdf.Dict{
		"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(20), pdf.Integer(10)},
		"Resources": pdf.Dict{"XObject": pdf.Dict{"Im0": ref}},
		"Contents":  content,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := raster.Open(buf.Bytes(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func imageStream(t *testing.T, r *pdf.Reader) *pdf.Stream {
	t.Helper()
	info, err := raster.GetPage(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := pdf.GetDict(r, info.Dict["Resources"])
	if err != nil {
		t.Fatal(err)
	}
	xobj, err := pdf.GetDict(r, res["XObject"])
	if err != nil {
		t.Fatal(err)
	}
	stm, err := pdf.GetStream(r, xobj["Im0"])
	if err != nil || stm == nil {
		t.Fatalf("missing image stream: %v", err)
	}
	return stm
}

func TestFullPage(t *testing.T) {
	got := string(FullPage("Ov", &pdf.Rectangle{LLx: 10, LLy: -5, URx: 110.5, URy: 195}))
	want := "q 100.5 0 0 200 10 -5 cm /Ov Do Q\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.NRGBA{R: 255, A: 255}), image.Point{}, draw.Src)

	r := imagePage(t, func(w pdf.Putter) (pdf.Reference, error) {
		return WriteImage(w, src)
	})
	stm := imageStream(t, r)
	if stm.Dict["SMask"] != nil {
		t.Error("opaque image has a soft mask")
	}
	if w, _ := pdf.GetInteger(r, stm.Dict["Width"]); w != 4 {
		t.Errorf("unexpected width %d", w)
	}

	img, err := raster.Render(r, 0, 1, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(10, 5); got.R < 250 || got.G > 5 {
		t.Errorf("unexpected pixel colour %v", got)
	}
}

func TestWriteImageAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 100})

	r := imagePage(t, func(w pdf.Putter) (pdf.Reference, error) {
		return WriteImage(w, src)
	})
	stm := imageStream(t, r)
	mask, err := pdf.GetStream(r, stm.Dict["SMask"])
	if err != nil || mask == nil {
		t.Fatalf("missing soft mask: %v", err)
	}
	if cs, _ := pdf.GetName(r, mask.Dict["ColorSpace"]); cs != "DeviceGray" {
		t.Errorf("unexpected mask colour space %q", cs)
	}
}

func TestWriteJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, src, nil); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	var size image.Point
	r := imagePage(t, func(w pdf.Putter) (pdf.Reference, error) {
		ref, sz, err := WriteJPEG(w, data)
		size = sz
		return ref, err
	})
	if size != (image.Point{X: 8, Y: 6}) {
		t.Errorf("unexpected size %v", size)
	}
	stm := imageStream(t, r)
	if f, _ := pdf.GetName(r, stm.Dict["Filter"]); f != "DCTDecode" {
		t.Errorf("unexpected filter %q", f)
	}

	if _, _, err := WriteJPEG(nil, []byte("not a JPEG")); err == nil {
		t.Error("invalid data accepted")
	}
}
