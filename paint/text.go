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
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdfedit/annot"
)

// text draws a single line of text with its top-left corner at (X, Y).
// The font size is scaled by the vertical scale factor.
func (p *painter) text(a *annot.Annotation) {
	if a.Text == "" || !(a.FontSize > 0) {
		return
	}
	face, err := getFace(a.FontWeight, a.FontSize*p.sy)
	if err != nil {
		return
	}
	x, y := p.pt(vec.Vec2{X: a.X, Y: a.Y})
	off := p.dst.Bounds().Min
	x += float32(off.X)
	y += float32(off.Y)
	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(a.Color.NRGBA(1)),
		Face: face,
		Dot: fixed.Point26_6{
			X: toFixed(float64(x)),
			Y: toFixed(float64(y)) + face.Metrics().Ascent,
		},
	}
	d.DrawString(a.Text)
}

// TextSize returns the width and height of a text annotation in
// page-intrinsic units.
func TextSize(a *annot.Annotation) (width, height float64) {
	if a.Text == "" || !(a.FontSize > 0) {
		return 0, 0
	}
	face, err := getFace(a.FontWeight, a.FontSize)
	if err != nil {
		return 0, 0
	}
	m := face.Metrics()
	width = fromFixed(font.MeasureString(face, a.Text))
	height = fromFixed(m.Ascent + m.Descent)
	return width, height
}

// Bounds returns the region covered by the annotation, in page-intrinsic
// units.  Unlike [annot.Annotation.Box], this includes the extent of text
// annotations.
func Bounds(a *annot.Annotation) annot.Box {
	if a.Kind == annot.Text {
		w, h := TextSize(a)
		return annot.Box{X: a.X, Y: a.Y, Width: w, Height: h}
	}
	return a.Box()
}

func toFixed(x float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(x * 64))
}

func fromFixed(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

type faceKey struct {
	bold bool
	size fixed.Int26_6
}

// maxFaces limits the number of cached font faces.  Faces are created for
// every scale factor in use, so the cache is simply dropped when it grows
// too large.
const maxFaces = 64

var fonts struct {
	sync.Mutex
	regular, bold *opentype.Font
	err           error
	faces         map[faceKey]font.Face
}

func getFace(weight annot.Weight, size float64) (font.Face, error) {
	fonts.Lock()
	defer fonts.Unlock()

	if fonts.faces == nil {
		fonts.regular, fonts.err = opentype.Parse(goregular.TTF)
		if fonts.err == nil {
			fonts.bold, fonts.err = opentype.Parse(gobold.TTF)
		}
		fonts.faces = make(map[faceKey]font.Face)
	}
	if fonts.err != nil {
		return nil, fonts.err
	}

	key := faceKey{bold: weight == annot.Bold, size: toFixed(size)}
	if face, ok := fonts.faces[key]; ok {
		return face, nil
	}

	f := fonts.regular
	if key.bold {
		f = fonts.bold
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fromFixed(key.size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	if len(fonts.faces) >= maxFaces {
		clear(fonts.faces)
	}
	fonts.faces[key] = face
	return face, nil
}
