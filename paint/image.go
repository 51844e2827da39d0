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
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"seehuhn.de/go/pdfedit/annot"
)

// image draws the embedded raster stretched onto the normalized box.
// Annotations created by the editor have the aspect ratio of the image.
func (p *painter) image(a *annot.Annotation) {
	src, err := DecodeImage(a.ImageData)
	if err != nil {
		return
	}
	x0, y0, x1, y1 := p.screenBox(a)
	r := image.Rect(
		int(math.Round(float64(x0))), int(math.Round(float64(y0))),
		int(math.Round(float64(x1))), int(math.Round(float64(y1))),
	)
	if r.Empty() {
		return
	}
	r = r.Add(p.dst.Bounds().Min)
	xdraw.CatmullRom.Scale(p.dst, r, src, src.Bounds(), draw.Over, nil)
}

const maxImages = 16

var images struct {
	sync.Mutex
	decoded map[string]image.Image
}

// DecodeImage decodes PNG, JPEG and WebP data.  Recently used images are
// cached, since the editor redraws all annotations after every pointer
// event.
func DecodeImage(data []byte) (image.Image, error) {
	images.Lock()
	img, ok := images.decoded[string(data)]
	images.Unlock()
	if ok {
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	images.Lock()
	if images.decoded == nil || len(images.decoded) >= maxImages {
		images.decoded = make(map[string]image.Image)
	}
	images.decoded[string(data)] = img
	images.Unlock()
	return img, nil
}
