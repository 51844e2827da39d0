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
	"bytes"
	"image"
	gocolor "image/color"
	"image/draw"
	_ "image/jpeg" // DCTDecode image data

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/pdf"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// drawXObject paints an image XObject.  Form XObjects are skipped.
func (rend *renderer) drawXObject(name string) error {
	obj, ok := rend.r.Resources.XObject[pdf.Name(name)]
	if !ok {
		return nil
	}

	ext := pdf.NewExtractor(rend.r.R)
	imgDict, err := pdfimage.ExtractDict(ext, obj)
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	err = imgDict.WriteData(&buf)
	if err != nil {
		return err
	}
	src := decodeImage(buf.Bytes(), imgDict.ColorSpace, imgDict.Width, imgDict.Height)
	if src == nil {
		return nil
	}

	stm, err := ext.GetStream(obj)
	if err == nil && stm != nil {
		if smask, ok := stm.Dict["SMask"]; ok {
			src = applySoftMask(ext, src, smask)
		}
	}

	rend.drawImage(src)
	return nil
}

// applySoftMask uses an 8-bit soft mask as the alpha channel of src.
// Masks of other sizes or depths are ignored.
func applySoftMask(ext *pdf.Extractor, src image.Image, obj pdf.Object) image.Image {
	mask, err := pdfimage.ExtractSoftMask(ext, obj)
	if err != nil {
		return src
	}
	b := src.Bounds()
	if mask.BitsPerComponent != 8 || mask.Width != b.Dx() || mask.Height != b.Dy() {
		return src
	}
	var buf bytes.Buffer
	if err := mask.WriteData(&buf); err != nil || buf.Len() < mask.Width*mask.Height {
		return src
	}
	alpha := buf.Bytes()

	res := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			c := gocolor.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(gocolor.NRGBA)
			c.A = alpha[y*b.Dx()+x]
			res.SetNRGBA(x, y, c)
		}
	}
	return res
}

// drawImage paints src into the unit square of the current user space.
// Image row 0 is at the top of the unit square.
func (rend *renderer) drawImage(src image.Image) {
	b := src.Bounds()
	if b.Empty() {
		return
	}
	W, H := float64(b.Dx()), float64(b.Dy())

	m := rend.r.CTM
	s2d := f64.Aff3{
		m[0] / W, -m[2] / H, m[2] + m[4],
		m[1] / W, -m[3] / H, m[3] + m[5],
	}
	xdraw.BiLinear.Transform(rend.img, s2d, src, b, draw.Over, nil)
}

// decodeImage converts the decoded sample data of an image XObject into a
// Go image.  Only 8-bit gray and RGB samples are handled directly;
// everything else is tried as an encoded image (e.g. JPEG data).
func decodeImage(data []byte, cs pdfcolor.Space, width, height int) image.Image {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img
	}
	if width <= 0 || height <= 0 || cs == nil {
		return nil
	}

	switch cs.Family() {
	case pdfcolor.FamilyDeviceGray, pdfcolor.FamilyCalGray:
		gray := image.NewGray(image.Rect(0, 0, width, height))
		if len(data) < len(gray.Pix) {
			return nil
		}
		copy(gray.Pix, data)
		return gray
	case pdfcolor.FamilyDeviceRGB, pdfcolor.FamilyCalRGB:
		n := width * height
		if len(data) < 3*n {
			return nil
		}
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		for i := range n {
			rgba.Pix[4*i+0] = data[3*i+0]
			rgba.Pix[4*i+1] = data[3*i+1]
			rgba.Pix[4*i+2] = data[3*i+2]
			rgba.Pix[4*i+3] = 255
		}
		return rgba
	}
	return nil
}
