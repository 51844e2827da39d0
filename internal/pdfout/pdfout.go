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


// Package pdfout writes PDF documents page by page.
package pdfout

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	gocolor "image/color"
	"image/jpeg"
	"io"
	"strconv"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Doc is a PDF document under construction.
type Doc struct {
	Out  *pdf.Writer
	rm   *pdf.ResourceManager
	tree *pagetree.Writer
}

// New starts a new PDF document, which is written to w.
func New(w io.Writer, opt *pdf.WriterOptions) (*Doc, error) {
	out, err := pdf.NewWriter(w, pdf.V1_7, opt)
	if err != nil {
		return nil, err
	}
	rm := pdf.NewResourceManager(out)
	doc := &Doc{
		Out:  out,
		rm:   rm,
		tree: pagetree.NewWriter(out, rm),
	}
	return doc, nil
}

// AppendPage adds a page to the end of the document.
// The "Type" and "Parent" entries of the dictionary are set automatically.
func (d *Doc) AppendPage(dict pdf.Dict) error {
	return d.AppendPageRef(d.Out.Alloc(), dict)
}

// AppendPageRef is like [Doc.AppendPage], but stores the page dictionary
// under a reference allocated by the caller.
func (d *Doc) AppendPageRef(ref pdf.Reference, dict pdf.Dict) error {
	dict["Type"] = pdf.Name("Page")
	delete(dict, "Parent")
	return d.tree.AppendPageDict(ref, dict)
}

// Close writes the page tree and finishes the document.
func (d *Doc) Close() error {
	ref, err := d.tree.Close()
	if err != nil {
		return err
	}
	d.Out.GetMeta().Catalog.Pages = ref

	err = d.rm.Close()
	if err != nil {
		return err
	}
	return d.Out.Close()
}

// WriteContent writes a content stream and returns its reference.
func WriteContent(w pdf.Putter, content []byte) (pdf.Reference, error) {
	ref := w.Alloc()
	stm, err := w.OpenStream(ref, nil, pdf.FilterCompress{})
	if err != nil {
		return 0, err
	}
	_, err = stm.Write(content)
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// FullPage returns a content stream which draws the image XObject with the
// given name over the whole of box.  The graphics state is saved and
// restored around the image.
func FullPage(name pdf.Name, box *pdf.Rectangle) []byte {
	w := box.URx - box.LLx
	h := box.URy - box.LLy
	return fmt.Appendf(nil, "q %s 0 0 %s %s %s cm /%s Do Q\n",
		num(w), num(h), num(box.LLx), num(box.LLy), name)
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// WriteImage writes img as a lossless, Flate-compressed DeviceRGB image.
// If img has transparent pixels, the alpha channel is stored as a soft
// mask.
func WriteImage(w pdf.Putter, img image.Image) (pdf.Reference, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	rgb := make([]byte, 0, 3*width*height)
	alpha := make([]byte, 0, width*height)
	opaque := true
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := gocolor.NRGBAModel.Convert(img.At(x, y)).(gocolor.NRGBA)
			rgb = append(rgb, c.R, c.G, c.B)
			alpha = append(alpha, c.A)
			if c.A != 255 {
				opaque = false
			}
		}
	}

	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(width),
		"Height":           pdf.Integer(height),
		"ColorSpace":       pdf.Name("DeviceRGB"),
		"BitsPerComponent": pdf.Integer(8),
	}
	if !opaque {
		maskRef, err := writeSamples(w, pdf.Dict{
			"Type":             pdf.Name("XObject"),
			"Subtype":          pdf.Name("Image"),
			"Width":            pdf.Integer(width),
			"Height":           pdf.Integer(height),
			"ColorSpace":       pdf.Name("DeviceGray"),
			"BitsPerComponent": pdf.Integer(8),
		}, alpha, 1, width)
		if err != nil {
			return 0, err
		}
		dict["SMask"] = maskRef
	}
	return writeSamples(w, dict, rgb, 3, width)
}

func writeSamples(w pdf.Putter, dict pdf.Dict, data []byte, colors, columns int) (pdf.Reference, error) {
	ref := w.Alloc()
	compress := pdf.FilterCompress{
		"Predictor":        pdf.Integer(15),
		"Colors":           pdf.Integer(colors),
		"BitsPerComponent": pdf.Integer(8),
		"Columns":          pdf.Integer(columns),
	}
	stm, err := w.OpenStream(ref, dict, compress)
	if err != nil {
		return 0, fmt.Errorf("cannot open image stream: %w", err)
	}
	_, err = stm.Write(data)
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// WriteJPEG embeds JPEG data without re-encoding.
// The pixel size of the image is returned.
// CMYK images are not supported, since their sample values are stored
// inverted by many programs.
func WriteJPEG(w pdf.Putter, data []byte) (pdf.Reference, image.Point, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, image.Point{}, err
	}
	var cs pdf.Name
	switch cfg.ColorModel {
	case gocolor.GrayModel:
		cs = "DeviceGray"
	case gocolor.YCbCrModel, gocolor.RGBAModel:
		cs = "DeviceRGB"
	default:
		return 0, image.Point{}, ErrUnsupportedJPEG
	}

	ref := w.Alloc()
	stm, err := w.OpenStream(ref, pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(cfg.Width),
		"Height":           pdf.Integer(cfg.Height),
		"ColorSpace":       cs,
		"BitsPerComponent": pdf.Integer(8),
		"Filter":           pdf.Name("DCTDecode"),
	})
	if err != nil {
		return 0, image.Point{}, err
	}
	_, err = stm.Write(data)
	if err != nil {
		return 0, image.Point{}, err
	}
	err = stm.Close()
	if err != nil {
		return 0, image.Point{}, err
	}
	return ref, image.Point{X: cfg.Width, Y: cfg.Height}, nil
}

// ErrUnsupportedJPEG is returned by [WriteJPEG] for images which cannot be
// embedded without re-encoding.
var ErrUnsupportedJPEG = errors.New("unsupported JPEG color model")
