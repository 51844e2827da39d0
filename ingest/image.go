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


package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/webp"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/internal/pdfout"
)

// imageExtensions lists the file name extensions which identify raster
// images, in case the MIME type is missing.
var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// IsImage reports whether f is a raster image, judged by the MIME type or,
// as a fallback, by the file name extension.
func IsImage(f File) bool {
	if strings.HasPrefix(f.Type, "image/") {
		return true
	}
	return imageExtensions[extension(f.Name)]
}

// isJPEG reports whether the file declares itself as a JPEG image.
func isJPEG(f File) bool {
	switch f.Type {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return true
	}
	ext := extension(f.Name)
	return ext == "jpg" || ext == "jpeg"
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// ImageToPDF converts a raster image into a PDF document with a single
// page.  Every image pixel becomes one PDF point.
//
// Files declared as JPEG are embedded without re-encoding.  Other images
// are decoded as PNG, then as WebP, and stored losslessly.  Since declared
// types are often wrong, JPEG embedding is tried as a last resort.
// If all of this fails, a [pdfedit.ConversionError] is returned.
func ImageToPDF(f File) ([]byte, error) {
	if isJPEG(f) {
		data, err := jpegPage(f.Data)
		if err != nil {
			return nil, &pdfedit.ConversionError{File: f.Name, Err: err}
		}
		return data, nil
	}

	var errs []error
	for _, decode := range []func([]byte) (image.Image, error){decodePNG, decodeWebP} {
		img, err := decode(f.Data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		data, err := decodedPage(img)
		if err != nil {
			return nil, &pdfedit.ConversionError{File: f.Name, Err: err}
		}
		return data, nil
	}

	data, err := jpegPage(f.Data)
	if err != nil {
		errs = append(errs, err)
		return nil, &pdfedit.ConversionError{File: f.Name, Err: errors.Join(errs...)}
	}
	return data, nil
}

func decodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("PNG: %w", err)
	}
	return img, nil
}

func decodeWebP(data []byte) (image.Image, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("WebP: %w", err)
	}
	return img, nil
}

// jpegPage embeds JPEG data.  Images in color models which cannot be
// passed through are decoded and stored losslessly instead.
func jpegPage(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	doc, err := pdfout.New(buf, nil)
	if err != nil {
		return nil, err
	}
	ref, size, err := pdfout.WriteJPEG(doc.Out, data)
	if errors.Is(err, pdfout.ErrUnsupportedJPEG) {
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("JPEG: %w", err)
		}
		return decodedPage(img)
	} else if err != nil {
		return nil, fmt.Errorf("JPEG: %w", err)
	}
	err = imagePage(doc, ref, size)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodedPage(img image.Image) ([]byte, error) {
	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, errEmptyImage
	}

	buf := &bytes.Buffer{}
	doc, err := pdfout.New(buf, nil)
	if err != nil {
		return nil, err
	}
	ref, err := pdfout.WriteImage(doc.Out, img)
	if err != nil {
		return nil, err
	}
	err = imagePage(doc, ref, size)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// imagePage adds a page showing the given image XObject, and closes the
// document.
func imagePage(doc *pdfout.Doc, img pdf.Reference, size image.Point) error {
	box := &pdf.Rectangle{URx: float64(size.X), URy: float64(size.Y)}
	content, err := pdfout.WriteContent(doc.Out, pdfout.FullPage("Im1", box))
	if err != nil {
		return err
	}
	err = doc.AppendPage(pdf.Dict{
		"MediaBox": pdf.Array{
			pdf.Integer(0), pdf.Integer(0), pdf.Integer(size.X), pdf.Integer(size.Y),
		},
		"Resources": pdf.Dict{
			"XObject": pdf.Dict{"Im1": img},
		},
		"Contents": content,
	})
	if err != nil {
		return err
	}
	return doc.Close()
}

var errEmptyImage = errors.New("empty image")
