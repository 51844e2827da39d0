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


// Package ingest turns input files into source documents and pages.
//
// PDF files are used as they are, raster images are first converted into
// single-page PDF documents.  Every page is rendered once at a low
// resolution to obtain a preview image.
package ingest

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/xdg-go/stringprep"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/pages"
	"seehuhn.de/go/pdfedit/raster"
)

const (
	// PreviewScale is the resolution of the preview images, in pixels per
	// PDF point.
	PreviewScale = 0.5

	// IntrinsicMultiplier relates the page-intrinsic coordinate space to
	// the preview images: one preview pixel corresponds to this many
	// page-intrinsic units.
	IntrinsicMultiplier = 3
)

// File is an input file.
type File struct {
	Name string

	// Type is the MIME type of the file, if known.
	Type string

	Data []byte
}

// Options control the ingestion of files.
// A nil *Options is valid and means that default values are used.
type Options struct {
	// Passwords are tried, in order, to open encrypted PDF files.
	Passwords []string

	// ReadPassword, if set, is called once the passwords in Passwords have
	// been exhausted.  The function should return the empty string to stop
	// trying.  The try argument counts the calls for the current file,
	// starting from zero.
	ReadPassword func(file string, try int) string
}

// Result holds one successfully ingested file.
type Result struct {
	Source *pages.Source
	Pages  []*pages.Page
}

// Batch lists the ingested files in input order.
type Batch []Result

// Ingest processes the given files in order.  Files which cannot be
// ingested are skipped and reported in the returned notices; they do not
// affect the remaining files.
func Ingest(files []File, opt *Options) (Batch, []pdfedit.Notice) {
	var batch Batch
	var notices []pdfedit.Notice
	for _, f := range files {
		res, err := IngestFile(f, opt)
		if err != nil {
			notices = append(notices, pdfedit.Notice{Item: f.Name, Err: err})
			continue
		}
		batch = append(batch, *res)
	}
	return batch, notices
}

// IngestFile converts one input file into a source document and its pages.
//
// The returned error is a [pdfedit.ConversionError] if a raster image could
// not be converted, and a [pdfedit.IngestionError] otherwise.
func IngestFile(f File, opt *Options) (*Result, error) {
	data := f.Data
	if IsImage(f) {
		pdfData, err := ImageToPDF(f)
		if err != nil {
			return nil, err
		}
		data = pdfData
	}

	passwords, err := opt.passwords()
	if err != nil {
		return nil, &pdfedit.IngestionError{File: f.Name, Err: err}
	}

	src := pages.NewSource(f.Name, data)
	var used string
	readOpt := &pdf.ReaderOptions{
		ReadPassword: func(_ []byte, try int) string {
			var pw string
			switch {
			case try < len(passwords):
				pw = passwords[try]
			case opt != nil && opt.ReadPassword != nil:
				pw = opt.ReadPassword(f.Name, try-len(passwords))
			}
			used = pw
			return pw
		},
	}
	r, err := raster.Open(src.Bytes(), readOpt)
	if err != nil {
		return nil, &pdfedit.IngestionError{File: f.Name, Err: err}
	}
	src.Password = used

	n, err := raster.NumPages(r)
	if err != nil {
		return nil, &pdfedit.IngestionError{File: f.Name, Err: err}
	}
	if n == 0 {
		return nil, &pdfedit.IngestionError{File: f.Name, Err: errNoPages}
	}

	res := &Result{Source: src}
	for i := range n {
		p, err := newPage(r, src.ID, i)
		if err != nil {
			return nil, &pdfedit.IngestionError{File: f.Name, Err: err}
		}
		res.Pages = append(res.Pages, p)
	}
	return res, nil
}

func newPage(r pdf.Getter, sourceID string, index int) (*pages.Page, error) {
	info, err := raster.GetPage(r, index)
	if err != nil {
		return nil, &pdfedit.RenderError{Page: index, Err: err}
	}
	preview, err := raster.RenderPage(r, info, PreviewScale, 0)
	if err != nil {
		return nil, &pdfedit.RenderError{Page: index, Err: err}
	}

	w, h := info.Size()
	p := &pages.Page{
		ID:           pages.NewID("page"),
		SourceID:     sourceID,
		Index:        index,
		BaseRotation: info.Rotate,
		Preview:      preview,
		Width:        w * PreviewScale * IntrinsicMultiplier,
		Height:       h * PreviewScale * IntrinsicMultiplier,
	}
	return p, nil
}

// RenderHighRes renders a page at the given scale, in pixels per PDF
// point.  The page is shown with its rotation applied.  The document is
// parsed afresh from a copy of the source bytes.
func RenderHighRes(p *pages.Page, src *pages.Source, scale float64) (*image.RGBA, error) {
	if src == nil || src.ID != p.SourceID {
		return nil, &pdfedit.RenderError{Page: p.Index, Err: pdfedit.ErrUnknownSource}
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, &pdfedit.RenderError{Page: p.Index, Err: fmt.Errorf("invalid scale %g", scale)}
	}

	r, err := src.Open()
	if err != nil {
		return nil, &pdfedit.RenderError{Page: p.Index, Err: err}
	}
	info, err := raster.GetPage(r, p.Index)
	if err != nil {
		return nil, &pdfedit.RenderError{Page: p.Index, Err: err}
	}
	img, err := raster.RenderPage(r, info, scale, info.Rotate+p.Rotation)
	if err != nil {
		return nil, &pdfedit.RenderError{Page: p.Index, Err: err}
	}
	return img, nil
}

// passwords returns the configured passwords, prepared with the SASLprep
// profile of stringprep.
func (opt *Options) passwords() ([]string, error) {
	if opt == nil {
		return nil, nil
	}
	res := make([]string, 0, len(opt.Passwords))
	for i, pw := range opt.Passwords {
		prepped, err := stringprep.SASLprep.Prepare(pw)
		if err != nil {
			return nil, fmt.Errorf("password %d: %w", i+1, err)
		}
		res = append(res, prepped)
	}
	return res, nil
}

var errNoPages = errors.New("document has no pages")
