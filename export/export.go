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


// Package export writes the pages of an editing session into a new PDF
// document.
//
// Pages are copied from their source documents.  The rotation chosen by
// the user is added to the rotation of the source page.  The annotations
// of a page are drawn into a transparent raster image of the page's
// intrinsic size, which is placed over the whole page.  Pages without
// annotations are copied unchanged.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"time"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/internal/pdfout"
	"seehuhn.de/go/pdfedit/pages"
	"seehuhn.de/go/pdfedit/paint"
	"seehuhn.de/go/pdfedit/raster"
)

// Options control the export.
// A nil *Options is valid and means that default values are used.
type Options struct {
	// Strict makes the export fail if any page cannot be copied.  By
	// default such pages are left out and reported as notices.
	Strict bool

	// Title is stored in the document metadata.
	Title string

	// Now is the creation time stored in the document metadata.
	// If zero, the current time is used.
	Now time.Time

	// SkipValidation disables the final consistency check of the
	// generated document.
	SkipValidation bool
}

// DefaultTitle is the document title used if [Options.Title] is empty.
const DefaultTitle = "edited.pdf"

// overlayName is the preferred resource name of the annotation image.
const overlayName = "Annot"

// keys which are not carried over to the new page dictionaries
var dropKeys = []pdf.Name{"Parent", "StructParents", "B"}

// Document writes the given pages, in order, into a new PDF document.
//
// The error is a [pdfedit.ExportError] if the document could not be
// generated.  In this case no data is returned.  Pages which could not be
// copied are reported in the returned notices.
func Document(list []*pages.Page, sources map[string]*pages.Source, opt *Options) ([]byte, []pdfedit.Notice, error) {
	if opt == nil {
		opt = &Options{}
	}

	buf := &bytes.Buffer{}
	doc, err := pdfout.New(buf, nil)
	if err != nil {
		return nil, nil, &pdfedit.ExportError{Err: err}
	}
	e := &exporter{
		doc:     doc,
		sources: sources,
		open:    make(map[string]*openSource),
	}

	var notices []pdfedit.Notice
	numPages := 0
	for _, p := range list {
		err := e.page(p)
		if err != nil {
			n := pdfedit.Notice{Item: p.String(), Err: err}
			if opt.Strict {
				return nil, append(notices, n), &pdfedit.ExportError{Err: err}
			}
			notices = append(notices, n)
			continue
		}
		numPages++
	}
	if numPages == 0 {
		return nil, notices, &pdfedit.ExportError{Err: errNoPages}
	}

	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	title := opt.Title
	if title == "" {
		title = DefaultTitle
	}
	err = writeMetadata(doc.Out, title, now)
	if err != nil {
		return nil, notices, &pdfedit.ExportError{Err: err}
	}

	err = doc.Close()
	if err != nil {
		return nil, notices, &pdfedit.ExportError{Err: err}
	}

	data := buf.Bytes()
	if !opt.SkipValidation {
		err = validate(data)
		if err != nil {
			return nil, notices, &pdfedit.ExportError{Err: err}
		}
	}
	return data, notices, nil
}

type exporter struct {
	doc     *pdfout.Doc
	sources map[string]*pages.Source
	open    map[string]*openSource

	// begin is a content stream which saves the graphics state.  It is
	// shared by all pages with annotations.
	begin pdf.Reference
}

// openSource is a parsed source document.  The copier makes sure that
// objects shared between pages are copied only once.
type openSource struct {
	r      *pdf.Reader
	copier *pdfcopy.Copier
	err    error
}

func (e *exporter) source(id string) (*openSource, error) {
	if src, ok := e.open[id]; ok {
		return src, src.err
	}

	src := &openSource{}
	s, ok := e.sources[id]
	if !ok {
		src.err = fmt.Errorf("%w %q", pdfedit.ErrUnknownSource, id)
	} else {
		src.r, src.err = s.Open()
		if src.err == nil {
			src.copier = pdfcopy.NewCopier(e.doc.Out, src.r)
		}
	}
	e.open[id] = src
	return src, src.err
}

// page copies one page into the output document.
func (e *exporter) page(p *pages.Page) error {
	src, err := e.source(p.SourceID)
	if err != nil {
		return err
	}
	info, err := raster.GetPage(src.r, p.Index)
	if err != nil {
		return err
	}
	origRef, dict, err := pagetree.GetPage(src.r, p.Index)
	if err != nil {
		return err
	}

	// References to the source page, for example from link annotations,
	// are mapped to the new page.
	ref := e.doc.Out.Alloc()
	if origRef != 0 {
		src.copier.Redirect(origRef, ref)
	}

	dict = maps.Clone(dict)
	for _, key := range dropKeys {
		delete(dict, key)
	}
	hasAnnotations := len(p.Annotations) > 0
	if hasAnnotations {
		delete(dict, "Contents")
		delete(dict, "Resources")
	}

	out, err := src.copier.CopyDict(dict)
	if err != nil {
		return err
	}
	if _, ok := out["MediaBox"]; !ok {
		out["MediaBox"] = rectangle(&info.MediaBox)
	}
	if p.Rotation != 0 {
		rot := annot.NormalizeRotation(info.Rotate + p.Rotation)
		if rot == 0 {
			delete(out, "Rotate")
		} else {
			out["Rotate"] = pdf.Integer(rot)
		}
	}

	if hasAnnotations {
		err = e.addOverlay(src, p, info, out)
		if err != nil {
			return err
		}
	}

	return e.doc.AppendPageRef(ref, out)
}

// addOverlay flattens the annotations of p into an image and adds it to
// the new page dictionary out.  The original content is wrapped in q/Q, so
// that the image is drawn in the default coordinate system.
func (e *exporter) addOverlay(src *openSource, p *pages.Page, info *raster.PageInfo, out pdf.Dict) error {
	img := paint.Overlay(p.Annotations, p.Intrinsic(), 1, 1)
	imgRef, err := pdfout.WriteImage(e.doc.Out, img)
	if err != nil {
		return err
	}

	res, err := pdf.GetDict(src.r, info.Dict["Resources"])
	if err != nil {
		return err
	}
	xobj, err := pdf.GetDict(src.r, res["XObject"])
	if err != nil {
		return err
	}
	res = maps.Clone(res)
	delete(res, "XObject")
	newRes, err := src.copier.CopyDict(res)
	if err != nil {
		return err
	}
	newXObj, err := src.copier.CopyDict(xobj)
	if err != nil {
		return err
	}
	name := unusedName(newXObj, overlayName)
	newXObj[name] = imgRef
	newRes["XObject"] = newXObj
	out["Resources"] = newRes

	contents, err := e.contents(src, info.Dict["Contents"])
	if err != nil {
		return err
	}
	if e.begin == 0 {
		e.begin, err = pdfout.WriteContent(e.doc.Out, []byte("q\n"))
		if err != nil {
			return err
		}
	}
	end := append([]byte("Q\n"), pdfout.FullPage(name, &info.MediaBox)...)
	endRef, err := pdfout.WriteContent(e.doc.Out, end)
	if err != nil {
		return err
	}

	all := pdf.Array{e.begin}
	all = append(all, contents...)
	all = append(all, endRef)
	out["Contents"] = all
	return nil
}

// contents copies the content streams of a source page.
func (e *exporter) contents(src *openSource, obj pdf.Object) (pdf.Array, error) {
	resolved, err := pdf.Resolve(src.r, obj)
	if err != nil {
		return nil, err
	}
	switch resolved := resolved.(type) {
	case nil:
		return nil, nil
	case pdf.Array:
		return src.copier.CopyArray(resolved)
	case *pdf.Stream:
		ref, ok := obj.(pdf.Reference)
		if !ok {
			return nil, errMalformedContents
		}
		newRef, err := src.copier.CopyReference(ref)
		if err != nil {
			return nil, err
		}
		return pdf.Array{newRef}, nil
	default:
		return nil, errMalformedContents
	}
}

// unusedName returns a key which is not yet used in dict.
func unusedName(dict pdf.Dict, base pdf.Name) pdf.Name {
	name := base
	for i := 1; ; i++ {
		if _, used := dict[name]; !used {
			return name
		}
		name = pdf.Name(fmt.Sprintf("%s%d", base, i))
	}
}

func rectangle(r *pdf.Rectangle) pdf.Array {
	return pdf.Array{
		pdf.Number(r.LLx), pdf.Number(r.LLy),
		pdf.Number(r.URx), pdf.Number(r.URy),
	}
}

var (
	errNoPages           = errors.New("no pages to export")
	errMalformedContents = errors.New("malformed page contents")
)
