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


// Package pages holds the documents and pages of an editing session.
//
// A [Source] owns the bytes of one input file, a [Page] refers to one page
// inside a source and carries the user's edits: its rotation and its
// annotations.  The [Collection] keeps the ordered list of pages together
// with the source registry and the page selection.
package pages

import (
	"fmt"
	"image"
	"sync/atomic"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/paint"
	"seehuhn.de/go/pdfedit/raster"
)

// Source is an input document.  The contents of a Source never change.
type Source struct {
	ID   string
	Name string

	// Password, if set, is used to open encrypted documents.
	Password string

	data []byte
}

// NewSource creates a new source document with a fresh ID.
// The data is copied.
func NewSource(name string, data []byte) *Source {
	return &Source{
		ID:   NewID("doc"),
		Name: name,
		data: append([]byte(nil), data...),
	}
}

// Bytes returns a copy of the encoded PDF document.
// Every consumer gets its own copy, since parsers may hold on to or modify
// the buffer they are given.
func (s *Source) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

// Open parses a private copy of the document.
func (s *Source) Open() (*pdf.Reader, error) {
	var opt *pdf.ReaderOptions
	if s.Password != "" {
		opt = &pdf.ReaderOptions{
			ReadPassword: func(_ []byte, try int) string {
				if try == 0 {
					return s.Password
				}
				return ""
			},
		}
	}
	return raster.Open(s.Bytes(), opt)
}

// Size returns the length of the encoded document in bytes.
func (s *Source) Size() int {
	return len(s.data)
}

// Page is one page of the editing session.
type Page struct {
	ID       string
	SourceID string

	// Index is the 0-based index of the page inside the source document.
	Index int

	// BaseRotation is the rotation specified in the source document.
	BaseRotation int

	// Rotation is the rotation applied by the user, one of 0, 90, 180 or
	// 270.  On export it is added to BaseRotation.
	Rotation int

	// Preview is a low-resolution rendering of the unrotated page.
	Preview *image.RGBA

	// Width and Height give the size of the unrotated page in
	// page-intrinsic units.
	Width, Height float64

	Annotations []annot.Annotation
}

// Intrinsic returns the size of the page in page-intrinsic units.
func (p *Page) Intrinsic() annot.Size {
	return annot.Size{Width: p.Width, Height: p.Height}
}

// TotalRotation returns the rotation under which the page is shown.
func (p *Page) TotalRotation() int {
	return annot.NormalizeRotation(p.BaseRotation + p.Rotation)
}

// Thumbnail returns the preview image, turned by the page rotation and with
// all annotations drawn on top.
func (p *Page) Thumbnail() *image.RGBA {
	if p.Preview == nil {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	rot := p.TotalRotation()
	base := paint.Rotate(p.Preview, rot)
	b := base.Bounds()
	v := annot.NewView(p.Intrinsic(), b.Dx(), b.Dy(), rot)
	return paint.Composite(base, p.Annotations, v)
}

func (p *Page) String() string {
	return fmt.Sprintf("%s (page %d of %s)", p.ID, p.Index+1, p.SourceID)
}

var idCounter atomic.Uint64

// NewID returns a new identifier, unique within the running process.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}
