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


package export

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/internal/testpdf"
	"seehuhn.de/go/pdfedit/pages"
	"seehuhn.de/go/pdfedit/raster"
)

// blackLeft fills the left half of a 200x100 page with black.
const blackLeft = "0 g 0 0 100 100 re f\n"

func session(t *testing.T, files ...ingest.File) *pages.Collection {
	t.Helper()
	batch, notices := ingest.Ingest(files, nil)
	if len(notices) > 0 {
		t.Fatal(notices)
	}
	c := pages.NewCollection()
	for _, res := range batch {
		if err := c.Add(res.Source, res.Pages); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func export(t *testing.T, c *pages.Collection, opt *Options) *pdf.Reader {
	t.Helper()
	data, notices, err := Document(c.Pages(), c.Sources(), opt)
	if err != nil {
		t.Fatal(err)
	}
	if len(notices) > 0 {
		t.Fatal(notices)
	}
	return testpdf.Open(t, data)
}

func TestRotationIsAdded(t *testing.T) {
	data := testpdf.Make(t,
		testpdf.Page{Width: 200, Height: 100},
		testpdf.Page{Width: 200, Height: 100, Rotate: 90},
	)
	c := session(t, ingest.File{Name: "in.pdf", Data: data})

	p2 := c.Pages()[1]
	c.ToggleSelect(p2.ID)
	for range 3 {
		c.RotateSelected()
	}

	r := export(t, c, nil)
	var got []int
	for i := range 2 {
		info, err := raster.GetPage(r, i)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, info.Rotate)
	}
	// 90 + 270 = 360
	if d := cmp.Diff([]int{0, 0}, got); d != "" {
		t.Errorf("unexpected rotations (-want +got):\n%s", d)
	}

	c.RotateSelected()
	r = export(t, c, nil)
	info, err := raster.GetPage(r, 1)
	if err != nil {
		t.Fatal(err)
	}
	if info.Rotate != 90 {
		t.Errorf("expected rotation 90, got %d", info.Rotate)
	}
}

func rawContents(t *testing.T, r pdf.Getter, pageNo int) []byte {
	t.Helper()
	_, dict, err := pagetree.GetPage(r, pageNo)
	if err != nil {
		t.Fatal(err)
	}
	stm, err := pdf.GetStream(r, dict["Contents"])
	if err != nil {
		t.Fatal(err)
	}
	if stm == nil {
		t.Fatal("page has no content stream")
	}
	data, err := io.ReadAll(stm.R)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestUnannotatedPagesAreCopied(t *testing.T) {
	data := testpdf.Make(t, testpdf.Page{Width: 200, Height: 100, Content: blackLeft})
	c := session(t, ingest.File{Name: "in.pdf", Data: data})

	r := export(t, c, nil)
	got := rawContents(t, r, 0)
	want := rawContents(t, testpdf.Open(t, data), 0)
	if !bytes.Equal(got, want) {
		t.Error("content stream was modified")
	}
}

func TestHighlightIsTranslucent(t *testing.T) {
	data := testpdf.Make(t, testpdf.Page{Width: 200, Height: 100, Content: blackLeft})
	c := session(t, ingest.File{Name: "in.pdf", Data: data})
	p := c.Pages()[0]
	err := c.SetAnnotations(p.ID, []annot.Annotation{{
		ID:     "h",
		Kind:   annot.Highlight,
		Width:  p.Width,
		Height: p.Height,
		Color:  annot.DefaultHighlightColor,
	}})
	if err != nil {
		t.Fatal(err)
	}

	r := export(t, c, nil)
	img, err := raster.Render(r, 0, 1, 0, true)
	if err != nil {
		t.Fatal(err)
	}

	// over white: yellow with some blue left
	white := img.RGBAAt(150, 50)
	if white.R < 250 || white.G < 250 || white.B < 140 || white.B > 190 {
		t.Errorf("highlight over white is %v", white)
	}
	// over black: the original content shows through
	black := img.RGBAAt(50, 50)
	if black.R < 70 || black.R > 110 || black.B > 10 {
		t.Errorf("highlight over black is %v", black)
	}
}

func TestRectIsFlattened(t *testing.T) {
	data := testpdf.Make(t, testpdf.Page{Width: 200, Height: 100})
	c := session(t, ingest.File{Name: "in.pdf", Data: data})
	p := c.Pages()[0]
	c.SetAnnotations(p.ID, []annot.Annotation{{
		ID:     "r",
		Kind:   annot.Rect,
		X:      150,
		Y:      75,
		Width:  -120,
		Height: -60,
		Color:  annot.Color{B: 0xff},
	}})

	r := export(t, c, nil)
	img, err := raster.Render(r, 0, 1, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	// intrinsic units are 1.5 times PDF points: the left edge of the
	// normalized box is at x = 30/1.5 = 20
	if c := img.RGBAAt(20, 30); c.B < 200 || c.R > 60 {
		t.Errorf("rectangle edge is %v", c)
	}
	if c := img.RGBAAt(60, 30); c.R < 250 || c.B < 250 {
		t.Errorf("inside of the rectangle is %v", c)
	}
}

func TestMissingSource(t *testing.T) {
	data := testpdf.Make(t, testpdf.Page{}, testpdf.Page{})
	c := session(t, ingest.File{Name: "in.pdf", Data: data})
	list := c.Pages()
	orphan := *list[0]
	orphan.SourceID = "missing"
	list = append(list, &orphan)

	out, notices, err := Document(list, c.Sources(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(notices) != 1 || !errors.Is(notices[0].Err, pdfedit.ErrUnknownSource) {
		t.Errorf("unexpected notices %v", notices)
	}
	n, err := raster.NumPages(testpdf.Open(t, out))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 pages, got %d", n)
	}

	out, _, err = Document(list, c.Sources(), &Options{Strict: true})
	var exportErr *pdfedit.ExportError
	if !errors.As(err, &exportErr) || out != nil {
		t.Errorf("strict export: got %v", err)
	}

	_, _, err = Document(nil, c.Sources(), nil)
	if !errors.As(err, &exportErr) {
		t.Errorf("empty export: got %v", err)
	}
}

func TestMetadata(t *testing.T) {
	data := testpdf.Make(t, testpdf.Page{})
	c := session(t, ingest.File{Name: "in.pdf", Data: data})
	opt := &Options{Title: "Minutes", Now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	out, _, err := Document(c.Pages(), c.Sources(), opt)
	if err != nil {
		t.Fatal(err)
	}
	r := testpdf.Open(t, out)
	ref := r.GetMeta().Catalog.Metadata
	stm, err := pdf.GetStream(r, ref)
	if err != nil || stm == nil {
		t.Fatalf("missing metadata stream: %v", err)
	}
	body, err := io.ReadAll(stm.R)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"Minutes", Producer, "2026-10-15"} {
		if !bytes.Contains(body, []byte(s)) {
			t.Errorf("metadata does not contain %q", s)
		}
	}
}

func TestSnapshot(t *testing.T) {
	data := testpdf.Make(t, testpdf.Page{Width: 200, Height: 100}, testpdf.Page{})
	c := session(t, ingest.File{Name: "in.pdf", Data: data})

	_, err := Snapshot(c, 1)
	var clipErr *pdfedit.ClipboardError
	if !errors.As(err, &clipErr) || !errors.Is(err, pdfedit.ErrSelection) {
		t.Errorf("no selection: got %v", err)
	}

	pp := c.Pages()
	c.ToggleSelect(pp[0].ID)
	c.ToggleSelect(pp[1].ID)
	if _, err := Snapshot(c, 1); !errors.Is(err, pdfedit.ErrSelection) {
		t.Errorf("two pages selected: got %v", err)
	}

	c.ToggleSelect(pp[1].ID)
	c.RotateSelected()
	out, err := Snapshot(c, 2)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 400 {
		t.Errorf("unexpected size %v", b)
	}
}
