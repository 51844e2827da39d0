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


package pages

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
)

func makeSource(t *testing.T, name string, n int) (*Source, []*Page) {
	t.Helper()
	src := NewSource(name, []byte("%PDF-1.7 "+name))
	var pp []*Page
	for i := range n {
		pp = append(pp, &Page{
			ID:       NewID("page"),
			SourceID: src.ID,
			Index:    i,
			Preview:  image.NewRGBA(image.Rect(0, 0, 20, 10)),
			Width:    60,
			Height:   30,
		})
	}
	return src, pp
}

func ids(pp []*Page) []string {
	var res []string
	for _, p := range pp {
		res = append(res, p.ID)
	}
	return res
}

func TestSourceBytesAreCopied(t *testing.T) {
	data := []byte("abc")
	src := NewSource("x.pdf", data)
	data[0] = 'X'
	b := src.Bytes()
	if string(b) != "abc" {
		t.Fatalf("source shares the input buffer: %q", b)
	}
	b[1] = 'Y'
	if string(src.Bytes()) != "abc" {
		t.Error("Bytes returns the internal buffer")
	}
}

func TestAddKeepsOrder(t *testing.T) {
	c := NewCollection()
	s1, p1 := makeSource(t, "a.pdf", 2)
	s2, p2 := makeSource(t, "b.pdf", 3)
	if err := c.Add(s1, p1); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(s2, p2); err != nil {
		t.Fatal(err)
	}
	want := append(ids(p1), ids(p2)...)
	if d := cmp.Diff(want, ids(c.Pages())); d != "" {
		t.Errorf("unexpected order (-want +got):\n%s", d)
	}
	if _, err := c.Source(s2.ID); err != nil {
		t.Error(err)
	}

	// pages of a different source are rejected, without side effects
	s3, _ := makeSource(t, "c.pdf", 0)
	if err := c.Add(s3, p1[:1]); !errors.Is(err, pdfedit.ErrUnknownSource) {
		t.Errorf("unexpected error %v", err)
	}
	if c.Len() != 5 {
		t.Errorf("collection changed after failed Add")
	}
	if _, err := c.Source(s3.ID); err == nil {
		t.Error("source registered after failed Add")
	}
}

func TestReorder(t *testing.T) {
	c := NewCollection()
	s, pp := makeSource(t, "a.pdf", 4)
	if err := c.Add(s, pp); err != nil {
		t.Fatal(err)
	}
	a, b, cc, d := pp[0].ID, pp[1].ID, pp[2].ID, pp[3].ID

	if err := c.Swap(0, 2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{cc, b, a, d}, ids(c.Pages())); diff != "" {
		t.Errorf("swap (-want +got):\n%s", diff)
	}
	if err := c.Move(3, 0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{d, cc, b, a}, ids(c.Pages())); diff != "" {
		t.Errorf("move (-want +got):\n%s", diff)
	}
	if err := c.Swap(0, 4); err == nil {
		t.Error("out of range swap accepted")
	}
}

func TestRotateSelected(t *testing.T) {
	c := NewCollection()
	s, pp := makeSource(t, "a.pdf", 2)
	if err := c.Add(s, pp); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ToggleSelect(pp[1].ID); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if n := c.RotateSelected(); n != 1 {
			t.Fatalf("rotated %d pages", n)
		}
	}
	if pp[0].Rotation != 0 || pp[1].Rotation != 270 {
		t.Errorf("unexpected rotations %d, %d", pp[0].Rotation, pp[1].Rotation)
	}
	c.RotateSelected()
	if pp[1].Rotation != 0 {
		t.Errorf("rotation not reduced mod 360: %d", pp[1].Rotation)
	}
}

func TestSelection(t *testing.T) {
	c := NewCollection()
	s, pp := makeSource(t, "a.pdf", 3)
	if err := c.Add(s, pp); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SingleSelected(); !errors.Is(err, pdfedit.ErrSelection) {
		t.Errorf("no selection: got %v", err)
	}
	c.ToggleSelect(pp[0].ID)
	p, err := c.SingleSelected()
	if err != nil || p != pp[0] {
		t.Errorf("single selection: got %v, %v", p, err)
	}
	c.ToggleSelect(pp[2].ID)
	if _, err := c.SingleSelected(); !errors.Is(err, pdfedit.ErrSelection) {
		t.Errorf("two selected: got %v", err)
	}
	if on, _ := c.ToggleSelect(pp[0].ID); on {
		t.Error("toggle did not unselect")
	}
	if _, err := c.ToggleSelect("nonexistent"); !errors.Is(err, pdfedit.ErrUnknownPage) {
		t.Errorf("unknown page: got %v", err)
	}
	c.ClearSelection()
	if len(c.Selected()) != 0 {
		t.Error("selection not cleared")
	}
}

func TestDeleteSelected(t *testing.T) {
	c := NewCollection()
	s, pp := makeSource(t, "a.pdf", 3)
	if err := c.Add(s, pp); err != nil {
		t.Fatal(err)
	}
	c.ToggleSelect(pp[0].ID)
	c.ToggleSelect(pp[2].ID)

	if _, err := c.DeleteSelected(false); !errors.Is(err, pdfedit.ErrNotConfirmed) {
		t.Errorf("unconfirmed delete: got %v", err)
	}
	if c.Len() != 3 {
		t.Fatal("pages deleted without confirmation")
	}

	n, err := c.DeleteSelected(true)
	if err != nil || n != 2 {
		t.Fatalf("delete: got %d, %v", n, err)
	}
	if d := cmp.Diff([]string{pp[1].ID}, ids(c.Pages())); d != "" {
		t.Errorf("unexpected pages (-want +got):\n%s", d)
	}
	if len(c.Selected()) != 0 {
		t.Error("deleted pages still selected")
	}
	if _, err := c.Source(s.ID); err != nil {
		t.Error("source removed together with its pages")
	}
}

func TestSetAnnotations(t *testing.T) {
	c := NewCollection()
	s, pp := makeSource(t, "a.pdf", 1)
	if err := c.Add(s, pp); err != nil {
		t.Fatal(err)
	}
	list := []annot.Annotation{{ID: "a", Kind: annot.Rect, X: 1, Y: 2, Width: 3, Height: 4}}
	if err := c.SetAnnotations(pp[0].ID, list); err != nil {
		t.Fatal(err)
	}
	list[0].X = 100
	if pp[0].Annotations[0].X != 1 {
		t.Error("annotation list is shared with the caller")
	}
	bad := []annot.Annotation{{ID: "b", Kind: "blob"}}
	if err := c.SetAnnotations(pp[0].ID, bad); err == nil {
		t.Error("invalid annotation accepted")
	}
	if len(pp[0].Annotations) != 1 {
		t.Error("annotations replaced after error")
	}
}

func TestThumbnail(t *testing.T) {
	_, pp := makeSource(t, "a.pdf", 1)
	p := pp[0]
	p.Annotations = []annot.Annotation{
		{Kind: annot.Highlight, X: 0, Y: 0, Width: 60, Height: 30, Color: annot.Color{R: 255}},
	}

	th := p.Thumbnail()
	if b := th.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("unexpected size %v", b)
	}
	if th.RGBAAt(10, 5).A == 0 {
		t.Error("annotation missing from thumbnail")
	}
	if p.Preview.RGBAAt(10, 5).A != 0 {
		t.Error("preview was modified")
	}

	p.BaseRotation = 180
	p.Rotation = 270
	th = p.Thumbnail()
	if b := th.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Errorf("unexpected rotated size %v", b)
	}
}
