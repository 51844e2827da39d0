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


package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/internal/testpdf"
	"seehuhn.de/go/pdfedit/pages"
)

func loadTest(t *testing.T, sizes ...int) (*pages.Collection, [][]*pages.Page) {
	t.Helper()
	var files []ingest.File
	for i, n := range sizes {
		pp := make([]testpdf.Page, n)
		files = append(files, ingest.File{Name: string(rune('a' + i)), Data: testpdf.Make(t, pp...)})
	}
	batch, notices := ingest.Ingest(files, nil)
	if len(notices) > 0 {
		t.Fatal(notices)
	}
	c := pages.NewCollection()
	var byFile [][]*pages.Page
	for _, res := range batch {
		if err := c.Add(res.Source, res.Pages); err != nil {
			t.Fatal(err)
		}
		byFile = append(byFile, res.Pages)
	}
	return c, byFile
}

func TestScript(t *testing.T) {
	c, byFile := loadTest(t, 2, 3)
	s := &script{Pages: []scriptPage{
		{File: 1, Page: 3, Rotate: 270},
		{File: 0, Page: 1},
		{File: 1, Page: 1, Rotate: -90, Annotations: []annot.Annotation{
			{ID: "r", Kind: annot.Rect, Width: 10, Height: 10},
		}},
	}}
	if err := s.apply(c, byFile); err != nil {
		t.Fatal(err)
	}

	type result struct {
		ID          string
		Rotation    int
		Annotations int
	}
	var got []result
	for _, p := range c.Pages() {
		got = append(got, result{p.ID, p.Rotation, len(p.Annotations)})
	}
	want := []result{
		{byFile[1][2].ID, 270, 0},
		{byFile[0][0].ID, 0, 0},
		{byFile[1][0].ID, 270, 1},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected pages (-want +got):\n%s", d)
	}
	if len(c.Selected()) != 0 {
		t.Error("selection not cleared")
	}
}

func TestScriptErrors(t *testing.T) {
	cases := []scriptPage{
		{File: 2, Page: 1},
		{File: 0, Page: 0},
		{File: 0, Page: 1, Rotate: 45},
	}
	for _, sp := range cases {
		c, byFile := loadTest(t, 1)
		s := &script{Pages: []scriptPage{sp}}
		if err := s.apply(c, byFile); err == nil {
			t.Errorf("%+v: no error", sp)
		}
	}

	c, byFile := loadTest(t, 1)
	s := &script{Pages: []scriptPage{{File: 0, Page: 1}, {File: 0, Page: 1}}}
	if err := s.apply(c, byFile); err == nil {
		t.Error("duplicate page accepted")
	}
}
