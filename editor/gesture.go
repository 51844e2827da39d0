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


package editor

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/pages"
	"seehuhn.de/go/pdfedit/paint"
)

// state is the gesture in progress.  Exactly one of the types below is
// active at any time.
type state interface {
	String() string
}

type idle struct{}

func (idle) String() string { return "idle" }

// drawing is a new shape being dragged out from start.
type drawing struct {
	start vec.Vec2
	shape annot.Annotation
}

func (drawing) String() string { return "drawing" }

// moving and resizing keep a snapshot of the annotation as it was when the
// gesture started.  All updates are computed from the snapshot and the
// total pointer displacement.
type moving struct {
	start    vec.Vec2
	snapshot annot.Annotation
}

func (moving) String() string { return "moving" }

type resizing struct {
	handle   annot.Handle
	start    vec.Vec2
	snapshot annot.Annotation
}

func (r resizing) String() string { return "resizing-" + r.handle.String() }

// PointerDown handles a pointer press at the given screen position.
func (e *Editor) PointerDown(screen vec.Vec2) error {
	if err := e.check(); err != nil {
		return err
	}
	if _, ok := e.state.(idle); !ok {
		return nil
	}
	p := e.view.ToPage(screen)

	if a := e.selectedAnnotation(); a != nil && a.Kind.HasExtent() {
		if h, ok := annot.HandleAt(a.Box(), p, e.tolerance()); ok {
			e.state = resizing{handle: h, start: p, snapshot: a.Clone()}
			return nil
		}
	}

	switch {
	case e.tool == Select:
		i := e.hit(p)
		if i < 0 {
			e.selected = ""
			return nil
		}
		e.selectID(e.list[i].ID)
		e.state = moving{start: p, snapshot: e.list[i].Clone()}

	case e.tool.drawsShape():
		color := e.toolbar.Color
		if e.tool == Highlight {
			color = annot.DefaultHighlightColor
		}
		e.state = drawing{
			start: p,
			shape: annot.Annotation{
				ID:    pages.NewID("annot"),
				Kind:  e.tool.kind(),
				X:     p.X,
				Y:     p.Y,
				Color: color,
			},
		}

	case e.tool == Text:
		if e.prompter == nil {
			return nil
		}
		text, ok := e.prompter.PromptText(p)
		text = norm.NFC.String(text)
		if !ok || strings.TrimSpace(text) == "" {
			return nil
		}
		e.commit(annot.Annotation{
			ID:         pages.NewID("annot"),
			Kind:       annot.Text,
			X:          p.X,
			Y:          p.Y,
			Color:      e.toolbar.Color,
			Text:       text,
			FontSize:   e.toolbar.FontSize,
			FontWeight: e.toolbar.weight(),
		})

	case e.tool == Image:
		if e.prompter != nil {
			e.prompter.PickImage()
		}
	}
	return nil
}

// PointerMove handles pointer motion.
func (e *Editor) PointerMove(screen vec.Vec2) error {
	if err := e.check(); err != nil {
		return err
	}
	p := e.view.ToPage(screen)

	switch s := e.state.(type) {
	case drawing:
		s.shape.Width = p.X - s.start.X
		s.shape.Height = p.Y - s.start.Y
		e.state = s
	case moving:
		d := p.Sub(s.start)
		e.replace(s.snapshot.Moved(d.X, d.Y))
	case resizing:
		d := p.Sub(s.start)
		e.replace(s.snapshot.Resized(s.handle, d.X, d.Y))
	}
	return nil
}

// PointerUp handles the release of the pointer.
func (e *Editor) PointerUp(screen vec.Vec2) error {
	if err := e.check(); err != nil {
		return err
	}
	if _, ok := e.state.(drawing); ok {
		if err := e.PointerMove(screen); err != nil {
			return err
		}
	}
	e.finish()
	return nil
}

// PointerLeave handles the pointer leaving the page.  The gesture in
// progress ends as if the pointer had been released at its last position.
func (e *Editor) PointerLeave() error {
	if err := e.check(); err != nil {
		return err
	}
	e.finish()
	return nil
}

func (e *Editor) finish() {
	if d, ok := e.state.(drawing); ok {
		if math.Abs(d.shape.Width) > annot.MinExtent || math.Abs(d.shape.Height) > annot.MinExtent {
			e.commit(d.shape)
		}
	}
	e.state = idle{}
}

// replace overwrites the annotation with the same ID as a.
func (e *Editor) replace(a annot.Annotation) {
	if i := e.index(a.ID); i >= 0 {
		e.list[i] = a
	}
}

// hit returns the index of the topmost annotation at p, or -1.
func (e *Editor) hit(p vec.Vec2) int {
	tol := e.tolerance()
	for i := len(e.list) - 1; i >= 0; i-- {
		a := &e.list[i]
		if a.Kind == annot.Arrow {
			tail := vec.Vec2{X: a.X, Y: a.Y}
			tip := vec.Vec2{X: a.X + a.Width, Y: a.Y + a.Height}
			if annot.DistanceToSegment(p, tail, tip) <= tol {
				return i
			}
			continue
		}
		if paint.Bounds(a).Contains(p) {
			return i
		}
	}
	return -1
}

// tolerance converts the handle radius into page-intrinsic units.
func (e *Editor) tolerance() float64 {
	ppu := e.view.PixelsPerUnit()
	if !(ppu > 0) {
		return paint.HandleRadius
	}
	return paint.HandleRadius / ppu
}
