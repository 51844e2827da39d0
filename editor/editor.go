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


// Package editor implements the interactive annotation editor for a single
// page.
//
// An [Editor] shows a high-resolution rendering of the page and keeps its
// own copy of the page's annotations.  Pointer events, given in screen
// pixels of the rendering, create, select, move and resize annotations.
// Nothing is written back to the page until [Editor.Save] is called.
package editor

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/pages"
	"seehuhn.de/go/pdfedit/paint"
)

// Prompter asks the user for input which is needed to create text and
// image annotations.
type Prompter interface {
	// PromptText asks for the contents of a new text annotation at the
	// given point, in page-intrinsic units.  If ok is false, or if the
	// text is empty, no annotation is created.
	PromptText(at vec.Vec2) (text string, ok bool)

	// PickImage asks the user to choose an image file.  The chosen image
	// is delivered later via [Editor.InsertImage].
	PickImage()
}

// Options control an editing session.
// A nil *Options is valid and means that default values are used.
type Options struct {
	// Prompter is used by the text and image tools.  If nil, these tools
	// do nothing.
	Prompter Prompter

	// Toolbar, if non-nil, gives the initial toolbar state.
	Toolbar *Toolbar
}

// Editor is an editing session for one page.
type Editor struct {
	pageID string
	base   *image.RGBA
	view   annot.View

	list     []annot.Annotation
	selected string
	tool     Tool
	toolbar  Toolbar
	state    state
	prompter Prompter
	closed   bool
}

// Open starts an editing session for the given page.  The image base must
// show the page with its rotation applied, as returned by
// [seehuhn.de/go/pdfedit/ingest.RenderHighRes].
func Open(p *pages.Page, base *image.RGBA, opt *Options) *Editor {
	if opt == nil {
		opt = &Options{}
	}
	b := base.Bounds()
	e := &Editor{
		pageID:   p.ID,
		base:     base,
		view:     annot.NewView(p.Intrinsic(), b.Dx(), b.Dy(), p.TotalRotation()),
		list:     annot.CloneAll(p.Annotations),
		state:    idle{},
		prompter: opt.Prompter,
		toolbar: Toolbar{
			Color:    annot.DefaultColor,
			FontSize: annot.DefaultFontSize,
		},
	}
	if opt.Toolbar != nil {
		e.toolbar = *opt.Toolbar
		if !(e.toolbar.FontSize > 0) {
			e.toolbar.FontSize = annot.DefaultFontSize
		}
	}
	return e
}

// PageID returns the ID of the page being edited.
func (e *Editor) PageID() string {
	return e.pageID
}

// View returns the mapping between page-intrinsic units and the pixels of
// the rendered page.
func (e *Editor) View() annot.View {
	return e.view
}

// Bounds returns the size of the rendered page, in screen pixels.
func (e *Editor) Bounds() image.Rectangle {
	return e.base.Bounds()
}

// Annotations returns a copy of the current annotation list.
func (e *Editor) Annotations() []annot.Annotation {
	return annot.CloneAll(e.list)
}

// Selected returns a copy of the selected annotation.
func (e *Editor) Selected() (annot.Annotation, bool) {
	i := e.index(e.selected)
	if i < 0 {
		return annot.Annotation{}, false
	}
	return e.list[i].Clone(), true
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// SetTool changes the active tool.
func (e *Editor) SetTool(t Tool) error {
	if err := e.check(); err != nil {
		return err
	}
	if _, ok := toolNames[t]; !ok {
		return fmt.Errorf("unknown tool %d", int(t))
	}
	e.tool = t
	return nil
}

// Toolbar returns the current toolbar state.
func (e *Editor) Toolbar() Toolbar {
	return e.toolbar
}

// Mode describes the gesture in progress: "idle", "drawing", "moving", or
// "resizing-" followed by the name of the handle.
func (e *Editor) Mode() string {
	return e.state.String()
}

// SetFontSize changes the font size in the toolbar.  If a text annotation
// is selected, its font size is changed too.
func (e *Editor) SetFontSize(size float64) error {
	if err := e.check(); err != nil {
		return err
	}
	if !(size > 0) || size > 1000 {
		return fmt.Errorf("invalid font size %g", size)
	}
	e.toolbar.FontSize = size
	if a := e.selectedAnnotation(); a != nil && a.Kind == annot.Text {
		a.FontSize = size
	}
	return nil
}

// SetBold changes the font weight in the toolbar.  If a text annotation is
// selected, its weight is changed too.
func (e *Editor) SetBold(bold bool) error {
	if err := e.check(); err != nil {
		return err
	}
	e.toolbar.Bold = bold
	if a := e.selectedAnnotation(); a != nil && a.Kind == annot.Text {
		a.FontWeight = e.toolbar.weight()
	}
	return nil
}

// SetColor changes the color in the toolbar.  The selected annotation is
// not affected, use [Editor.ApplyColor] for this.
func (e *Editor) SetColor(c annot.Color) error {
	if err := e.check(); err != nil {
		return err
	}
	e.toolbar.Color = c
	return nil
}

// ApplyColor sets the color of the selected annotation to the toolbar
// color.
func (e *Editor) ApplyColor() error {
	if err := e.check(); err != nil {
		return err
	}
	a := e.selectedAnnotation()
	if a == nil {
		return errNothingSelected
	}
	a.Color = e.toolbar.Color
	return nil
}

// InsertImage adds an image annotation.  The image is placed at a fixed
// position with the default width, keeping the aspect ratio of the image.
func (e *Editor) InsertImage(data []byte) error {
	if err := e.check(); err != nil {
		return err
	}
	img, err := paint.DecodeImage(data)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Empty() {
		return errors.New("empty image")
	}

	a := annot.Annotation{
		ID:        pages.NewID("annot"),
		Kind:      annot.Image,
		X:         annot.DefaultImageX,
		Y:         annot.DefaultImageY,
		Width:     annot.DefaultImageWidth,
		Height:    annot.DefaultImageWidth * float64(b.Dy()) / float64(b.Dx()),
		ImageData: slices.Clone(data),
	}
	e.commit(a)
	return nil
}

// DeleteSelected removes the selected annotation.
func (e *Editor) DeleteSelected() error {
	if err := e.check(); err != nil {
		return err
	}
	i := e.index(e.selected)
	if i < 0 {
		return errNothingSelected
	}
	e.list = slices.Delete(e.list, i, i+1)
	e.selected = ""
	e.state = idle{}
	return nil
}

// Deselect clears the selection.
func (e *Editor) Deselect() error {
	if err := e.check(); err != nil {
		return err
	}
	e.selected = ""
	return nil
}

// Save stores the annotations in the page and closes the session.
// If an error is returned, the session stays open.
func (e *Editor) Save(c *pages.Collection) error {
	if err := e.check(); err != nil {
		return err
	}
	err := c.SetAnnotations(e.pageID, e.list)
	if err != nil {
		return err
	}
	e.close()
	return nil
}

// Cancel closes the session and discards all changes.
func (e *Editor) Cancel() {
	e.close()
}

// Closed reports whether the session has been saved or cancelled.
func (e *Editor) Closed() bool {
	return e.closed
}

func (e *Editor) close() {
	e.closed = true
	e.state = idle{}
	e.selected = ""
}

// Render returns the page with all annotations, and the selection marked.
func (e *Editor) Render() *image.RGBA {
	list := e.list
	if d, ok := e.state.(drawing); ok {
		list = append(slices.Clip(list), d.shape)
	}
	img := paint.Composite(e.base, list, e.view)

	if a := e.selectedAnnotation(); a != nil {
		paint.Selection(img, paint.Bounds(a), e.view, a.Kind.HasExtent())
	}
	return img
}

// commit appends a new annotation and selects it.
func (e *Editor) commit(a annot.Annotation) {
	e.list = append(e.list, a)
	e.selectID(a.ID)
}

// selectID selects an annotation and copies its properties into the
// toolbar.  The color of highlights is not copied, so that the next shape
// does not inherit the highlight color.
func (e *Editor) selectID(id string) {
	e.selected = id
	a := e.selectedAnnotation()
	if a == nil {
		return
	}
	if a.Kind == annot.Text {
		e.toolbar.FontSize = a.FontSize
		e.toolbar.Bold = a.FontWeight == annot.Bold
	}
	if a.Kind != annot.Highlight && a.Kind != annot.Image {
		e.toolbar.Color = a.Color
	}
}

func (e *Editor) selectedAnnotation() *annot.Annotation {
	i := e.index(e.selected)
	if i < 0 {
		return nil
	}
	return &e.list[i]
}

func (e *Editor) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.list {
		if e.list[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) check() error {
	if e.closed {
		return pdfedit.ErrNoSession
	}
	return nil
}

var errNothingSelected = errors.New("no annotation selected")
