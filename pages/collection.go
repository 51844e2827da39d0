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
	"fmt"
	"slices"

	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/annot"
)

// Collection is the ordered list of pages of an editing session, together
// with the registry of source documents and the set of selected pages.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	pages    []*Page
	sources  map[string]*Source
	selected map[string]bool
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		sources:  make(map[string]*Source),
		selected: make(map[string]bool),
	}
}

// Add registers a source document and appends its pages, in order, to the
// end of the collection.  The collection is left unchanged if an error is
// returned.
func (c *Collection) Add(src *Source, pages []*Page) error {
	if src == nil {
		return errors.New("missing source document")
	}
	for _, p := range pages {
		if p.SourceID != src.ID {
			return fmt.Errorf("page %s: %w %q", p.ID, pdfedit.ErrUnknownSource, p.SourceID)
		}
		if _, dup := c.find(p.ID); dup {
			return fmt.Errorf("page %s: duplicate page ID", p.ID)
		}
	}

	c.sources[src.ID] = src
	c.pages = append(c.pages, pages...)
	return nil
}

// Len returns the number of pages.
func (c *Collection) Len() int {
	return len(c.pages)
}

// Pages returns the pages in their current order.
// The returned slice is a copy, but the pages are shared.
func (c *Collection) Pages() []*Page {
	return slices.Clone(c.pages)
}

// Sources returns the source registry.
// The returned map is a copy.
func (c *Collection) Sources() map[string]*Source {
	res := make(map[string]*Source, len(c.sources))
	for id, s := range c.sources {
		res[id] = s
	}
	return res
}

// Source returns the source document with the given ID.
func (c *Collection) Source(id string) (*Source, error) {
	s, ok := c.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", pdfedit.ErrUnknownSource, id)
	}
	return s, nil
}

// Page returns the page with the given ID.
func (c *Collection) Page(id string) (*Page, error) {
	i, ok := c.find(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", pdfedit.ErrUnknownPage, id)
	}
	return c.pages[i], nil
}

func (c *Collection) find(id string) (int, bool) {
	for i, p := range c.pages {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Swap exchanges the pages at positions i and j.
func (c *Collection) Swap(i, j int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if err := c.checkIndex(j); err != nil {
		return err
	}
	c.pages[i], c.pages[j] = c.pages[j], c.pages[i]
	return nil
}

// Move removes the page at position from and re-inserts it at position to.
// The pages in between shift by one place.
func (c *Collection) Move(from, to int) error {
	if err := c.checkIndex(from); err != nil {
		return err
	}
	if err := c.checkIndex(to); err != nil {
		return err
	}
	p := c.pages[from]
	c.pages = slices.Delete(c.pages, from, from+1)
	c.pages = slices.Insert(c.pages, to, p)
	return nil
}

func (c *Collection) checkIndex(i int) error {
	if i < 0 || i >= len(c.pages) {
		return fmt.Errorf("page position %d out of range [0, %d)", i, len(c.pages))
	}
	return nil
}

// ToggleSelect adds the page to the selection, or removes it if it was
// selected before.  The new selection state is returned.
func (c *Collection) ToggleSelect(id string) (bool, error) {
	if _, ok := c.find(id); !ok {
		return false, fmt.Errorf("%w %q", pdfedit.ErrUnknownPage, id)
	}
	if c.selected[id] {
		delete(c.selected, id)
		return false, nil
	}
	c.selected[id] = true
	return true, nil
}

// IsSelected reports whether the page with the given ID is selected.
func (c *Collection) IsSelected(id string) bool {
	return c.selected[id]
}

// Selected returns the selected pages, in page order.
func (c *Collection) Selected() []*Page {
	var res []*Page
	for _, p := range c.pages {
		if c.selected[p.ID] {
			res = append(res, p)
		}
	}
	return res
}

// ClearSelection unselects all pages.
func (c *Collection) ClearSelection() {
	clear(c.selected)
}

// RotateSelected turns every selected page clockwise by 90 degrees.
// The number of rotated pages is returned.
func (c *Collection) RotateSelected() int {
	n := 0
	for _, p := range c.Selected() {
		p.Rotation = (p.Rotation + 90) % 360
		n++
	}
	return n
}

// DeleteSelected removes all selected pages from the collection.
// The caller must confirm the operation; otherwise [pdfedit.ErrNotConfirmed]
// is returned and nothing is deleted.
// Source documents stay registered for the rest of the session.
func (c *Collection) DeleteSelected(confirmed bool) (int, error) {
	if len(c.selected) == 0 {
		return 0, nil
	}
	if !confirmed {
		return 0, pdfedit.ErrNotConfirmed
	}
	before := len(c.pages)
	c.pages = slices.DeleteFunc(c.pages, func(p *Page) bool {
		return c.selected[p.ID]
	})
	clear(c.selected)
	return before - len(c.pages), nil
}

// SingleSelected returns the selected page, if exactly one page is
// selected.  Otherwise [pdfedit.ErrSelection] is returned.
func (c *Collection) SingleSelected() (*Page, error) {
	sel := c.Selected()
	if len(sel) != 1 {
		return nil, fmt.Errorf("%d pages selected: %w", len(sel), pdfedit.ErrSelection)
	}
	return sel[0], nil
}

// SetAnnotations replaces the annotations of a page.
// The list is copied.
func (c *Collection) SetAnnotations(id string, list []annot.Annotation) error {
	p, err := c.Page(id)
	if err != nil {
		return err
	}
	for i := range list {
		if err := list[i].Check(); err != nil {
			return err
		}
	}
	p.Annotations = annot.CloneAll(list)
	return nil
}
