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
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"seehuhn.de/go/pdfedit/annot"
	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/pages"
)

// script describes the edits made by the apply command.
//
// The listed pages form the output, in the given order.  Pages of the
// inputs which are not listed are deleted.  If Pages is empty, all input
// pages are kept unchanged.
type script struct {
	Title string       `json:"title,omitempty"`
	Pages []scriptPage `json:"pages"`
}

type scriptPage struct {
	// File is the 0-based index of the input file.
	File int `json:"file"`

	// Page is the 1-based page number inside the input file.
	Page int `json:"page"`

	// Rotate is added to the page rotation, clockwise in degrees.
	Rotate int `json:"rotate,omitempty"`

	Annotations []annot.Annotation `json:"annotations,omitempty"`
}

func readScript(name string) (*script, error) {
	if name == "" {
		return &script{}, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	s := &script{}
	err = json.Unmarshal(data, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// apply merges the inputs, applies an edit script and writes the result.
func apply(args []string) error {
	flags := flag.NewFlagSet("apply", flag.ExitOnError)
	out := flags.String("o", "out.pdf", "output file name")
	scriptName := flags.String("script", "", "JSON file with the edits to apply")
	strict := flags.Bool("strict", false, "fail if a page cannot be copied")
	var pw passwords
	flags.Var(&pw, "password", "password for encrypted inputs (repeatable)")
	flags.Parse(args)
	if flags.NArg() == 0 {
		return errors.New("apply: no input files")
	}

	s, err := readScript(*scriptName)
	if err != nil {
		return err
	}
	c, byFile, err := load(flags.Args(), ingestOptions(pw))
	if err != nil {
		return err
	}
	err = s.apply(c, byFile)
	if err != nil {
		return err
	}

	progress("writing %d pages", c.Len())
	data, notices, err := export.Document(c.Pages(), c.Sources(), &export.Options{
		Strict: *strict,
		Title:  s.Title,
	})
	for _, n := range notices {
		log.Print(n)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}

// apply performs the edits of s on the collection.
func (s *script) apply(c *pages.Collection, byFile [][]*pages.Page) error {
	if len(s.Pages) == 0 {
		return nil
	}

	used := make(map[string]bool)
	for pos, sp := range s.Pages {
		if sp.File < 0 || sp.File >= len(byFile) || byFile[sp.File] == nil {
			return fmt.Errorf("script page %d: input file %d not available", pos+1, sp.File)
		}
		pp := byFile[sp.File]
		if sp.Page < 1 || sp.Page > len(pp) {
			return fmt.Errorf("script page %d: page %d out of range [1, %d]", pos+1, sp.Page, len(pp))
		}
		p := pp[sp.Page-1]
		if used[p.ID] {
			return fmt.Errorf("script page %d: page %d of file %d used twice", pos+1, sp.Page, sp.File)
		}
		used[p.ID] = true
		if sp.Rotate%90 != 0 {
			return fmt.Errorf("script page %d: rotation %d is not a multiple of 90", pos+1, sp.Rotate)
		}

		err := c.Move(position(c, p.ID), pos)
		if err != nil {
			return err
		}
		c.ClearSelection()
		if _, err := c.ToggleSelect(p.ID); err != nil {
			return err
		}
		for range annot.NormalizeRotation(sp.Rotate) / 90 {
			c.RotateSelected()
		}
		if sp.Annotations != nil {
			err = c.SetAnnotations(p.ID, sp.Annotations)
			if err != nil {
				return fmt.Errorf("script page %d: %w", pos+1, err)
			}
		}
	}

	c.ClearSelection()
	for _, p := range c.Pages()[len(s.Pages):] {
		if _, err := c.ToggleSelect(p.ID); err != nil {
			return err
		}
	}
	_, err := c.DeleteSelected(true)
	return err
}

func position(c *pages.Collection, id string) int {
	for i, p := range c.Pages() {
		if p.ID == id {
			return i
		}
	}
	return -1
}
