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
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"

	"seehuhn.de/go/pdfedit/ingest"
)

// render writes one page of the input, without annotations, to a PNG file.
func render(args []string) error {
	flags := flag.NewFlagSet("render", flag.ExitOnError)
	pageNo := flags.Int("page", 1, "page number to render (1-based)")
	scale := flags.Float64("scale", 2, "resolution in pixels per point")
	rotate := flags.Int("rotate", 0, "additional clockwise rotation in degrees")
	var pw passwords
	flags.Var(&pw, "password", "password for encrypted inputs (repeatable)")
	flags.Parse(args)
	if flags.NArg() != 2 {
		return errors.New("render: need input and output file names")
	}
	if *rotate%90 != 0 {
		return fmt.Errorf("render: rotation %d is not a multiple of 90", *rotate)
	}

	in, out := flags.Arg(0), flags.Arg(1)
	c, byFile, err := load([]string{in}, ingestOptions(pw))
	if err != nil {
		return err
	}
	pp := byFile[0]
	if *pageNo < 1 || *pageNo > len(pp) {
		return fmt.Errorf("render: page %d out of range [1, %d]", *pageNo, len(pp))
	}
	p := pp[*pageNo-1]
	p.Rotation = (*rotate%360 + 360) % 360

	src, err := c.Source(p.SourceID)
	if err != nil {
		return err
	}
	img, err := ingest.RenderHighRes(p, src, *scale)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if err != nil {
		f.Close()
		return err
	}
	err = f.Close()
	if err != nil {
		return err
	}
	progress("rendered page %d of %s to %s", *pageNo, in, out)
	return nil
}
