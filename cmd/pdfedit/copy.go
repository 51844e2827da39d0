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
	"flag"
	"fmt"
	"os"

	"seehuhn.de/go/pdfedit/export"
)

// copyPage writes the clipboard image of one page to a file.  Pages are
// numbered consecutively across all inputs.
func copyPage(args []string) error {
	flags := flag.NewFlagSet("copy", flag.ExitOnError)
	pageNo := flags.Int("page", 1, "page number (1-based, counted across all inputs)")
	scale := flags.Float64("scale", 2, "resolution in pixels per point")
	out := flags.String("o", "page.png", "output file name")
	var pw passwords
	flags.Var(&pw, "password", "password for encrypted inputs (repeatable)")
	flags.Parse(args)

	c, _, err := load(flags.Args(), ingestOptions(pw))
	if err != nil {
		return err
	}
	all := c.Pages()
	if *pageNo < 1 || *pageNo > len(all) {
		return fmt.Errorf("copy: page %d out of range [1, %d]", *pageNo, len(all))
	}
	_, err = c.ToggleSelect(all[*pageNo-1].ID)
	if err != nil {
		return err
	}

	data, err := export.Snapshot(c, *scale)
	if err != nil {
		return err
	}
	err = os.WriteFile(*out, data, 0o644)
	if err != nil {
		return err
	}
	progress("wrote %s", *out)
	return nil
}
