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


// Pdfedit edits the pages of PDF documents.
//
// Usage:
//
//	pdfedit serve [-addr :8080] [-scale 2]
//	pdfedit render [-page 1] [-scale 2] [-rotate 0] input output.png
//	pdfedit apply [-o out.pdf] [-script edits.json] [-strict] input...
//	pdfedit copy [-page 1] [-scale 2] [-o page.png] input...
//
// The serve command starts the HTTP server for the browser front end.  The
// other commands work on files directly.  Inputs can be PDF documents or
// JPEG, PNG and WebP images.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/pages"
)

type command struct {
	name  string
	usage string
	run   func(args []string) error
}

var commands = []command{
	{"serve", "[-addr :8080] [-scale 2]", serve},
	{"render", "[-page 1] [-scale 2] [-rotate 0] input output.png", render},
	{"apply", "[-o out.pdf] [-script edits.json] [-strict] input...", apply},
	{"copy", "[-page 1] [-scale 2] [-o page.png] input...", copyPage},
}

func main() {
	log.SetPrefix("pdfedit: ")

	if len(os.Args) < 2 {
		usage()
	}
	for _, cmd := range commands {
		if cmd.name == os.Args[1] {
			err := cmd.run(os.Args[2:])
			if err != nil {
				log.Fatal(err)
			}
			return
		}
	}
	usage()
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %s %s %s\n", filepath.Base(os.Args[0]), cmd.name, cmd.usage)
	}
	os.Exit(2)
}

// passwords collects the values of a repeatable -password flag.
type passwords []string

func (p *passwords) String() string {
	return strings.Repeat("*", len(*p))
}

func (p *passwords) Set(s string) error {
	*p = append(*p, s)
	return nil
}

// ingestOptions returns the options for reading input files.  If standard
// input is a terminal, the user is asked for passwords which are not given
// on the command line.
func ingestOptions(pw passwords) *ingest.Options {
	opt := &ingest.Options{Passwords: pw}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		opt.ReadPassword = func(file string, try int) string {
			if try >= 3 {
				return ""
			}
			fmt.Fprintf(os.Stderr, "password for %s: ", file)
			passwd, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return ""
			}
			return string(passwd)
		}
	}
	return opt
}

// progress prints a status line, if standard error is a terminal.
func progress(format string, args ...any) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// load reads and ingests the given files.  Files which cannot be used are
// reported and skipped.
func load(names []string, opt *ingest.Options) (*pages.Collection, [][]*pages.Page, error) {
	var files []ingest.File
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, ingest.File{Name: name, Data: data})
	}

	progress("reading %d files", len(files))
	batch, notices := ingest.Ingest(files, opt)
	for _, n := range notices {
		log.Print(n)
	}

	c := pages.NewCollection()
	byFile := make([][]*pages.Page, len(names))
	for _, res := range batch {
		err := c.Add(res.Source, res.Pages)
		if err != nil {
			return nil, nil, err
		}
		for i, name := range names {
			if name == res.Source.Name && byFile[i] == nil {
				byFile[i] = res.Pages
				break
			}
		}
	}
	if c.Len() == 0 {
		return nil, nil, fmt.Errorf("no usable input files")
	}
	return c, byFile, nil
}
