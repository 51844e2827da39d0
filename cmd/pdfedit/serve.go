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
	"log"
	"net/http"
	"time"

	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/server"
)

func serve(args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", "localhost:8080", "address to listen on")
	scale := flags.Float64("scale", server.DefaultScale, "editor resolution in pixels per point")
	maxUpload := flags.Int64("max-upload", server.DefaultMaxUpload, "maximum size of an upload in bytes")
	var pw passwords
	flags.Var(&pw, "password", "password for encrypted inputs (repeatable)")
	flags.Parse(args)

	h := server.New(&server.Options{
		Scale:     *scale,
		MaxUpload: *maxUpload,
		Ingest:    &ingest.Options{Passwords: pw},
		Logger:    log.Default(),
	})
	srv := &http.Server{
		Addr:              *addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on http://%s/", *addr)
	return srv.ListenAndServe()
}
