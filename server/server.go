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


// Package server exposes an editing session to a browser front end.
//
// The browser owns the user interface.  It forwards file uploads, page
// operations and pointer gestures to the server, which keeps all state and
// answers with JSON descriptions and PNG renderings.  Requests are
// processed one at a time.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"

	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/editor"
	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/pages"
)

// Options control the server.
// A nil *Options is valid and means that default values are used.
type Options struct {
	// Scale is the resolution of the editor and clipboard renderings, in
	// pixels per PDF point.
	Scale float64

	// MaxUpload limits the total size of one upload request, in bytes.
	MaxUpload int64

	// Ingest is passed on to [ingest.Ingest].
	Ingest *ingest.Options

	// Logger receives per-item notices and request failures.
	// If nil, messages are written to standard error.
	Logger *log.Logger
}

// Default values for [Options].
const (
	DefaultScale     = 2
	DefaultMaxUpload = 256 << 20
)

// ExportName is the file name offered for the exported document.
const ExportName = "edited.pdf"

// Server is an [http.Handler] which owns one page collection and at most
// one open editor.
type Server struct {
	mux *http.ServeMux
	log *log.Logger
	opt Options

	mu     sync.Mutex
	pages  *pages.Collection
	editor *editor.Editor
	prompt *prompter
}

// New returns a server with an empty page collection.
func New(opt *Options) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		pages:  pages.NewCollection(),
		prompt: &prompter{},
	}
	if opt != nil {
		s.opt = *opt
	}
	if !(s.opt.Scale > 0) {
		s.opt.Scale = DefaultScale
	}
	if s.opt.MaxUpload <= 0 {
		s.opt.MaxUpload = DefaultMaxUpload
	}
	s.log = s.opt.Logger
	if s.log == nil {
		s.log = log.New(os.Stderr, "pdfedit: ", log.LstdFlags)
	}

	s.handle("POST /api/files", s.upload)
	s.handle("GET /api/pages", s.listPages)
	s.handle("GET /api/pages/{id}/thumbnail.png", s.thumbnail)
	s.handle("POST /api/pages/{id}/select", s.toggleSelect)
	s.handle("POST /api/pages/{id}/edit", s.openEditor)
	s.handle("POST /api/pages/swap", s.swap)
	s.handle("POST /api/pages/move", s.move)
	s.handle("POST /api/pages/rotate", s.rotate)
	s.handle("POST /api/pages/delete", s.deletePages)

	s.handle("GET /api/editor", s.editorState)
	s.handle("GET /api/editor/view.png", s.editorView)
	s.handle("POST /api/editor/pointer", s.pointer)
	s.handle("POST /api/editor/tool", s.setTool)
	s.handle("POST /api/editor/toolbar", s.setToolbar)
	s.handle("POST /api/editor/color", s.applyColor)
	s.handle("POST /api/editor/image", s.insertImage)
	s.handle("POST /api/editor/delete", s.deleteAnnotation)
	s.handle("POST /api/editor/deselect", s.deselect)
	s.handle("POST /api/editor/save", s.save)
	s.handle("POST /api/editor/cancel", s.cancel)

	s.handle("GET /api/export", s.export)
	s.handle("GET /api/clipboard.png", s.clipboard)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handle registers a handler.  All handlers run with s.mu held.
func (s *Server) handle(pattern string, h func(http.ResponseWriter, *http.Request) error) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		err := h(w, r)
		if err != nil {
			s.log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, err.Error(), statusFor(err))
		}
	})
}

// badRequest marks errors caused by malformed requests.
type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func statusFor(err error) int {
	var (
		bad       badRequest
		ingestErr *pdfedit.IngestionError
		convErr   *pdfedit.ConversionError
		renderErr *pdfedit.RenderError
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, pdfedit.ErrUnknownPage), errors.Is(err, pdfedit.ErrUnknownSource):
		return http.StatusNotFound
	case errors.Is(err, pdfedit.ErrNoSession),
		errors.Is(err, pdfedit.ErrSelection),
		errors.Is(err, errPageInUse),
		errors.Is(err, pdfedit.ErrNotConfirmed):
		return http.StatusConflict
	case errors.As(err, &ingestErr), errors.As(err, &convErr), errors.As(err, &renderErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func writeBlob(w http.ResponseWriter, contentType string, data []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, err := w.Write(data)
	return err
}

var (
	errPageInUse           = errors.New("the page is open in the editor")
	errUnknownPointerEvent = errors.New("unknown pointer event")
)
