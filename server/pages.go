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


package server

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"

	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/ingest"
	"seehuhn.de/go/pdfedit/pages"
)

type pageInfo struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Index        int     `json:"index"`
	BaseRotation int     `json:"baseRotation"`
	Rotation     int     `json:"rotation"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Selected     bool    `json:"selected"`
	Annotations  int     `json:"annotations"`
}

type pageList struct {
	Pages   []pageInfo `json:"pages"`
	Notices []string   `json:"notices,omitempty"`
}

func (s *Server) pageList() *pageList {
	res := &pageList{Pages: []pageInfo{}}
	sources := s.pages.Sources()
	for _, p := range s.pages.Pages() {
		name := p.SourceID
		if src, ok := sources[p.SourceID]; ok {
			name = src.Name
		}
		res.Pages = append(res.Pages, pageInfo{
			ID:           p.ID,
			Source:       name,
			Index:        p.Index,
			BaseRotation: p.BaseRotation,
			Rotation:     p.Rotation,
			Width:        p.Width,
			Height:       p.Height,
			Selected:     s.pages.IsSelected(p.ID),
			Annotations:  len(p.Annotations),
		})
	}
	return res
}

// upload ingests the files of a multipart request.  Files which cannot be
// used are reported as notices.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxUpload)
	mr, err := r.MultipartReader()
	if err != nil {
		return badRequest{err}
	}

	var files []ingest.File
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return badRequest{err}
		}
		if part.FormName() != "file" {
			continue
		}
		f, err := readFile(part)
		if err != nil {
			return badRequest{err}
		}
		files = append(files, f)
	}

	batch, notices := ingest.Ingest(files, s.opt.Ingest)
	var messages []string
	for _, res := range batch {
		err := s.pages.Add(res.Source, res.Pages)
		if err != nil {
			return err
		}
	}
	for _, n := range notices {
		s.log.Print(n)
		messages = append(messages, n.String())
	}

	list := s.pageList()
	list.Notices = messages
	return writeJSON(w, list)
}

func readFile(part *multipart.Part) (ingest.File, error) {
	data, err := io.ReadAll(part)
	if err != nil {
		return ingest.File{}, err
	}
	return ingest.File{
		Name: part.FileName(),
		Type: part.Header.Get("Content-Type"),
		Data: data,
	}, nil
}

func (s *Server) listPages(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, s.pageList())
}

func (s *Server) thumbnail(w http.ResponseWriter, r *http.Request) error {
	p, err := s.pages.Page(r.PathValue("id"))
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	err = png.Encode(buf, p.Thumbnail())
	if err != nil {
		return err
	}
	return writeBlob(w, "image/png", buf.Bytes())
}

func (s *Server) toggleSelect(w http.ResponseWriter, r *http.Request) error {
	selected, err := s.pages.ToggleSelect(r.PathValue("id"))
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]bool{"selected": selected})
}

func (s *Server) swap(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		I int `json:"i"`
		J int `json:"j"`
	}
	if err := readJSON(r, &req); err != nil {
		return err
	}
	if err := s.pages.Swap(req.I, req.J); err != nil {
		return badRequest{err}
	}
	return writeJSON(w, s.pageList())
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := readJSON(r, &req); err != nil {
		return err
	}
	if err := s.pages.Move(req.From, req.To); err != nil {
		return badRequest{err}
	}
	return writeJSON(w, s.pageList())
}

func (s *Server) rotate(w http.ResponseWriter, r *http.Request) error {
	s.pages.RotateSelected()
	return writeJSON(w, s.pageList())
}

func (s *Server) deletePages(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := readJSON(r, &req); err != nil {
		return err
	}
	if s.editor != nil && !s.editor.Closed() && s.pages.IsSelected(s.editor.PageID()) {
		return errPageInUse
	}
	if _, err := s.pages.DeleteSelected(req.Confirm); err != nil {
		return err
	}
	return writeJSON(w, s.pageList())
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) error {
	data, notices, err := export.Document(s.pages.Pages(), s.pages.Sources(), nil)
	for _, n := range notices {
		s.log.Print(n)
	}
	if err != nil {
		return err
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportName))
	return writeBlob(w, "application/pdf", data)
}

func (s *Server) clipboard(w http.ResponseWriter, r *http.Request) error {
	data, err := export.Snapshot(s.pages, s.opt.Scale)
	if err != nil {
		return err
	}
	return writeBlob(w, "image/png", data)
}

// page returns the page with the given ID, together with its source.
func (s *Server) page(id string) (*pages.Page, *pages.Source, error) {
	p, err := s.pages.Page(id)
	if err != nil {
		return nil, nil, err
	}
	src, err := s.pages.Source(p.SourceID)
	if err != nil {
		return nil, nil, err
	}
	return p, src, nil
}
